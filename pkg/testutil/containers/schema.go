//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func openPool(ctx context.Context, url string) (*sql.DB, error) {
	pool, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}
	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func applySchema(ctx context.Context, url string) error {
	pool, err := openPool(ctx, url)
	if err != nil {
		return err
	}
	defer pool.Close()

	if _, err := pool.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE ingredients (
	id               uuid PRIMARY KEY,
	user_id          uuid NOT NULL,
	name             text NOT NULL,
	quantity         double precision NOT NULL,
	unit             text NOT NULL,
	category         text NOT NULL DEFAULT '',
	expiration_date  date,
	notes            text NOT NULL DEFAULT '',
	created_at       timestamptz NOT NULL,
	updated_at       timestamptz NOT NULL
);
CREATE INDEX ingredients_user_idx ON ingredients (user_id);

CREATE TABLE leftovers (
	id               uuid PRIMARY KEY,
	user_id          uuid NOT NULL,
	name             text NOT NULL,
	quantity         double precision NOT NULL,
	unit             text NOT NULL,
	expiration_date  date NOT NULL,
	notes            text NOT NULL DEFAULT '',
	created_at       timestamptz NOT NULL,
	updated_at       timestamptz NOT NULL
);
CREATE INDEX leftovers_user_idx ON leftovers (user_id);

CREATE TABLE recipes (
	id                 uuid PRIMARY KEY,
	user_id            uuid NOT NULL,
	title              text NOT NULL,
	description        text NOT NULL DEFAULT '',
	difficulty         text NOT NULL,
	prep_time_minutes  integer NOT NULL,
	cook_time_minutes  integer NOT NULL,
	servings           integer NOT NULL,
	image_url          text NOT NULL DEFAULT '',
	source_url         text NOT NULL DEFAULT '',
	created_at         timestamptz NOT NULL,
	updated_at         timestamptz NOT NULL
);
CREATE INDEX recipes_user_idx ON recipes (user_id);

CREATE TABLE recipe_ingredients (
	recipe_id  uuid NOT NULL REFERENCES recipes (id) ON DELETE CASCADE,
	position   integer NOT NULL,
	name       text NOT NULL,
	quantity   double precision NOT NULL,
	unit       text NOT NULL,
	optional   boolean NOT NULL DEFAULT false
);
CREATE INDEX recipe_ingredients_recipe_idx ON recipe_ingredients (recipe_id);

CREATE TABLE recipe_instructions (
	recipe_id    uuid NOT NULL REFERENCES recipes (id) ON DELETE CASCADE,
	step_number  integer NOT NULL,
	text         text NOT NULL
);
CREATE INDEX recipe_instructions_recipe_idx ON recipe_instructions (recipe_id);

CREATE TABLE shopping_lists (
	id          uuid PRIMARY KEY,
	user_id     uuid NOT NULL,
	name        text NOT NULL,
	created_at  timestamptz NOT NULL,
	updated_at  timestamptz NOT NULL
);
CREATE INDEX shopping_lists_user_idx ON shopping_lists (user_id);

CREATE TABLE shopping_list_items (
	id          uuid PRIMARY KEY,
	list_id     uuid NOT NULL REFERENCES shopping_lists (id) ON DELETE CASCADE,
	name        text NOT NULL,
	quantity    double precision NOT NULL,
	unit        text NOT NULL,
	category    text NOT NULL DEFAULT '',
	purchased   boolean NOT NULL DEFAULT false,
	notes       text NOT NULL DEFAULT '',
	created_at  timestamptz NOT NULL,
	updated_at  timestamptz NOT NULL
);
CREATE INDEX shopping_list_items_list_idx ON shopping_list_items (list_id);

CREATE TABLE profiles (
	user_id               uuid PRIMARY KEY,
	display_name          text NOT NULL DEFAULT '',
	family_size           integer NOT NULL,
	measurement_system    text NOT NULL,
	dietary_restrictions  text[] NOT NULL DEFAULT '{}',
	allergies             text[] NOT NULL DEFAULT '{}',
	kitchen_equipment     text[] NOT NULL DEFAULT '{}',
	created_at            timestamptz NOT NULL,
	updated_at            timestamptz NOT NULL
);

CREATE TABLE conversations (
	id          uuid PRIMARY KEY,
	user_id     uuid NOT NULL,
	title       text NOT NULL,
	device      text NOT NULL DEFAULT '',
	created_at  timestamptz NOT NULL,
	updated_at  timestamptz NOT NULL
);
CREATE INDEX conversations_user_idx ON conversations (user_id);

CREATE TABLE chat_messages (
	id               uuid PRIMARY KEY,
	seq              bigserial,
	conversation_id  uuid NOT NULL REFERENCES conversations (id) ON DELETE CASCADE,
	sender           text NOT NULL,
	content          text NOT NULL,
	recipes          jsonb,
	created_at       timestamptz NOT NULL,
	updated_at       timestamptz NOT NULL
);
CREATE INDEX chat_messages_conversation_idx ON chat_messages (conversation_id);
`
