package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"larder/internal/chat/models"
	"larder/internal/platform/db"
	recipemodels "larder/internal/recipe/models"
	id "larder/pkg/domain"
	"larder/pkg/platform/sentinel"
)

// PostgresConversations persists conversations in PostgreSQL. Message rows
// cascade on conversation deletion via the foreign key.
type PostgresConversations struct {
	pool *sql.DB
}

func NewPostgresConversations(pool *sql.DB) *PostgresConversations {
	return &PostgresConversations{pool: pool}
}

const conversationColumns = `id, user_id, title, device, created_at, updated_at`

func (s *PostgresConversations) Create(ctx context.Context, c *models.Conversation) error {
	_, err := s.pool.ExecContext(ctx, `
		INSERT INTO conversations (`+conversationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(c.ID), uuid.UUID(c.UserID), c.Title, c.Device, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

func (s *PostgresConversations) FindByID(ctx context.Context, conversationID id.ConversationID) (*models.Conversation, error) {
	row := s.pool.QueryRowContext(ctx, `
		SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, uuid.UUID(conversationID))
	c, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	return c, nil
}

func (s *PostgresConversations) ListByUser(ctx context.Context, userID id.UserID) ([]models.Conversation, error) {
	rows, err := s.pool.QueryContext(ctx, `
		SELECT `+conversationColumns+` FROM conversations
		WHERE user_id = $1 ORDER BY updated_at DESC`,
		uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, *c)
	}
	return conversations, rows.Err()
}

func (s *PostgresConversations) Update(ctx context.Context, c *models.Conversation) error {
	res, err := s.pool.ExecContext(ctx, `
		UPDATE conversations SET title = $2, updated_at = $3 WHERE id = $1`,
		uuid.UUID(c.ID), c.Title, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresConversations) Delete(ctx context.Context, conversationID id.ConversationID) error {
	res, err := s.pool.ExecContext(ctx, `DELETE FROM conversations WHERE id = $1`, uuid.UUID(conversationID))
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return requireRow(res)
}

// PostgresMessages persists chat messages in PostgreSQL. Embedded recipe
// suggestions are stored as a jsonb column; they are snapshots, not foreign
// keys into the recipes table.
type PostgresMessages struct {
	pool *sql.DB
}

func NewPostgresMessages(pool *sql.DB) *PostgresMessages {
	return &PostgresMessages{pool: pool}
}

func (s *PostgresMessages) Create(ctx context.Context, m *models.Message) error {
	recipes, err := encodeRecipes(m.Recipes)
	if err != nil {
		return err
	}
	_, err = s.pool.ExecContext(ctx, `
		INSERT INTO chat_messages (id, conversation_id, sender, content, recipes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(m.ID), uuid.UUID(m.ConversationID), m.Sender, m.Content, recipes,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create chat message: %w", err)
	}
	return nil
}

func (s *PostgresMessages) ListByConversation(ctx context.Context, conversationID id.ConversationID) ([]models.Message, error) {
	rows, err := s.pool.QueryContext(ctx, `
		SELECT id, conversation_id, sender, content, recipes, created_at, updated_at
		FROM chat_messages
		WHERE conversation_id = $1 ORDER BY created_at, seq`,
		uuid.UUID(conversationID))
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var (
			m        models.Message
			mID, cID uuid.UUID
			recipes  []byte
		)
		err := rows.Scan(&mID, &cID, &m.Sender, &m.Content, &recipes, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		m.ID = id.MessageID(mID)
		m.ConversationID = id.ConversationID(cID)
		if m.Recipes, err = decodeRecipes(recipes); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func encodeRecipes(recipes []recipemodels.Recipe) ([]byte, error) {
	if len(recipes) == 0 {
		return nil, nil
	}
	out, err := json.Marshal(recipes)
	if err != nil {
		return nil, fmt.Errorf("encode message recipes: %w", err)
	}
	return out, nil
}

func decodeRecipes(raw []byte) ([]recipemodels.Recipe, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var recipes []recipemodels.Recipe
	if err := json.Unmarshal(raw, &recipes); err != nil {
		return nil, fmt.Errorf("decode message recipes: %w", err)
	}
	return recipes, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanConversation(row interface{ Scan(dest ...any) error }) (*models.Conversation, error) {
	var (
		c        models.Conversation
		cID, uID uuid.UUID
	)
	err := row.Scan(&cID, &uID, &c.Title, &c.Device, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ID = id.ConversationID(cID)
	c.UserID = id.UserID(uID)
	return &c, nil
}
