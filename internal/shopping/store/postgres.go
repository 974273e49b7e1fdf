package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"larder/internal/platform/db"
	"larder/internal/shopping/models"
	id "larder/pkg/domain"
	"larder/pkg/platform/sentinel"
)

// PostgresLists persists shopping lists in PostgreSQL. Item rows cascade on
// list deletion via the foreign key.
type PostgresLists struct {
	pool *sql.DB
}

func NewPostgresLists(pool *sql.DB) *PostgresLists {
	return &PostgresLists{pool: pool}
}

const listColumns = `id, user_id, name, created_at, updated_at`

func (s *PostgresLists) Create(ctx context.Context, l *models.List) error {
	_, err := s.pool.ExecContext(ctx, `
		INSERT INTO shopping_lists (`+listColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(l.ID), uuid.UUID(l.UserID), l.Name, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create shopping list: %w", err)
	}
	return nil
}

func (s *PostgresLists) FindByID(ctx context.Context, listID id.ListID) (*models.List, error) {
	row := s.pool.QueryRowContext(ctx, `
		SELECT `+listColumns+` FROM shopping_lists WHERE id = $1`, uuid.UUID(listID))
	l, err := scanList(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find shopping list: %w", err)
	}
	return l, nil
}

func (s *PostgresLists) ListByUser(ctx context.Context, userID id.UserID) ([]models.List, error) {
	rows, err := s.pool.QueryContext(ctx, `
		SELECT `+listColumns+` FROM shopping_lists WHERE user_id = $1 ORDER BY name`,
		uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list shopping lists: %w", err)
	}
	defer rows.Close()

	lists := make([]models.List, 0)
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

func (s *PostgresLists) Update(ctx context.Context, l *models.List) error {
	res, err := s.pool.ExecContext(ctx, `
		UPDATE shopping_lists SET name = $2, updated_at = $3 WHERE id = $1`,
		uuid.UUID(l.ID), l.Name, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shopping list: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresLists) Delete(ctx context.Context, listID id.ListID) error {
	res, err := s.pool.ExecContext(ctx, `DELETE FROM shopping_lists WHERE id = $1`, uuid.UUID(listID))
	if err != nil {
		return fmt.Errorf("delete shopping list: %w", err)
	}
	return requireRow(res)
}

// PostgresItems persists shopping list items in PostgreSQL.
type PostgresItems struct {
	pool *sql.DB
}

func NewPostgresItems(pool *sql.DB) *PostgresItems {
	return &PostgresItems{pool: pool}
}

const itemColumns = `id, list_id, name, quantity, unit, category, purchased, notes,
	created_at, updated_at`

func (s *PostgresItems) Create(ctx context.Context, item *models.Item) error {
	_, err := s.pool.ExecContext(ctx, `
		INSERT INTO shopping_list_items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(item.ID), uuid.UUID(item.ListID), item.Name, item.Quantity,
		item.Unit, item.Category, item.Purchased, item.Notes,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create shopping item: %w", err)
	}
	return nil
}

func (s *PostgresItems) FindByID(ctx context.Context, itemID id.ListItemID) (*models.Item, error) {
	row := s.pool.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM shopping_list_items WHERE id = $1`, uuid.UUID(itemID))
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find shopping item: %w", err)
	}
	return item, nil
}

func (s *PostgresItems) ListByList(ctx context.Context, listID id.ListID) ([]models.Item, error) {
	rows, err := s.pool.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM shopping_list_items WHERE list_id = $1 ORDER BY name`,
		uuid.UUID(listID))
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	defer rows.Close()

	items := make([]models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *PostgresItems) Update(ctx context.Context, item *models.Item) error {
	res, err := s.pool.ExecContext(ctx, `
		UPDATE shopping_list_items
		SET name = $2, quantity = $3, unit = $4, category = $5, purchased = $6,
		    notes = $7, updated_at = $8
		WHERE id = $1`,
		uuid.UUID(item.ID), item.Name, item.Quantity, item.Unit, item.Category,
		item.Purchased, item.Notes, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shopping item: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresItems) Delete(ctx context.Context, itemID id.ListItemID) error {
	res, err := s.pool.ExecContext(ctx, `DELETE FROM shopping_list_items WHERE id = $1`, uuid.UUID(itemID))
	if err != nil {
		return fmt.Errorf("delete shopping item: %w", err)
	}
	return requireRow(res)
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

func scanList(row interface{ Scan(dest ...any) error }) (*models.List, error) {
	var (
		l        models.List
		lID, uID uuid.UUID
	)
	if err := row.Scan(&lID, &uID, &l.Name, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.ID = id.ListID(lID)
	l.UserID = id.UserID(uID)
	return &l, nil
}

func scanItem(row interface{ Scan(dest ...any) error }) (*models.Item, error) {
	var (
		item     models.Item
		iID, lID uuid.UUID
	)
	err := row.Scan(&iID, &lID, &item.Name, &item.Quantity, &item.Unit,
		&item.Category, &item.Purchased, &item.Notes, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.ID = id.ListItemID(iID)
	item.ListID = id.ListID(lID)
	return &item, nil
}
