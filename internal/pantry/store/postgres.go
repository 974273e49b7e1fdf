package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"larder/internal/pantry/models"
	"larder/internal/platform/db"
	id "larder/pkg/domain"
	"larder/pkg/platform/sentinel"

	"github.com/google/uuid"
)

const dateOnly = "2006-01-02"

// PostgresIngredients persists ingredients in PostgreSQL.
type PostgresIngredients struct {
	pool *sql.DB
}

func NewPostgresIngredients(pool *sql.DB) *PostgresIngredients {
	return &PostgresIngredients{pool: pool}
}

const ingredientColumns = `id, user_id, name, quantity, unit, category, expiration_date, notes, created_at, updated_at`

func (s *PostgresIngredients) Create(ctx context.Context, ing *models.Ingredient) error {
	_, err := s.pool.ExecContext(ctx, `
		INSERT INTO ingredients (`+ingredientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(ing.ID), uuid.UUID(ing.UserID), ing.Name, ing.Quantity, ing.Unit,
		ing.Category, nullDate(ing.ExpirationDate), ing.Notes, ing.CreatedAt, ing.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create ingredient: %w", err)
	}
	return nil
}

func (s *PostgresIngredients) FindByID(ctx context.Context, ingredientID id.IngredientID) (*models.Ingredient, error) {
	row := s.pool.QueryRowContext(ctx, `
		SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1`,
		uuid.UUID(ingredientID),
	)
	ing, err := scanIngredient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find ingredient: %w", err)
	}
	return ing, nil
}

func (s *PostgresIngredients) ListByUser(ctx context.Context, userID id.UserID) ([]models.Ingredient, error) {
	rows, err := s.pool.QueryContext(ctx, `
		SELECT `+ingredientColumns+` FROM ingredients WHERE user_id = $1 ORDER BY name`,
		uuid.UUID(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()
	return collectIngredients(rows)
}

func (s *PostgresIngredients) Update(ctx context.Context, ing *models.Ingredient) error {
	res, err := s.pool.ExecContext(ctx, `
		UPDATE ingredients
		SET name = $2, quantity = $3, unit = $4, category = $5,
		    expiration_date = $6, notes = $7, updated_at = $8
		WHERE id = $1`,
		uuid.UUID(ing.ID), ing.Name, ing.Quantity, ing.Unit, ing.Category,
		nullDate(ing.ExpirationDate), ing.Notes, ing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update ingredient: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresIngredients) Delete(ctx context.Context, ingredientID id.IngredientID) error {
	res, err := s.pool.ExecContext(ctx, `DELETE FROM ingredients WHERE id = $1`, uuid.UUID(ingredientID))
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresIngredients) ListExpiring(ctx context.Context, userID id.UserID, cutoff time.Time) ([]models.Ingredient, error) {
	rows, err := s.pool.QueryContext(ctx, `
		SELECT `+ingredientColumns+` FROM ingredients
		WHERE user_id = $1 AND expiration_date IS NOT NULL AND expiration_date <= $2
		ORDER BY name`,
		uuid.UUID(userID), cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("list expiring ingredients: %w", err)
	}
	defer rows.Close()
	return collectIngredients(rows)
}

// PostgresLeftovers persists leftovers in PostgreSQL.
type PostgresLeftovers struct {
	pool *sql.DB
}

func NewPostgresLeftovers(pool *sql.DB) *PostgresLeftovers {
	return &PostgresLeftovers{pool: pool}
}

const leftoverColumns = `id, user_id, name, quantity, unit, expiration_date, notes, created_at, updated_at`

func (s *PostgresLeftovers) Create(ctx context.Context, l *models.Leftover) error {
	_, err := s.pool.ExecContext(ctx, `
		INSERT INTO leftovers (`+leftoverColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(l.ID), uuid.UUID(l.UserID), l.Name, l.Quantity, l.Unit,
		nullDate(l.ExpirationDate), l.Notes, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create leftover: %w", err)
	}
	return nil
}

func (s *PostgresLeftovers) FindByID(ctx context.Context, leftoverID id.LeftoverID) (*models.Leftover, error) {
	row := s.pool.QueryRowContext(ctx, `
		SELECT `+leftoverColumns+` FROM leftovers WHERE id = $1`,
		uuid.UUID(leftoverID),
	)
	l, err := scanLeftover(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find leftover: %w", err)
	}
	return l, nil
}

func (s *PostgresLeftovers) ListByUser(ctx context.Context, userID id.UserID) ([]models.Leftover, error) {
	rows, err := s.pool.QueryContext(ctx, `
		SELECT `+leftoverColumns+` FROM leftovers WHERE user_id = $1 ORDER BY name`,
		uuid.UUID(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("list leftovers: %w", err)
	}
	defer rows.Close()
	return collectLeftovers(rows)
}

func (s *PostgresLeftovers) Update(ctx context.Context, l *models.Leftover) error {
	res, err := s.pool.ExecContext(ctx, `
		UPDATE leftovers
		SET name = $2, quantity = $3, unit = $4, expiration_date = $5,
		    notes = $6, updated_at = $7
		WHERE id = $1`,
		uuid.UUID(l.ID), l.Name, l.Quantity, l.Unit, nullDate(l.ExpirationDate),
		l.Notes, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update leftover: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresLeftovers) Delete(ctx context.Context, leftoverID id.LeftoverID) error {
	res, err := s.pool.ExecContext(ctx, `DELETE FROM leftovers WHERE id = $1`, uuid.UUID(leftoverID))
	if err != nil {
		return fmt.Errorf("delete leftover: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresLeftovers) ListExpiring(ctx context.Context, userID id.UserID, cutoff time.Time) ([]models.Leftover, error) {
	rows, err := s.pool.QueryContext(ctx, `
		SELECT `+leftoverColumns+` FROM leftovers
		WHERE user_id = $1 AND expiration_date <= $2
		ORDER BY name`,
		uuid.UUID(userID), cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("list expiring leftovers: %w", err)
	}
	defer rows.Close()
	return collectLeftovers(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIngredient(row rowScanner) (*models.Ingredient, error) {
	var (
		ing        models.Ingredient
		ingID, uID uuid.UUID
		expiration sql.NullTime
	)
	err := row.Scan(&ingID, &uID, &ing.Name, &ing.Quantity, &ing.Unit, &ing.Category,
		&expiration, &ing.Notes, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ing.ID = id.IngredientID(ingID)
	ing.UserID = id.UserID(uID)
	if expiration.Valid {
		ing.ExpirationDate = expiration.Time.Format(dateOnly)
	}
	return &ing, nil
}

func scanLeftover(row rowScanner) (*models.Leftover, error) {
	var (
		l          models.Leftover
		lID, uID   uuid.UUID
		expiration sql.NullTime
	)
	err := row.Scan(&lID, &uID, &l.Name, &l.Quantity, &l.Unit,
		&expiration, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.ID = id.LeftoverID(lID)
	l.UserID = id.UserID(uID)
	if expiration.Valid {
		l.ExpirationDate = expiration.Time.Format(dateOnly)
	}
	return &l, nil
}

func collectIngredients(rows *sql.Rows) ([]models.Ingredient, error) {
	out := make([]models.Ingredient, 0)
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		out = append(out, *ing)
	}
	return out, rows.Err()
}

func collectLeftovers(rows *sql.Rows) ([]models.Leftover, error) {
	out := make([]models.Leftover, 0)
	for rows.Next() {
		l, err := scanLeftover(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leftover: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func nullDate(value string) sql.NullTime {
	if value == "" {
		return sql.NullTime{}
	}
	t, err := time.Parse(dateOnly, value)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
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
