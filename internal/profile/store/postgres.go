package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"larder/internal/platform/db"
	"larder/internal/profile/models"
	id "larder/pkg/domain"
	"larder/pkg/platform/sentinel"
)

// Postgres persists profiles in PostgreSQL. Preference arrays are stored as
// text[] columns.
type Postgres struct {
	pool *sql.DB
}

func NewPostgres(pool *sql.DB) *Postgres {
	return &Postgres{pool: pool}
}

const profileColumns = `user_id, display_name, family_size, measurement_system,
	dietary_restrictions, allergies, kitchen_equipment, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, p *models.Profile) error {
	_, err := s.pool.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(p.UserID), p.DisplayName, p.FamilySize, p.MeasurementSystem,
		pq.Array(p.DietaryRestrictions), pq.Array(p.Allergies), pq.Array(p.KitchenEquipment),
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *Postgres) FindByUser(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	row := s.pool.QueryRowContext(ctx, `
		SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, uuid.UUID(userID))

	var (
		p   models.Profile
		uID uuid.UUID
	)
	err := row.Scan(&uID, &p.DisplayName, &p.FamilySize, &p.MeasurementSystem,
		pq.Array(&p.DietaryRestrictions), pq.Array(&p.Allergies), pq.Array(&p.KitchenEquipment),
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	p.ID = id.UserID(uID)
	p.UserID = id.UserID(uID)
	return &p, nil
}

func (s *Postgres) Update(ctx context.Context, p *models.Profile) error {
	res, err := s.pool.ExecContext(ctx, `
		UPDATE profiles
		SET display_name = $2, family_size = $3, measurement_system = $4,
		    dietary_restrictions = $5, allergies = $6, kitchen_equipment = $7,
		    updated_at = $8
		WHERE user_id = $1`,
		uuid.UUID(p.UserID), p.DisplayName, p.FamilySize, p.MeasurementSystem,
		pq.Array(p.DietaryRestrictions), pq.Array(p.Allergies), pq.Array(p.KitchenEquipment),
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) Delete(ctx context.Context, userID id.UserID) error {
	res, err := s.pool.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
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
