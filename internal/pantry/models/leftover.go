package models

import (
	"time"

	id "larder/pkg/domain"
)

// Leftover is a prepared dish being tracked until it expires. Unlike
// ingredients, the expiration date is required: a leftover without one
// cannot be surfaced in the expiring-soon view, which is its whole point.
type Leftover struct {
	ID             id.LeftoverID `json:"id" validate:"required"`
	UserID         id.UserID     `json:"user_id" validate:"required"`
	Name           string        `json:"name" validate:"required,min=1,max=255"`
	Quantity       float64       `json:"quantity" validate:"required,gt=0"`
	Unit           string        `json:"unit" validate:"required,max=50"`
	ExpirationDate string        `json:"expiration_date" validate:"required,datetime=2006-01-02"`
	Notes          string        `json:"notes" validate:"max=1000"`
	CreatedAt      time.Time     `json:"created_at" validate:"required"`
	UpdatedAt      time.Time     `json:"updated_at" validate:"required"`
}

type LeftoverInsert struct {
	UserID         id.UserID `json:"user_id" validate:"required"`
	Name           string    `json:"name" validate:"required,min=1,max=255"`
	Quantity       float64   `json:"quantity" validate:"required,gt=0"`
	Unit           string    `json:"unit" validate:"required,max=50"`
	ExpirationDate string    `json:"expiration_date" validate:"required,datetime=2006-01-02"`
	Notes          string    `json:"notes" validate:"max=1000"`
}

type LeftoverUpdate struct {
	Name           *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Quantity       *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit           *string  `json:"unit,omitempty" validate:"omitempty,max=50"`
	ExpirationDate *string  `json:"expiration_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes          *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func NewLeftover(leftoverID id.LeftoverID, ins LeftoverInsert, now time.Time) *Leftover {
	return &Leftover{
		ID:             leftoverID,
		UserID:         ins.UserID,
		Name:           ins.Name,
		Quantity:       ins.Quantity,
		Unit:           ins.Unit,
		ExpirationDate: ins.ExpirationDate,
		Notes:          ins.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (l *Leftover) Apply(upd LeftoverUpdate, now time.Time) {
	if upd.Name != nil {
		l.Name = *upd.Name
	}
	if upd.Quantity != nil {
		l.Quantity = *upd.Quantity
	}
	if upd.Unit != nil {
		l.Unit = *upd.Unit
	}
	if upd.ExpirationDate != nil {
		l.ExpirationDate = *upd.ExpirationDate
	}
	if upd.Notes != nil {
		l.Notes = *upd.Notes
	}
	l.UpdatedAt = now
}

func (l *Leftover) ExpiresBefore(cutoff time.Time) bool {
	d, err := time.Parse("2006-01-02", l.ExpirationDate)
	if err != nil {
		return false
	}
	return !d.After(cutoff)
}
