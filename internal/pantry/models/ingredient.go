// Package models defines the pantry entity shapes and their validation
// contracts. Every entity carries the three-shape chain the data-access
// layer is built around:
//
//   - the read shape (Ingredient, Leftover) includes the server-generated
//     fields (id, created_at, updated_at) and validates rows coming out of
//     the store;
//   - the insert shape omits server-generated fields but keeps caller-owned
//     ones (user_id) required;
//   - the update shape makes every insert field optional and drops user_id,
//     so a partial update can never reassign a row to another user.
//
// Shapes are plain structs with validator tags; construction cannot fail at
// runtime and shared instances are immutable, so they are safe to validate
// against concurrently.
package models

import (
	"time"

	id "larder/pkg/domain"
)

// Ingredient is a pantry holding as read back from the store.
type Ingredient struct {
	ID             id.IngredientID `json:"id" validate:"required"`
	UserID         id.UserID       `json:"user_id" validate:"required"`
	Name           string          `json:"name" validate:"required,min=1,max=255"`
	Quantity       float64         `json:"quantity" validate:"required,gt=0"`
	Unit           string          `json:"unit" validate:"required,max=50"`
	Category       string          `json:"category" validate:"required,max=100"`
	ExpirationDate string          `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
	Notes          string          `json:"notes" validate:"max=1000"`
	CreatedAt      time.Time       `json:"created_at" validate:"required"`
	UpdatedAt      time.Time       `json:"updated_at" validate:"required"`
}

// IngredientInsert is the caller-supplied shape for creating an ingredient.
type IngredientInsert struct {
	UserID         id.UserID `json:"user_id" validate:"required"`
	Name           string    `json:"name" validate:"required,min=1,max=255"`
	Quantity       float64   `json:"quantity" validate:"required,gt=0"`
	Unit           string    `json:"unit" validate:"required,max=50"`
	Category       string    `json:"category" validate:"required,max=100"`
	ExpirationDate string    `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
	Notes          string    `json:"notes" validate:"max=1000"`
}

// IngredientUpdate is the partial-modification shape. All fields are
// optional; user_id is absent so ownership is immutable.
type IngredientUpdate struct {
	Name           *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Quantity       *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit           *string  `json:"unit,omitempty" validate:"omitempty,max=50"`
	Category       *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	ExpirationDate *string  `json:"expiration_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes          *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// NewIngredient assembles the stored entity from a validated insert plus
// server-generated fields.
func NewIngredient(ingredientID id.IngredientID, ins IngredientInsert, now time.Time) *Ingredient {
	return &Ingredient{
		ID:             ingredientID,
		UserID:         ins.UserID,
		Name:           ins.Name,
		Quantity:       ins.Quantity,
		Unit:           ins.Unit,
		Category:       ins.Category,
		ExpirationDate: ins.ExpirationDate,
		Notes:          ins.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Apply copies the update's present fields onto the ingredient and bumps
// the update timestamp.
func (i *Ingredient) Apply(upd IngredientUpdate, now time.Time) {
	if upd.Name != nil {
		i.Name = *upd.Name
	}
	if upd.Quantity != nil {
		i.Quantity = *upd.Quantity
	}
	if upd.Unit != nil {
		i.Unit = *upd.Unit
	}
	if upd.Category != nil {
		i.Category = *upd.Category
	}
	if upd.ExpirationDate != nil {
		i.ExpirationDate = *upd.ExpirationDate
	}
	if upd.Notes != nil {
		i.Notes = *upd.Notes
	}
	i.UpdatedAt = now
}

// ExpiresBefore reports whether the ingredient has an expiration date on or
// before the cutoff calendar date.
func (i *Ingredient) ExpiresBefore(cutoff time.Time) bool {
	if i.ExpirationDate == "" {
		return false
	}
	d, err := time.Parse("2006-01-02", i.ExpirationDate)
	if err != nil {
		return false
	}
	return !d.After(cutoff)
}
