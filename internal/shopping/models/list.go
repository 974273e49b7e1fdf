// Package models defines shopping list shapes.
package models

import (
	"time"

	id "larder/pkg/domain"
)

// List is a shopping list as read back from the store.
type List struct {
	ID        id.ListID `json:"id" validate:"required"`
	UserID    id.UserID `json:"user_id" validate:"required"`
	Name      string    `json:"name" validate:"required,min=1,max=255"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
	UpdatedAt time.Time `json:"updated_at" validate:"required"`
}

type ListInsert struct {
	UserID id.UserID `json:"user_id" validate:"required"`
	Name   string    `json:"name" validate:"required,min=1,max=255"`
}

type ListUpdate struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
}

func NewList(listID id.ListID, ins ListInsert, now time.Time) *List {
	return &List{
		ID:        listID,
		UserID:    ins.UserID,
		Name:      ins.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (l *List) Apply(upd ListUpdate, now time.Time) {
	if upd.Name != nil {
		l.Name = *upd.Name
	}
	l.UpdatedAt = now
}

// Item is one entry on a shopping list.
type Item struct {
	ID        id.ListItemID `json:"id" validate:"required"`
	ListID    id.ListID     `json:"list_id" validate:"required"`
	Name      string        `json:"name" validate:"required,min=1,max=255"`
	Quantity  float64       `json:"quantity" validate:"required,gt=0"`
	Unit      string        `json:"unit" validate:"required,max=50"`
	Category  string        `json:"category" validate:"max=100"`
	Purchased bool          `json:"purchased"`
	Notes     string        `json:"notes" validate:"max=1000"`
	CreatedAt time.Time     `json:"created_at" validate:"required"`
	UpdatedAt time.Time     `json:"updated_at" validate:"required"`
}

type ItemInsert struct {
	ListID   id.ListID `json:"list_id" validate:"required"`
	Name     string    `json:"name" validate:"required,min=1,max=255"`
	Quantity float64   `json:"quantity" validate:"required,gt=0"`
	Unit     string    `json:"unit" validate:"required,max=50"`
	Category string    `json:"category" validate:"max=100"`
	Notes    string    `json:"notes" validate:"max=1000"`
}

// ItemUpdate omits list_id: items cannot be moved between lists through a
// partial update, mirroring the immutable-ownership rule on user_id.
type ItemUpdate struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Quantity  *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit      *string  `json:"unit,omitempty" validate:"omitempty,max=50"`
	Category  *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Purchased *bool    `json:"purchased,omitempty"`
	Notes     *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func NewItem(itemID id.ListItemID, ins ItemInsert, now time.Time) *Item {
	return &Item{
		ID:        itemID,
		ListID:    ins.ListID,
		Name:      ins.Name,
		Quantity:  ins.Quantity,
		Unit:      ins.Unit,
		Category:  ins.Category,
		Notes:     ins.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (i *Item) Apply(upd ItemUpdate, now time.Time) {
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
	if upd.Purchased != nil {
		i.Purchased = *upd.Purchased
	}
	if upd.Notes != nil {
		i.Notes = *upd.Notes
	}
	i.UpdatedAt = now
}
