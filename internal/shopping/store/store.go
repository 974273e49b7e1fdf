// Package store persists shopping lists and their items.
package store

import (
	"context"

	"larder/internal/shopping/models"
	id "larder/pkg/domain"
)

// ListStore is the persistence contract for shopping lists.
type ListStore interface {
	Create(ctx context.Context, l *models.List) error
	FindByID(ctx context.Context, listID id.ListID) (*models.List, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]models.List, error)
	Update(ctx context.Context, l *models.List) error
	// Delete removes the list and all of its items.
	Delete(ctx context.Context, listID id.ListID) error
}

// ItemStore is the persistence contract for shopping list items.
type ItemStore interface {
	Create(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, itemID id.ListItemID) (*models.Item, error)
	ListByList(ctx context.Context, listID id.ListID) ([]models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, itemID id.ListItemID) error
}
