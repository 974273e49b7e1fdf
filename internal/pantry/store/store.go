// Package store persists pantry entities. Implementations return sentinel
// errors (pkg/platform/sentinel) for infrastructure facts; services translate
// those into coded errors at the boundary.
package store

import (
	"context"
	"time"

	"larder/internal/pantry/models"
	id "larder/pkg/domain"
)

// IngredientStore is the persistence contract for pantry ingredients.
type IngredientStore interface {
	Create(ctx context.Context, ing *models.Ingredient) error
	FindByID(ctx context.Context, ingredientID id.IngredientID) (*models.Ingredient, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]models.Ingredient, error)
	Update(ctx context.Context, ing *models.Ingredient) error
	Delete(ctx context.Context, ingredientID id.IngredientID) error
	// ListExpiring returns the user's ingredients whose expiration date falls
	// on or before the cutoff calendar date. Undated ingredients never expire.
	ListExpiring(ctx context.Context, userID id.UserID, cutoff time.Time) ([]models.Ingredient, error)
}

// LeftoverStore is the persistence contract for leftovers.
type LeftoverStore interface {
	Create(ctx context.Context, l *models.Leftover) error
	FindByID(ctx context.Context, leftoverID id.LeftoverID) (*models.Leftover, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]models.Leftover, error)
	Update(ctx context.Context, l *models.Leftover) error
	Delete(ctx context.Context, leftoverID id.LeftoverID) error
	ListExpiring(ctx context.Context, userID id.UserID, cutoff time.Time) ([]models.Leftover, error)
}
