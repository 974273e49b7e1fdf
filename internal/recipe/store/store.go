// Package store persists recipes together with their ingredient and
// instruction lines.
package store

import (
	"context"

	"larder/internal/recipe/models"
	id "larder/pkg/domain"
)

// MatchParams narrows and pages a pantry-match query. Pantry holds the
// caller's ingredient names, already lowercased and trimmed.
type MatchParams struct {
	Pantry     []string
	MinPercent float64
	Limit      int
	Offset     int
}

// RecipeStore is the persistence contract for recipes.
type RecipeStore interface {
	Create(ctx context.Context, r *models.Recipe) error
	FindByID(ctx context.Context, recipeID id.RecipeID) (*models.Recipe, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]models.Recipe, error)
	Update(ctx context.Context, r *models.Recipe) error
	Delete(ctx context.Context, recipeID id.RecipeID) error
	// Match scores the user's recipes against the pantry: the percentage of
	// each recipe's required ingredients the pantry covers. Results at or
	// above MinPercent come back ordered by score descending, then title,
	// paged by Limit/Offset.
	Match(ctx context.Context, userID id.UserID, params MatchParams) ([]models.Match, error)
}
