// Package store persists user profiles.
package store

import (
	"context"

	"larder/internal/profile/models"
	id "larder/pkg/domain"
)

// ProfileStore is the persistence contract for profiles. Profiles are keyed
// by user, one per user.
type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	FindByUser(ctx context.Context, userID id.UserID) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	Delete(ctx context.Context, userID id.UserID) error
}
