// Package testutil provides shared helpers for tests: request-scoped context
// builders and container-backed dependencies for integration suites.
package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "larder/pkg/domain"
	"larder/pkg/requestcontext"
)

// FixedTime is the pinned clock used across tests so timestamp assertions
// stay deterministic.
var FixedTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// Context returns a context carrying a pinned clock.
func Context() context.Context {
	return requestcontext.WithTime(context.Background(), FixedTime)
}

// UserContext returns a context carrying a pinned clock and the given user.
func UserContext(userID id.UserID) context.Context {
	return requestcontext.WithUserID(Context(), userID)
}

// NewUserID mints a random user ID.
func NewUserID() id.UserID {
	return id.UserID(uuid.New())
}
