// Package cache defines the explicit read-memoization abstraction used by
// services: Get/Set/Invalidate over opaque byte values with per-entry TTLs.
// Keys are derived from query parameters by the caller; staleness and
// invalidation are testable here in isolation instead of being scattered
// across call sites.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-value cache with per-entry TTL.
type Cache interface {
	// Get returns the cached value and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for at most ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate removes key. Removing an absent key is not an error.
	Invalidate(ctx context.Context, key string) error
}
