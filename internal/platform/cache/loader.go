package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader memoizes an expensive load through a Cache, collapsing concurrent
// misses for the same key into a single underlying call.
type Loader struct {
	cache Cache
	group singleflight.Group
}

// NewLoader builds a loader over the given cache.
func NewLoader(c Cache) *Loader {
	return &Loader{cache: c}
}

// GetOrLoad returns the cached value for key, or runs load once (across all
// concurrent callers of the same key), stores its result for ttl, and
// returns it. The boolean reports whether the value came from cache.
func (l *Loader) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(ctx context.Context) ([]byte, error)) ([]byte, bool, error) {
	if val, ok, err := l.cache.Get(ctx, key); err == nil && ok {
		return val, true, nil
	}
	val, err, _ := l.group.Do(key, func() (any, error) {
		// Re-check: another flight may have populated the key while this
		// caller was queued.
		if cached, ok, err := l.cache.Get(ctx, key); err == nil && ok {
			return cached, nil
		}
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := l.cache.Set(ctx, key, loaded, ttl); err != nil {
			return nil, err
		}
		return loaded, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]byte), false, nil
}
