// Package cache stores raw registry responses between runs.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: sharded JSON entries under the user cache directory (default)
//   - [RedisCache]: a shared Redis instance, selected with BESTOF_REDIS_URL
//   - [NullCache]: disables caching (--no-cache)
//
// Keys are namespaced per registry with [Key], e.g. Key("pypi", "flask").
// A miss is reported as (nil, false, nil); errors are reserved for backend
// failures, which callers treat as a miss.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data; a ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// DefaultTTL is how long registry responses stay valid.
const DefaultTTL = 24 * time.Hour
