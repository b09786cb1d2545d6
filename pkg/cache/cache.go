// Package cache stores computed edit results and rendered artifacts.
//
// # Backends
//
//   - [FileCache] keeps entries as JSON files under a directory; the CLI uses it.
//   - [RedisCache] keeps entries in Redis; the HTTP server can share it
//     between instances.
//   - [NullCache] stores nothing and disables caching.
//
// # Keys
//
// A [Keyer] derives keys from the content hash of the input scene (see
// [Hash]) and the options of the computation, so two requests with the same
// scene and options share an entry. [ScopedKeyer] adds a prefix for
// isolating namespaces.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the entry for key. A miss returns ok=false and a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Entry lifetimes.
const (
	// TTLRelayout is how long cascade results are kept.
	TTLRelayout = 24 * time.Hour

	// TTLRender is how long rendered artifacts are kept.
	TTLRender = 7 * 24 * time.Hour
)
