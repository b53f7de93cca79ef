// Package cache provides byte-level caches for HTTP responses from
// repository hosts and package registries, plus the shared retry policy
// used when those responses are fetched.
//
// Backends:
//   - [FileCache]: hashed JSON files on disk, the CLI default
//   - [MemoryCache]: bounded in-process LRU, used by the HTTP server
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: disables caching
//
// All backends are safe for concurrent use, which bulk runs rely on.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with an optional time-to-live.
type Cache interface {
	// Get returns the payload for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
