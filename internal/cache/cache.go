// Package cache defines the caching capability consumed by the service
// layer. It abstracts the backing key/value store so business logic never
// depends on a concrete cache technology, and so the application can run
// with no cache at all.
package cache

import (
	"context"
	"time"
)

// Cache is the set of operations the service layer needs from a cache.
// Implementations must be safe for concurrent use.
//
// A Cache is an optimization, never a source of truth: callers are expected
// to treat every error as a miss and fall through to the persistent store.
type Cache interface {
	// Get retrieves the value stored under key and unmarshals it into dest.
	// The boolean reports whether the key was present.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores a value under key with the given time-to-live.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes the value stored under key, if any.
	// Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePattern removes every key matching the glob-style pattern,
	// e.g. "all:*".
	DeletePattern(ctx context.Context, pattern string) error

	// Ping reports whether the backing cache is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}
