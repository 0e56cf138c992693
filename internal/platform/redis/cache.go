// Package redis provides the Redis-backed implementation of the cache
// interface defined in the internal/cache package. Entries are stored as
// JSON under a shared key prefix so unrelated applications can share the
// same Redis instance.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/task-api/internal/cache"
)

// KeyPrefix namespaces every cache entry written by this application.
const KeyPrefix = "tasks:"

// scanBatchSize bounds how many keys a single SCAN iteration may return.
const scanBatchSize = 100

// Cache implements the cache.Cache interface using Redis.
type Cache struct {
	client *goredis.Client
	prefix string
	logger *slog.Logger
}

// Ensure Cache implements cache.Cache interface
var _ cache.Cache = (*Cache)(nil)

// New creates a Redis-backed cache from a connection URL
// (e.g. "redis://localhost:6379"). The connection is established lazily;
// call Ping to verify the server is reachable.
// If logger is nil, a default logger will be used.
func New(url string, logger *slog.Logger) (*Cache, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return NewWithClient(goredis.NewClient(opts), KeyPrefix, logger), nil
}

// NewWithClient creates a cache on top of an existing Redis client with the
// given key prefix. Used directly by tests that need isolated prefixes.
// If logger is nil, a default logger will be used.
func NewWithClient(client *goredis.Client, prefix string, logger *slog.Logger) *Cache {
	if client == nil {
		panic("client cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{
		client: client,
		prefix: prefix,
		logger: logger.With(slog.String("component", "cache")),
	}
}

// Get implements cache.Cache.Get
// It retrieves the value stored under key and unmarshals it into dest.
// The boolean reports whether the key was present.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	fullKey := c.prefix + key

	data, err := c.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil // Cache miss
		}
		return false, fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	return true, nil
}

// Set implements cache.Cache.Set
// It stores the value as JSON under key with the given time-to-live.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	fullKey := c.prefix + key

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, fullKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}

	return nil
}

// Delete implements cache.Cache.Delete
// It removes the value stored under key. Deleting an absent key is a no-op.
func (c *Cache) Delete(ctx context.Context, key string) error {
	fullKey := c.prefix + key

	if err := c.client.Del(ctx, fullKey).Err(); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}

	return nil
}

// DeletePattern implements cache.Cache.DeletePattern
// It removes all keys matching the glob-style pattern using an incremental
// SCAN so large keyspaces are never blocked by a single KEYS command.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	fullPattern := c.prefix + pattern

	var cursor uint64
	var deletedCount int

	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, fullPattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("cache scan error: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache delete error: %w", err)
			}
			deletedCount += len(keys)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("cache pattern delete",
		slog.String("pattern", pattern),
		slog.Int("deleted", deletedCount))
	return nil
}

// Ping implements cache.Cache.Ping
// It checks if the Redis connection is healthy.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close implements cache.Cache.Close
// It closes the underlying Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
