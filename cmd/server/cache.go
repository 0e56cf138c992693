package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/cache"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/redis"
	"github.com/phrazzld/task-api/internal/redact"
)

// setupAppCache connects to Redis when caching is enabled. A missing or
// unreachable Redis is never fatal: the API serves directly from the
// database, so this logs a warning and returns nil instead of failing
// startup.
func setupAppCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) cache.Cache {
	if !cfg.Cache.Enabled {
		logger.Info("cache disabled by configuration")
		return nil
	}

	redisCache, err := redis.New(cfg.Cache.URL, logger)
	if err != nil {
		logger.Warn("invalid cache configuration, continuing without cache",
			"error", redact.Error(err))
		return nil
	}

	// Verify the server is actually reachable before handing the cache out
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := redisCache.Ping(pingCtx); err != nil {
		logger.Warn("cache unreachable, continuing without cache",
			"error", redact.Error(err))
		if closeErr := redisCache.Close(); closeErr != nil {
			logger.Warn("failed to close cache client", "error", closeErr)
		}
		return nil
	}

	logger.Info("cache connection established")
	return redisCache
}
