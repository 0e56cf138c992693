// Package main implements the entry point for the task API server, a CRUD
// task manager backed by PostgreSQL with a Redis read-through cache.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/postgres"
)

// main wires configuration, logging, the database, the cache and the HTTP
// server together, then blocks until shutdown.
func main() {
	if err := run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

// run performs the startup sequence. The database is the source of truth, so
// any failure reaching it is fatal; the cache is an optimization, so failures
// there only disable caching.
func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set up structured logging using the configured log level
	logger, err := setupAppLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	logger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"cache_enabled", cfg.Cache.Enabled)

	// Establish the database connection
	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	// Bootstrap the schema (create-if-absent, no migration framework)
	if err := postgres.EnsureSchema(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to ensure database schema: %w", err)
	}

	// Connect the cache; a failure here downgrades to cacheless serving
	taskCache := setupAppCache(ctx, cfg, logger)

	// Build the application with all dependencies initialized
	app, err := newApplication(cfg, logger, db, taskCache)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	// Serve until a shutdown signal arrives
	return app.Run(ctx)
}
