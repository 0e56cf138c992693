package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-api/internal/cache"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Cache; nil when disabled or unreachable
	cache cache.Cache

	// Stores (using interfaces for proper abstraction)
	taskStore store.TaskStore

	// Service interfaces
	taskService service.TaskService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger,
// database connection and cache that must be established before application
// initialization. The cache may be nil; the service then serves every read
// from the store.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	taskCache cache.Cache,
) (*application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		cache:  taskCache,
	}

	// Initialize stores
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	// Initialize task service with cache-aside reads over the store
	var err error
	app.taskService, err = service.NewTaskService(app.taskStore, taskCache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// Set up router using the application dependencies
	router := app.setupRouter()

	// Start the HTTP server
	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Close cache connection
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("error closing cache connection", "error", err)
		}
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
