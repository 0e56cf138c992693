package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-api/internal/store"
)

// schemaStatements creates the tasks table and its supporting index when they
// do not exist yet. Statements must stay idempotent so startup can run them
// unconditionally.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id          BIGSERIAL PRIMARY KEY,
		title       VARCHAR(200) NOT NULL,
		description TEXT,
		completed   BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks (completed)`,
}

// EnsureSchema creates the tasks table if it doesn't exist.
// It is called once at startup before the server begins accepting requests.
// The statements run in a single transaction so a failed bootstrap never
// leaves a partially created schema behind.
func EnsureSchema(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if db == nil {
		return fmt.Errorf("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "schema"))

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("ensure task schema: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to ensure task schema", slog.String("error", err.Error()))
		return err
	}

	log.Debug("task schema ensured")
	return nil
}
