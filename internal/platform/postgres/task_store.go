package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
// It returns a new store instance bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// It saves a new task to the database and assigns the generated ID,
// handling domain validation.
// Returns store.ErrInvalidEntity if the row violates a column constraint.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Validate task data
	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("title", task.Title))
		return err
	}

	query := `
		INSERT INTO tasks (title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)

	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("title", task.Title))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.Bool("completed", task.Completed))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task by its unique ID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving task by ID", slog.Int64("task_id", id))

	query := `
		SELECT id, title, description, completed, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, err
	}

	log.Debug("task retrieved successfully",
		slog.Int64("task_id", id),
		slog.Bool("completed", task.Completed))
	return &task, nil
}

// List implements store.TaskStore.List
// It retrieves tasks in insertion order with offset/limit pagination.
// Returns an empty slice if no tasks fall inside the window.
func (s *PostgresTaskStore) List(ctx context.Context, skip, limit int) ([]*domain.Task, error) {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Validate limit and offset
	if limit <= 0 {
		limit = 100 // Default limit
	}
	if skip < 0 {
		skip = 0
	}

	log.Debug("listing tasks",
		slog.Int("skip", skip),
		slog.Int("limit", limit))

	query := `
		SELECT id, title, description, completed, created_at, updated_at
		FROM tasks
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()),
			slog.Int("skip", skip),
			slog.Int("limit", limit))
		return nil, err
	}
	defer func() {
		err := rows.Close()
		if err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task

		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Completed,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()))
			return nil, err
		}

		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no tasks found
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	log.Debug("listed tasks",
		slog.Int("skip", skip),
		slog.Int("limit", limit),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// Update implements store.TaskStore.Update
// It applies the non-nil fields of params to an existing task and refreshes
// its updated_at timestamp in a single statement.
// Returns store.ErrTaskNotFound if the task does not exist.
// Returns validation errors if the new field values are invalid.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id int64,
	params store.UpdateTaskParams,
) (*domain.Task, error) {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("updating task", slog.Int64("task_id", id))

	// Validate the incoming field values before touching the database
	if params.Title != nil {
		probe := domain.Task{
			Title:     *params.Title,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		if err := probe.Validate(); err != nil {
			log.Warn("task validation failed during update",
				slog.String("error", err.Error()),
				slog.Int64("task_id", id))
			return nil, err
		}
	}

	updatedAt := time.Now().UTC()

	// COALESCE keeps the stored value for any field passed as NULL, so one
	// statement covers every combination of provided fields.
	query := `
		UPDATE tasks
		SET title = COALESCE($1, title),
			description = COALESCE($2, description),
			completed = COALESCE($3, completed),
			updated_at = $4
		WHERE id = $5
		RETURNING id, title, description, completed, created_at, updated_at
	`

	var task domain.Task

	err := s.db.QueryRowContext(
		ctx,
		query,
		params.Title,
		params.Description,
		params.Completed,
		updatedAt,
		id,
	).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", id),
		slog.Bool("completed", task.Completed))
	return &task, nil
}

// Delete implements store.TaskStore.Delete
// It removes a task from the database.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("deleting task", slog.Int64("task_id", id))

	query := `
		DELETE FROM tasks
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return err
	}

	// Check if a row was actually deleted
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return err
	}

	// If no rows were affected, the task didn't exist
	if rowsAffected == 0 {
		log.Debug("task not found for delete", slog.Int64("task_id", id))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}

// Count implements store.TaskStore.Count
// It returns the total number of tasks.
func (s *PostgresTaskStore) Count(ctx context.Context) (int64, error) {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM tasks
	`

	var count int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return 0, err
	}

	return count, nil
}

// CountCompleted implements store.TaskStore.CountCompleted
// It returns the number of tasks marked completed.
func (s *PostgresTaskStore) CountCompleted(ctx context.Context) (int64, error) {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM tasks
		WHERE completed = TRUE
	`

	var count int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		log.Error("failed to count completed tasks", slog.String("error", err.Error()))
		return 0, err
	}

	return count, nil
}
