package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/task-api/internal/domain"
)

// UpdateTaskParams carries the mutable fields for a partial task update.
// A nil field leaves the stored value unchanged. Setting Description to a
// pointer to the empty string clears it; there is no way to null it out
// through an update, matching the API contract.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskStore defines the interface for task data persistence.
// Version: 1.0
type TaskStore interface {
	// Create saves a new task to the store and assigns its ID.
	// It handles domain validation internally.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List retrieves tasks in insertion order, skipping the first skip rows
	// and returning at most limit rows.
	// Returns an empty slice if no tasks match the window.
	List(ctx context.Context, skip, limit int) ([]*domain.Task, error)

	// Update applies the non-nil fields of params to an existing task and
	// refreshes its updated_at timestamp. Returns the task as stored.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns validation errors if the resulting task data is invalid.
	Update(ctx context.Context, id int64, params UpdateTaskParams) (*domain.Task, error)

	// Delete removes a task from the store.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// Count returns the total number of tasks in the store.
	Count(ctx context.Context) (int64, error)

	// CountCompleted returns the number of tasks marked completed.
	CountCompleted(ctx context.Context) (int64, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
