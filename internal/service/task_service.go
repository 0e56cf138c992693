package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/cache"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// Cache expiries and key shapes. List and single-task reads share the same
// five-minute window; stats turn over faster because every write changes them
// and they are never invalidated explicitly.
const (
	taskCacheTTL  = 300 * time.Second
	statsCacheTTL = 60 * time.Second

	statsCacheKey  = "stats"
	listKeyPattern = "all:*"
)

// listCacheKey derives the cache key for one page of the task list. Every
// (skip, limit) pair caches independently; listKeyPattern clears them all.
func listCacheKey(skip, limit int) string {
	return fmt.Sprintf("all:%d:%d", skip, limit)
}

// taskCacheKey derives the cache key for a single task.
func taskCacheKey(id int64) string {
	return fmt.Sprintf("task:%d", id)
}

// TaskRepository defines the repository interface for the service layer.
// This is aligned with store.TaskStore to ensure proper separation of concerns.
type TaskRepository interface {
	// Create saves a new task to the store and assigns its ID
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List retrieves a window of tasks in insertion order
	List(ctx context.Context, skip, limit int) ([]*domain.Task, error)

	// Update applies a partial update to an existing task
	Update(ctx context.Context, id int64, params store.UpdateTaskParams) (*domain.Task, error)

	// Delete removes a task from the store
	Delete(ctx context.Context, id int64) error

	// Count returns the total number of tasks
	Count(ctx context.Context) (int64, error)

	// CountCompleted returns the number of tasks marked completed
	CountCompleted(ctx context.Context) (int64, error)
}

// TaskService provides task-related operations with cache-aside reads.
// Reads consult the cache first and populate it on a miss; writes go straight
// to the repository and invalidate the affected cache entries afterwards. The
// cache is never a source of truth: if it is absent or failing, every
// operation still succeeds against the repository alone.
type TaskService interface {
	// ListTasks returns up to limit tasks starting after skip rows.
	ListTasks(ctx context.Context, skip, limit int) ([]*domain.Task, error)

	// GetTask retrieves a single task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// CreateTask creates a new task with the given title and optional description.
	CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error)

	// UpdateTask applies the non-nil fields of params to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateTask(ctx context.Context, id int64, params store.UpdateTaskParams) (*domain.Task, error)

	// DeleteTask removes a task permanently.
	// Returns ErrTaskNotFound if the task does not exist.
	DeleteTask(ctx context.Context, id int64) error

	// GetStats computes aggregate statistics over the whole task collection.
	GetStats(ctx context.Context) (domain.Stats, error)
}

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "list_tasks")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// It returns known sentinel and validation errors directly without wrapping,
// so the API layer can match them with errors.Is/errors.As.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	// Check for service-defined sentinel errors
	if errors.Is(err, ErrTaskNotFound) {
		return ErrTaskNotFound
	}

	// Check for store-level sentinel errors that should be mapped to service-level ones
	if errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}

	// Validation failures surface unchanged so the API layer can map them to 422
	if isValidationError(err) {
		return err
	}

	// If not a sentinel to be returned directly, wrap it
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// isValidationError reports whether err is a domain validation failure.
func isValidationError(err error) bool {
	var validationErr *domain.ValidationError
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrTaskTitleEmpty) ||
		errors.Is(err, domain.ErrTaskTitleTooLong) ||
		errors.As(err, &validationErr)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskRepo TaskRepository
	cache    cache.Cache
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService.
// The cache may be nil, in which case every read goes straight to the
// repository and invalidation is a no-op. It returns an error if taskRepo is nil.
func NewTaskService(
	taskRepo TaskRepository,
	taskCache cache.Cache,
	logger *slog.Logger,
) (TaskService, error) {
	// Validate dependencies
	if taskRepo == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskRepo cannot be nil",
			Err:       nil,
		}
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskRepo: taskRepo,
		cache:    taskCache,
		logger:   logger.With("component", "task_service"),
	}, nil
}

// ListTasks returns a window of tasks, serving from the cache when possible.
func (s *taskServiceImpl) ListTasks(ctx context.Context, skip, limit int) ([]*domain.Task, error) {
	key := listCacheKey(skip, limit)

	var cached []*domain.Task
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	tasks, err := s.taskRepo.List(ctx, skip, limit)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"skip", skip,
			"limit", limit)
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	s.writeCache(ctx, key, tasks, taskCacheTTL)
	return tasks, nil
}

// GetTask retrieves a single task, serving from the cache when possible.
// A not-found result is never cached, so a task created immediately after a
// miss becomes visible without waiting for expiry.
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	key := taskCacheKey(id)

	var cached domain.Task
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("failed to retrieve task",
			"error", err,
			"task_id", id)
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}

	s.writeCache(ctx, key, task, taskCacheTTL)
	return task, nil
}

// CreateTask creates a new task and invalidates every cached list page.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	title string,
	description *string,
) (*domain.Task, error) {
	task, err := domain.NewTask(title, description)
	if err != nil {
		s.logger.Debug("task validation failed during create",
			"error", err)
		return nil, NewTaskServiceError("create_task", "invalid task data", err)
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"title", title)
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	// Invalidate only after the write committed
	s.invalidateLists(ctx)

	s.logger.Info("task created",
		"task_id", task.ID)
	return task, nil
}

// UpdateTask applies a partial update and invalidates the cached list pages
// and the task's own cache entry.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id int64,
	params store.UpdateTaskParams,
) (*domain.Task, error) {
	task, err := s.taskRepo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		if isValidationError(err) {
			s.logger.Debug("task validation failed during update",
				"error", err,
				"task_id", id)
			return nil, err
		}
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", id)
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	// Invalidate only after the write committed
	s.invalidateLists(ctx)
	s.invalidateTask(ctx, id)

	s.logger.Info("task updated",
		"task_id", id,
		"completed", task.Completed)
	return task, nil
}

// DeleteTask removes a task and invalidates the cached list pages and the
// task's own cache entry.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", id)
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	// Invalidate only after the write committed
	s.invalidateLists(ctx)
	s.invalidateTask(ctx, id)

	s.logger.Info("task deleted",
		"task_id", id)
	return nil
}

// GetStats computes aggregate task statistics, serving from the cache when
// possible. Stats are expiry-only: writes do not invalidate them, so the
// numbers may lag reality by up to statsCacheTTL.
func (s *taskServiceImpl) GetStats(ctx context.Context) (domain.Stats, error) {
	var cached domain.Stats
	if s.readCache(ctx, statsCacheKey, &cached) {
		return cached, nil
	}

	total, err := s.taskRepo.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count tasks", "error", err)
		return domain.Stats{}, NewTaskServiceError("get_stats", "failed to count tasks", err)
	}

	completed, err := s.taskRepo.CountCompleted(ctx)
	if err != nil {
		s.logger.Error("failed to count completed tasks", "error", err)
		return domain.Stats{}, NewTaskServiceError(
			"get_stats",
			"failed to count completed tasks",
			err,
		)
	}

	stats := domain.NewStats(total, completed)
	s.writeCache(ctx, statsCacheKey, stats, statsCacheTTL)
	return stats, nil
}

// readCache looks up key in the cache and unmarshals it into dest, reporting
// whether a usable value was found. Any cache failure is logged and treated
// as a miss so requests keep working without the cache.
func (s *taskServiceImpl) readCache(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}

	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log := logger.FromContextOrDefault(ctx, s.logger)
		log.Warn("cache read failed, falling back to store",
			"error", err,
			"key", key)
		return false
	}
	return found
}

// writeCache stores a value in the cache. Failures are logged and ignored.
func (s *taskServiceImpl) writeCache(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		log := logger.FromContextOrDefault(ctx, s.logger)
		log.Warn("cache write failed",
			"error", err,
			"key", key)
	}
}

// invalidateLists clears every cached list page. Failures are logged and
// ignored; a stale page lives at most taskCacheTTL.
func (s *taskServiceImpl) invalidateLists(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.DeletePattern(ctx, listKeyPattern); err != nil {
		log := logger.FromContextOrDefault(ctx, s.logger)
		log.Warn("cache list invalidation failed",
			"error", err,
			"pattern", listKeyPattern)
	}
}

// invalidateTask clears the cache entry for a single task. Failures are
// logged and ignored.
func (s *taskServiceImpl) invalidateTask(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}

	key := taskCacheKey(id)
	if err := s.cache.Delete(ctx, key); err != nil {
		log := logger.FromContextOrDefault(ctx, s.logger)
		log.Warn("cache task invalidation failed",
			"error", err,
			"key", key)
	}
}
