// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /api/tasks requests.
// It returns a window of tasks controlled by the skip/limit query parameters.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	// Get logger from context or use default
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	skip, limit, err := getPaginationParams(r)
	if err != nil {
		log.Warn("invalid pagination parameters",
			slog.String("skip", r.URL.Query().Get("skip")),
			slog.String("limit", r.URL.Query().Get("limit")))
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), skip, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	log.Debug("listed tasks",
		slog.Int("count", len(tasks)),
		slog.Int("skip", skip),
		slog.Int("limit", limit))
	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// GetTask handles GET /api/tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	// Get logger from context or use default
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		log.Warn("invalid task ID", slog.String("value", chi.URLParam(r, "id")))
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve task")
		return
	}

	log.Debug("retrieved task", slog.Int64("task_id", task.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// CreateTask handles POST /api/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	// Get logger from context or use default
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Parse request body
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request format")
		return
	}

	// Validate request
	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(
			w,
			r,
			http.StatusUnprocessableEntity,
			SanitizeValidationError(err),
			err,
		)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	log.Debug("task created", slog.Int64("task_id", task.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id} requests.
// Absent body fields leave the stored values unchanged.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	// Get logger from context or use default
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		log.Warn("invalid task ID", slog.String("value", chi.URLParam(r, "id")))
		HandleAPIError(w, r, err, "")
		return
	}

	// Parse request body
	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request format")
		return
	}

	// Validate request
	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		shared.RespondWithErrorAndLog(
			w,
			r,
			http.StatusUnprocessableEntity,
			SanitizeValidationError(err),
			err,
		)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, store.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	log.Debug("task updated",
		slog.Int64("task_id", task.ID),
		slog.Bool("completed", task.Completed))
	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	// Get logger from context or use default
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		log.Warn("invalid task ID", slog.String("value", chi.URLParam(r, "id")))
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	log.Debug("task deleted", slog.Int64("task_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, DeleteTaskResponse{
		Message: "Task deleted successfully",
	})
}

// GetStats handles GET /api/stats requests.
// It returns aggregate statistics over the whole task collection.
func (h *TaskHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	// Get logger from context or use default
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	stats, err := h.taskService.GetStats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute task statistics")
		return
	}

	log.Debug("computed task statistics",
		slog.Int64("total", stats.TotalTasks),
		slog.Int64("completed", stats.CompletedTasks))
	shared.RespondWithJSON(w, r, http.StatusOK, NewStatsResponse(stats))
}
