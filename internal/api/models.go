package api

import (
	"time"

	"github.com/phrazzld/task-api/internal/domain"
)

// Common request/response structures

// CreateTaskRequest defines the payload for the task creation endpoint.
type CreateTaskRequest struct {
	Title       string  `json:"title"       validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty"`
}

// UpdateTaskRequest defines the payload for the task update endpoint.
// All fields are optional; absent fields leave the stored value unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty"`
	Completed   *bool   `json:"completed"`
}

// TaskResponse defines the wire representation of a single task.
type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTaskResponse converts a domain task into its wire representation.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// NewTaskListResponse converts a slice of domain tasks into wire form.
// It always returns a non-nil slice so an empty window serializes as [].
func NewTaskListResponse(tasks []*domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task))
	}
	return responses
}

// DeleteTaskResponse confirms a successful task deletion.
type DeleteTaskResponse struct {
	Message string `json:"message"`
}

// StatsResponse defines the wire representation of aggregate task statistics.
type StatsResponse struct {
	TotalTasks     int64   `json:"total_tasks"`
	CompletedTasks int64   `json:"completed_tasks"`
	PendingTasks   int64   `json:"pending_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

// NewStatsResponse converts domain statistics into wire form.
func NewStatsResponse(stats domain.Stats) StatsResponse {
	return StatsResponse{
		TotalTasks:     stats.TotalTasks,
		CompletedTasks: stats.CompletedTasks,
		PendingTasks:   stats.PendingTasks,
		CompletionRate: stats.CompletionRate,
	}
}
