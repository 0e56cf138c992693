package domain

import (
	"errors"
	"time"
	"unicode/utf8"
)

// TaskTitleMaxLength is the maximum number of characters allowed in a task title.
const TaskTitleMaxLength = 200

// Common validation errors for Task
var (
	ErrTaskTitleEmpty           = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong         = errors.New("task title cannot exceed 200 characters")
	ErrTaskTimestampsOutOfOrder = errors.New("task updated_at cannot precede created_at")
)

// Task represents a single tracked unit of work. The ID is assigned by the
// persistent store on insert and is immutable afterwards. Description is
// optional and serializes as JSON null when absent.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task with the given title and optional description.
// New tasks start not completed, with creation and update timestamps set to
// the same instant. The ID is zero until the store persists the task.
// Returns an error if validation fails.
func NewTask(title string, description *string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if utf8.RuneCountInString(t.Title) > TaskTitleMaxLength {
		return ErrTaskTitleTooLong
	}

	if t.UpdatedAt.Before(t.CreatedAt) {
		return ErrTaskTimestampsOutOfOrder
	}

	return nil
}
