package domain

import "math"

// Stats summarizes the state of the task collection. It is derived from
// store counts and never persisted.
type Stats struct {
	TotalTasks     int64   `json:"total_tasks"`
	CompletedTasks int64   `json:"completed_tasks"`
	PendingTasks   int64   `json:"pending_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

// NewStats computes task statistics from the given counts. The completion
// rate is a percentage rounded to two decimal places, and zero when there
// are no tasks.
func NewStats(total, completed int64) Stats {
	stats := Stats{
		TotalTasks:     total,
		CompletedTasks: completed,
		PendingTasks:   total - completed,
	}

	if total > 0 {
		rate := float64(completed) / float64(total) * 100
		stats.CompletionRate = math.Round(rate*100) / 100
	}

	return stats
}
