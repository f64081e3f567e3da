package pipeline

import (
	"time"

	"github.com/jengzang/hcip-dashboard-go/internal/models"
)

// ComputeTaskMetrics fills delay, duration and status on every task.
// today must be a calendar date as returned by Today.
func ComputeTaskMetrics(tasks []models.TaskRecord, today time.Time) {
	for i := range tasks {
		t := &tasks[i]
		t.TaskDelayDays = TaskDelayDays(t, today)
		t.TaskDurationDays = TaskDurationDays(t)
		t.TaskStatus = DeriveTaskStatus(t)
	}
}

// TaskDelayDays returns days overdue: (actual finish, or today when the task
// is still open) minus planned finish, floored at 0. An unscheduled task
// (no planned finish) has no delay.
func TaskDelayDays(t *models.TaskRecord, today time.Time) *int {
	if t.PlannedFinish == nil {
		return nil
	}
	effective := today
	if t.ActualFinish != nil {
		effective = *t.ActualFinish
	}
	days := max(daysBetween(*t.PlannedFinish, effective), 0)
	return &days
}

// TaskDurationDays returns planned finish minus planned start, at least 1.
func TaskDurationDays(t *models.TaskRecord) *int {
	if t.PlannedStart == nil || t.PlannedFinish == nil {
		return nil
	}
	days := max(daysBetween(*t.PlannedStart, *t.PlannedFinish), 1)
	return &days
}

// DeriveTaskStatus applies, first match wins:
// Completed when progress >= 100 or finished; In Progress when progress > 0
// or started; otherwise Not Started.
func DeriveTaskStatus(t *models.TaskRecord) models.TaskStatus {
	switch {
	case t.ProgressPct >= 100 || t.ActualFinish != nil:
		return models.TaskCompleted
	case t.ProgressPct > 0 || t.ActualStart != nil:
		return models.TaskInProgress
	default:
		return models.TaskNotStarted
	}
}
