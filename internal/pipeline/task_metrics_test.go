package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/hcip-dashboard-go/internal/models"
)

func TestTaskDelayDays(t *testing.T) {
	today := Today(refNow, karachi())

	tests := []struct {
		name string
		task models.TaskRecord
		want *int
	}{
		{
			name: "unscheduled task has no delay",
			task: models.TaskRecord{ActualFinish: date(2026, 3, 1)},
			want: nil,
		},
		{
			name: "open task measured against today",
			task: models.TaskRecord{PlannedFinish: date(2026, 3, 10)},
			want: intPtr(10),
		},
		{
			name: "finished late",
			task: models.TaskRecord{PlannedFinish: date(2026, 1, 1), ActualFinish: date(2026, 1, 15)},
			want: intPtr(14),
		},
		{
			name: "finished early clips to zero",
			task: models.TaskRecord{PlannedFinish: date(2026, 2, 1), ActualFinish: date(2026, 1, 15)},
			want: intPtr(0),
		},
		{
			name: "future deadline clips to zero",
			task: models.TaskRecord{PlannedFinish: date(2026, 12, 31)},
			want: intPtr(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TaskDelayDays(&tt.task, today)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestTaskDurationDays(t *testing.T) {
	tk := models.TaskRecord{PlannedStart: date(2026, 1, 1), PlannedFinish: date(2026, 1, 31)}
	require.NotNil(t, TaskDurationDays(&tk))
	assert.Equal(t, 30, *TaskDurationDays(&tk))

	same := models.TaskRecord{PlannedStart: date(2026, 1, 1), PlannedFinish: date(2026, 1, 1)}
	assert.Equal(t, 1, *TaskDurationDays(&same), "zero-length duration floors at 1")

	inverted := models.TaskRecord{PlannedStart: date(2026, 2, 1), PlannedFinish: date(2026, 1, 1)}
	assert.Equal(t, 1, *TaskDurationDays(&inverted))

	assert.Nil(t, TaskDurationDays(&models.TaskRecord{PlannedFinish: date(2026, 1, 1)}))
}

func TestDeriveTaskStatus(t *testing.T) {
	tests := []struct {
		name string
		task models.TaskRecord
		want models.TaskStatus
	}{
		{name: "full progress", task: models.TaskRecord{ProgressPct: 100}, want: models.TaskCompleted},
		{name: "finished with low progress", task: models.TaskRecord{ProgressPct: 10, ActualFinish: date(2026, 1, 1)}, want: models.TaskCompleted},
		{name: "partial progress", task: models.TaskRecord{ProgressPct: 0.5}, want: models.TaskInProgress},
		{name: "started without progress", task: models.TaskRecord{ActualStart: date(2026, 1, 1)}, want: models.TaskInProgress},
		{name: "nothing recorded", task: models.TaskRecord{}, want: models.TaskNotStarted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTaskStatus(&tt.task))
		})
	}
}

func TestComputeTaskMetrics_DelayNilIffNoPlannedFinish(t *testing.T) {
	tasks := []models.TaskRecord{
		{PlannedFinish: date(2026, 3, 1)},
		{PlannedStart: date(2026, 1, 1)},
		{PlannedFinish: date(2027, 1, 1), ActualFinish: date(2026, 1, 1)},
		{},
	}
	ComputeTaskMetrics(tasks, Today(refNow, karachi()))

	for _, tk := range tasks {
		if tk.PlannedFinish == nil {
			assert.Nil(t, tk.TaskDelayDays)
			continue
		}
		require.NotNil(t, tk.TaskDelayDays)
		assert.GreaterOrEqual(t, *tk.TaskDelayDays, 0)
	}
}

func TestToday_UsesReferenceTimezone(t *testing.T) {
	lateUTC := refNow.Add(8 * time.Hour) // 20:00 UTC is already the 21st in Karachi
	assert.Equal(t, *date(2026, 3, 21), Today(lateUTC, karachi()))
	assert.Equal(t, *date(2026, 3, 20), Today(lateUTC, nil))
}
