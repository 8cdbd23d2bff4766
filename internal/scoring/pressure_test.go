package scoring

import (
	"testing"
	"time"

	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

var pressureParams = PressureParams{UrgencyMax: 3, UrgencyScaleDays: 3}

func TestUrgencyFactor(t *testing.T) {
	t.Run("overdue tasks get the maximum factor with no decay", func(t *testing.T) {
		assert.Equal(t, 3.0, UrgencyFactor(0, pressureParams))
		assert.Equal(t, 3.0, UrgencyFactor(-10, pressureParams))
	})

	t.Run("factor is monotonically increasing toward the deadline", func(t *testing.T) {
		prev := UrgencyFactor(30, pressureParams)
		for _, d := range []float64{14, 7, 3, 1, 0.5} {
			cur := UrgencyFactor(d, pressureParams)
			assert.Greater(t, cur, prev, "urgency at %v days", d)
			prev = cur
		}
	})

	t.Run("factor stays within [1, max]", func(t *testing.T) {
		assert.InDelta(t, 2.0, UrgencyFactor(3, pressureParams), 1e-9)
		assert.Greater(t, UrgencyFactor(365, pressureParams), 1.0)
		assert.Less(t, UrgencyFactor(365, pressureParams), 1.1)
	})
}

func TestClassifyPressure_Boundaries(t *testing.T) {
	const threshold = 15

	testCases := []struct {
		name        string
		tmps        float64
		expected    domain.PressureStatus
		expectedPct float64
	}{
		{name: "just under 70 percent is safe", tmps: 10.4, expected: domain.PressureSafe, expectedPct: 69.33},
		{name: "exactly 70 percent is at risk", tmps: 10.5, expected: domain.PressureAtRisk, expectedPct: 70},
		{name: "at threshold is overloaded", tmps: 15, expected: domain.PressureOverloaded, expectedPct: 100},
		{name: "above threshold is overloaded", tmps: 22.5, expected: domain.PressureOverloaded, expectedPct: 150},
		{name: "zero load is safe", tmps: 0, expected: domain.PressureSafe, expectedPct: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, pct := ClassifyPressure(tc.tmps, threshold)

			assert.Equal(t, tc.expected, status)
			assert.InDelta(t, tc.expectedPct, pct, 0.01)
		})
	}
}

func TestTMPS(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("completed tasks are excluded", func(t *testing.T) {
		tasks := []domain.Task{
			{Difficulty: domain.DifficultyHard, Status: domain.TaskStatusCompleted, Deadline: now.AddDate(0, 0, 1)},
		}
		assert.Equal(t, 0.0, TMPS(tasks, now, pressureParams))
	})

	t.Run("overdue hard task weighs difficulty times max urgency", func(t *testing.T) {
		tasks := []domain.Task{
			{Difficulty: domain.DifficultyHard, Status: domain.TaskStatusInProgress, Deadline: now.AddDate(0, 0, -1)},
		}
		assert.InDelta(t, 9.0, TMPS(tasks, now, pressureParams), 1e-9)
	})

	t.Run("sums over all active tasks", func(t *testing.T) {
		tasks := []domain.Task{
			{Difficulty: domain.DifficultyEasy, Status: domain.TaskStatusTodo, Deadline: now.AddDate(0, 0, -1)},   // 1*3
			{Difficulty: domain.DifficultyMedium, Status: domain.TaskStatusTodo, Deadline: now.AddDate(0, 0, 3)}, // 2*2
		}
		assert.InDelta(t, 7.0, TMPS(tasks, now, pressureParams), 1e-9)
	})
}

func TestClassifyUserPressure(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{Difficulty: domain.DifficultyHard, Status: domain.TaskStatusInProgress, Deadline: now.AddDate(0, 0, -2)},
		{Difficulty: domain.DifficultyHard, Status: domain.TaskStatusTodo, Deadline: now.AddDate(0, 0, -5)},
	}

	res := ClassifyUserPressure("u1", 7, tasks, now, pressureParams, 15)

	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, int64(7), res.ProjectID)
	assert.InDelta(t, 18.0, res.TMPS, 1e-9)
	assert.Equal(t, domain.PressureOverloaded, res.Status)
	assert.InDelta(t, 120.0, res.ThresholdPercentage, 1e-9)
}
