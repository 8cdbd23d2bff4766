package scoring

import (
	"time"

	"github.com/atarasenko/contribution-service/internal/domain"
)

// difficultyWeights is the ordinal weighting of task difficulty used both by
// the completion aggregate and by the pressure score.
var difficultyWeights = map[domain.TaskDifficulty]float64{
	domain.DifficultyEasy:   1,
	domain.DifficultyMedium: 2,
	domain.DifficultyHard:   3,
}

// DifficultyWeight returns the ordinal weight of a difficulty, defaulting to
// the EASY weight for unknown values.
func DifficultyWeight(d domain.TaskDifficulty) float64 {
	if w, ok := difficultyWeights[d]; ok {
		return w
	}

	return difficultyWeights[domain.DifficultyEasy]
}

// TaskSignal is the per-user task aggregate consumed by the composite score.
type TaskSignal struct {
	// CompletionScore is the difficulty-weighted mean of completion
	// percentages on a 0-100 scale.
	CompletionScore float64
	// LateCount counts tasks completed after their deadline plus tasks not
	// completed whose deadline has already passed.
	LateCount int
}

// AggregateTasks computes the task-completion signal for one user's tasks in
// a project. A task with no completion activity contributes 0 to the weighted
// mean rather than being excluded, so unattempted work depresses the score.
// A user with no tasks at all yields a zero signal.
func AggregateTasks(tasks []domain.Task, now time.Time) TaskSignal {
	var (
		weightedSum float64
		weightTotal float64
		lateCount   int
	)

	for _, t := range tasks {
		w := DifficultyWeight(t.Difficulty)
		weightedSum += w * clamp(t.CompletionPercentage, 0, 100)
		weightTotal += w

		if isLate(t, now) {
			lateCount++
		}
	}

	sig := TaskSignal{LateCount: lateCount}
	if weightTotal > 0 {
		sig.CompletionScore = weightedSum / weightTotal
	}

	return sig
}

func isLate(t domain.Task, now time.Time) bool {
	if t.Status == domain.TaskStatusCompleted {
		return t.CompletedAt != nil && t.CompletedAt.After(t.Deadline)
	}

	return t.Deadline.Before(now)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
