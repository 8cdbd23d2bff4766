package scoring

import (
	"time"

	"github.com/atarasenko/contribution-service/internal/apperrors"
	"github.com/atarasenko/contribution-service/internal/domain"
)

// Weights are the per-project composite weights. They are validated
// non-negative at submission time and need not sum to 1.
type Weights struct {
	Task   float64
	Review float64
	Commit float64
	Late   float64
}

// WeightsOf extracts the composite weights from a project configuration.
func WeightsOf(p domain.Project) Weights {
	return Weights{
		Task:   p.WeightTask,
		Review: p.WeightReview,
		Commit: p.WeightCommit,
		Late:   p.WeightLate,
	}
}

// CompositeParams are the formula knobs that are not per-project weights.
type CompositeParams struct {
	// CommitBaseline is the validated commit count at which the commit
	// activity score saturates.
	CommitBaseline int
	// LatePenaltyPerTask is the penalty in composite points per late task,
	// before the late weight is applied.
	LatePenaltyPerTask float64
}

// ComponentInputs are the three upstream signals plus the lateness count for
// one (user, project) pair.
type ComponentInputs struct {
	TaskCompletionScore float64
	PeerReviewScore     float64
	CommitCount         int
	LateTaskCount       int
}

// CommitActivityScore maps a validated commit count onto 0-100 with a
// saturating linear ramp: 100 * min(1, commits/baseline). Monotonic in the
// commit count, capped at the project's expected-activity baseline.
func CommitActivityScore(validCommits, baseline int) float64 {
	if baseline <= 0 || validCommits <= 0 {
		return 0
	}

	ratio := float64(validCommits) / float64(baseline)
	if ratio > 1 {
		ratio = 1
	}

	return 100 * ratio
}

// Composite combines the upstream signals into the calculated score:
// clamp(0, 100, w1*task + w2*review + w3*commit - w4*latePenalty).
// The function is idempotent by construction; identical inputs always
// produce the identical score.
func Composite(in ComponentInputs, w Weights, p CompositeParams) float64 {
	commitScore := CommitActivityScore(in.CommitCount, p.CommitBaseline)
	latePenalty := float64(in.LateTaskCount) * p.LatePenaltyPerTask

	raw := w.Task*in.TaskCompletionScore +
		w.Review*in.PeerReviewScore +
		w.Commit*commitScore -
		w.Late*latePenalty

	return clamp(raw, 0, 100)
}

// ApplyRecompute refreshes a contribution score from freshly aggregated
// inputs. Component fields are always updated for display; the calculated
// score is only overwritten while the score is not finalized, so a manual
// override is never silently reverted.
func ApplyRecompute(
	prev domain.ContributionScore,
	in ComponentInputs,
	w Weights,
	p CompositeParams,
	now time.Time,
) domain.ContributionScore {
	next := prev
	next.TaskCompletionScore = in.TaskCompletionScore
	next.PeerReviewScore = in.PeerReviewScore
	next.CommitCount = in.CommitCount
	next.LateTaskCount = in.LateTaskCount
	next.UpdatedAt = now

	if !prev.IsFinal {
		next.CalculatedScore = Composite(in, w, p)
	}

	return next
}

// Adjust applies a manual override: the adjusted value becomes authoritative
// and the score is finalized against further automatic recomputation.
// A non-blank reason is required for auditability.
func Adjust(score domain.ContributionScore, adjusted float64, reason string, now time.Time) (domain.ContributionScore, error) {
	if isBlank(reason) {
		return score, apperrors.ErrAdjustmentReasonRequired
	}

	adjusted = clamp(adjusted, 0, 100)
	score.AdjustedScore = &adjusted
	score.AdjustmentReason = &reason
	score.IsFinal = true
	score.UpdatedAt = now

	return score, nil
}

// ClearAdjustment returns a finalized score to automatic control. The next
// recompute pass will refresh the calculated score again.
func ClearAdjustment(score domain.ContributionScore, now time.Time) (domain.ContributionScore, error) {
	if !score.IsFinal {
		return score, apperrors.ErrScoreNotFinalized
	}

	score.AdjustedScore = nil
	score.AdjustmentReason = nil
	score.IsFinal = false
	score.UpdatedAt = now

	return score, nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}

	return true
}
