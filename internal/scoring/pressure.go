package scoring

import (
	"time"

	"github.com/atarasenko/contribution-service/internal/domain"
)

// PressureParams shape the urgency curve. Exposed as configuration so the
// curve can be tuned without touching the classifier.
type PressureParams struct {
	// UrgencyMax is the factor applied to overdue tasks; it is also the
	// asymptote the factor climbs toward as the deadline nears.
	UrgencyMax float64
	// UrgencyScaleDays is the distance from the deadline, in days, at which
	// the factor sits halfway between 1 and UrgencyMax.
	UrgencyScaleDays float64
}

// Classification boundaries relative to the project's pressure threshold.
const atRiskFraction = 0.7

// UrgencyFactor maps days-until-deadline onto a multiplier that grows as the
// deadline nears: max for overdue tasks (no decay past the deadline),
// otherwise 1 + (max-1) * scale/(days+scale), a monotonically decreasing
// hyperbolic ramp that reaches max exactly at the deadline.
func UrgencyFactor(daysUntilDeadline float64, p PressureParams) float64 {
	if p.UrgencyMax < 1 {
		return 1
	}

	if daysUntilDeadline <= 0 {
		return p.UrgencyMax
	}

	scale := p.UrgencyScaleDays
	if scale <= 0 {
		scale = 1
	}

	return 1 + (p.UrgencyMax-1)*scale/(daysUntilDeadline+scale)
}

// TMPS computes the Total Member Pressure Score over one user's active (not
// completed) tasks: the sum of difficultyWeight * urgencyFactor terms.
// A pure function of current task state; no history is consulted.
func TMPS(tasks []domain.Task, now time.Time, p PressureParams) float64 {
	var total float64

	for _, t := range tasks {
		if t.Status == domain.TaskStatusCompleted {
			continue
		}

		days := t.Deadline.Sub(now).Hours() / 24
		total += DifficultyWeight(t.Difficulty) * UrgencyFactor(days, p)
	}

	return total
}

// ClassifyPressure places a TMPS value against the project threshold:
// below 70% of the threshold is SAFE, from 70% up to the threshold is
// AT_RISK, at or above the threshold is OVERLOADED. The second return value
// is TMPS as a percentage of the threshold, reported for transparency.
func ClassifyPressure(tmps float64, threshold int) (domain.PressureStatus, float64) {
	t := float64(threshold)
	pct := tmps / t * 100

	switch {
	case tmps >= t:
		return domain.PressureOverloaded, pct
	case tmps >= atRiskFraction*t:
		return domain.PressureAtRisk, pct
	default:
		return domain.PressureSafe, pct
	}
}

// ClassifyUserPressure runs the full pressure pipeline for one user.
func ClassifyUserPressure(
	userID string,
	projectID int64,
	tasks []domain.Task,
	now time.Time,
	p PressureParams,
	threshold int,
) domain.PressureResult {
	tmps := TMPS(tasks, now, p)
	status, pct := ClassifyPressure(tmps, threshold)

	return domain.PressureResult{
		UserID:              userID,
		ProjectID:           projectID,
		TMPS:                tmps,
		Status:              status,
		ThresholdPercentage: pct,
	}
}
