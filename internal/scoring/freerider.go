package scoring

import (
	"encoding/json"
	"time"

	"github.com/atarasenko/contribution-service/internal/domain"
)

// DetectionParams are the low-activity corroboration floors. The composite
// score condition alone never triggers a case; at least one of these floors
// must also be breached.
type DetectionParams struct {
	// MinCommits: fewer validated commits than this is a low-activity signal.
	MinCommits int
	// MaxLateTasks: more late tasks than this is a low-activity signal.
	MaxLateTasks int
	// MinTaskScore: a task completion score below this is a low-activity signal.
	MinTaskScore float64
}

// Evidence is the serialized metric snapshot attached to a case at detection
// time, so a reviewer can see exactly what triggered it.
type Evidence struct {
	CalculatedScore     float64   `json:"calculated_score"`
	GroupMeanScore      float64   `json:"group_mean_score"`
	FreeRiderThreshold  float64   `json:"free_rider_threshold"`
	CommitCount         int       `json:"commit_count"`
	LateTaskCount       int       `json:"late_task_count"`
	TaskCompletionScore float64   `json:"task_completion_score"`
	DetectedAt          time.Time `json:"detected_at"`
}

// Candidate is one group member flagged for human review.
type Candidate struct {
	Score    domain.ContributionScore
	Evidence Evidence
}

// GroupMeanScore averages the calculated scores of a group's members.
func GroupMeanScore(scores []domain.ContributionScore) float64 {
	if len(scores) == 0 {
		return 0
	}

	var sum float64
	for _, s := range scores {
		sum += s.CalculatedScore
	}

	return sum / float64(len(scores))
}

// DetectCandidates flags group members whose calculated score is anomalously
// low relative to the group mean AND who show at least one independent
// low-activity signal. Requiring the corroborating signal keeps a single
// noisy composite from producing false positives.
func DetectCandidates(
	scores []domain.ContributionScore,
	threshold float64,
	p DetectionParams,
	now time.Time,
) []Candidate {
	mean := GroupMeanScore(scores)
	if mean <= 0 {
		return nil
	}

	var candidates []Candidate

	for _, s := range scores {
		if s.CalculatedScore >= threshold*mean {
			continue
		}

		if !lowActivity(s, p) {
			continue
		}

		candidates = append(candidates, Candidate{
			Score: s,
			Evidence: Evidence{
				CalculatedScore:     s.CalculatedScore,
				GroupMeanScore:      mean,
				FreeRiderThreshold:  threshold,
				CommitCount:         s.CommitCount,
				LateTaskCount:       s.LateTaskCount,
				TaskCompletionScore: s.TaskCompletionScore,
				DetectedAt:          now,
			},
		})
	}

	return candidates
}

func lowActivity(s domain.ContributionScore, p DetectionParams) bool {
	return s.CommitCount < p.MinCommits ||
		s.LateTaskCount > p.MaxLateTasks ||
		s.TaskCompletionScore < p.MinTaskScore
}

// MarshalEvidence serializes an evidence snapshot for persistence.
func MarshalEvidence(e Evidence) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// caseTransitions enumerates the allowed one-directional lifecycle moves.
// Terminal states admit nothing; a fresh occurrence after resolution becomes
// a new case instead.
var caseTransitions = map[domain.CaseStatus][]domain.CaseStatus{
	domain.CaseStatusPending:   {domain.CaseStatusContacted, domain.CaseStatusResolved, domain.CaseStatusDismissed},
	domain.CaseStatusContacted: {domain.CaseStatusResolved, domain.CaseStatusDismissed},
}

// CanTransitionCase reports whether a case may move from one status to
// another.
func CanTransitionCase(from, to domain.CaseStatus) bool {
	for _, allowed := range caseTransitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}
