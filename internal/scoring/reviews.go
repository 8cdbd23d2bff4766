package scoring

import (
	"github.com/atarasenko/contribution-service/internal/domain"
)

// NeutralReviewScore is the defined default for a user who received no peer
// reviews in the evaluation window. A neutral midpoint keeps the downstream
// weighting well-formed without rewarding or punishing missing data.
const NeutralReviewScore = 50.0

// AggregateReviews averages the received peer-review component scores and
// rescales the 1-5 input range to 0-100. Reviews where the user is not the
// reviewee must be filtered out by the caller.
func AggregateReviews(reviews []domain.PeerReview) float64 {
	if len(reviews) == 0 {
		return NeutralReviewScore
	}

	var sum float64
	for _, r := range reviews {
		sum += (float64(r.CompletionScore) + float64(r.CooperationScore)) / 2
	}

	mean := sum / float64(len(reviews))

	// Linear rescale [1,5] -> [0,100].
	return (mean - 1) / 4 * 100
}
