package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atarasenko/contribution-service/internal/apperrors"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/atarasenko/contribution-service/internal/repository"
	"github.com/atarasenko/contribution-service/pkg/api"
)

type ReviewService interface {
	// SubmitReview stores a weekly peer review. Resubmitting for the same
	// (project, reviewer, reviewee, week) replaces the earlier review.
	// Reviewing oneself is rejected with apperrors.ErrSelfReview.
	SubmitReview(ctx context.Context, submission api.PeerReviewSubmission) error
}

type ReviewServiceImpl struct {
	log     *slog.Logger
	reviews repository.ReviewRepository
}

func NewReviewService(log *slog.Logger, reviews repository.ReviewRepository) *ReviewServiceImpl {
	return &ReviewServiceImpl{log: log, reviews: reviews}
}

func (s *ReviewServiceImpl) SubmitReview(ctx context.Context, submission api.PeerReviewSubmission) error {
	const op = "internal.service.review.SubmitReview"
	log := s.log.With(
		slog.String("op", op),
		slog.Int64("project_id", submission.ProjectID),
		slog.String("reviewer_id", submission.ReviewerID),
		slog.String("reviewee_id", submission.RevieweeID),
	)

	if submission.ReviewerID == submission.RevieweeID {
		return fmt.Errorf("%s: %w", op, apperrors.ErrSelfReview)
	}

	review := domain.PeerReview{
		ProjectID:        submission.ProjectID,
		ReviewerID:       submission.ReviewerID,
		RevieweeID:       submission.RevieweeID,
		CompletionScore:  submission.CompletionScore,
		CooperationScore: submission.CooperationScore,
		ReviewWeek:       submission.ReviewWeek,
		Comment:          submission.Comment,
	}

	if _, err := s.reviews.UpsertReview(ctx, review); err != nil {
		return fmt.Errorf("%s: repo.UpsertReview failed: %w", op, err)
	}

	log.Info("peer review stored", slog.Int("review_week", submission.ReviewWeek))

	return nil
}
