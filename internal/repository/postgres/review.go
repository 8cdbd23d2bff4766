package postgres

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

type ReviewRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewReviewRepository(db *sqlx.DB, log *slog.Logger) *ReviewRepository {
	return &ReviewRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var reviewColumns = []string{
	"id", "project_id", "reviewer_id", "reviewee_id",
	"completion_score", "cooperation_score", "review_week", "comment",
}

func (rr *ReviewRepository) UpsertReview(ctx context.Context, review domain.PeerReview) (*domain.PeerReview, error) {
	const op = "internal.repository.postgres.UpsertReview"

	query, args, err := rr.sq.Insert("peer_reviews").
		Columns("project_id", "reviewer_id", "reviewee_id",
			"completion_score", "cooperation_score", "review_week", "comment").
		Values(review.ProjectID, review.ReviewerID, review.RevieweeID,
			review.CompletionScore, review.CooperationScore, review.ReviewWeek, review.Comment).
		Suffix(`
        ON CONFLICT (project_id, reviewer_id, reviewee_id, review_week) DO UPDATE SET
            completion_score = EXCLUDED.completion_score,
            cooperation_score = EXCLUDED.cooperation_score,
            comment = EXCLUDED.comment
        RETURNING ` + joinColumns(reviewColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build upsert query: %w", op, err)
	}

	var saved domain.PeerReview
	if err := rr.db.QueryRowxContext(ctx, query, args...).StructScan(&saved); err != nil {
		return nil, fmt.Errorf("%s: failed to execute upsert: %w", op, err)
	}

	return &saved, nil
}

func (rr *ReviewRepository) GetReceivedReviews(ctx context.Context, projectID int64, revieweeID string) ([]domain.PeerReview, error) {
	const op = "internal.repository.postgres.GetReceivedReviews"

	query, args, err := rr.sq.Select(reviewColumns...).
		From("peer_reviews").
		Where(sq.Eq{"project_id": projectID, "reviewee_id": revieweeID}).
		OrderBy("review_week").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var reviews []domain.PeerReview
	if err := rr.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return reviews, nil
}
