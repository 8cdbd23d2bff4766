package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/atarasenko/contribution-service/internal/apperrors"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

type ScoreRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewScoreRepository(db *sqlx.DB, log *slog.Logger) *ScoreRepository {
	return &ScoreRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var scoreColumns = []string{
	"id", "user_id", "project_id", "task_completion_score", "peer_review_score",
	"commit_count", "late_task_count", "calculated_score", "adjusted_score",
	"adjustment_reason", "is_final", "updated_at",
}

func (sr *ScoreRepository) GetScore(ctx context.Context, projectID int64, userID string) (*domain.ContributionScore, error) {
	const op = "internal.repository.postgres.GetScore"

	query, args, err := sr.sq.Select(scoreColumns...).
		From("contribution_scores").
		Where(sq.Eq{"project_id": projectID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var score domain.ContributionScore
	if err := sr.db.GetContext(ctx, &score, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: score for user '%s' in project '%d'", apperrors.ErrNotFound, userID, projectID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &score, nil
}

func (sr *ScoreRepository) GetScoreForUpdate(ctx context.Context, tx *sqlx.Tx, projectID int64, userID string) (*domain.ContributionScore, error) {
	const op = "internal.repository.postgres.GetScoreForUpdate"

	query, args, err := sr.sq.Select(scoreColumns...).
		From("contribution_scores").
		Where(sq.Eq{"project_id": projectID, "user_id": userID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var score domain.ContributionScore
	if err := tx.GetContext(ctx, &score, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: score for user '%s' in project '%d'", apperrors.ErrNotFound, userID, projectID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &score, nil
}

func (sr *ScoreRepository) UpsertScore(ctx context.Context, ext sqlx.ExtContext, score domain.ContributionScore) (*domain.ContributionScore, error) {
	const op = "internal.repository.postgres.UpsertScore"

	query, args, err := sr.sq.Insert("contribution_scores").
		Columns("user_id", "project_id", "task_completion_score", "peer_review_score",
			"commit_count", "late_task_count", "calculated_score", "adjusted_score",
			"adjustment_reason", "is_final", "updated_at").
		Values(score.UserID, score.ProjectID, score.TaskCompletionScore, score.PeerReviewScore,
			score.CommitCount, score.LateTaskCount, score.CalculatedScore, score.AdjustedScore,
			score.AdjustmentReason, score.IsFinal, score.UpdatedAt).
		Suffix(`
        ON CONFLICT (user_id, project_id) DO UPDATE SET
            task_completion_score = EXCLUDED.task_completion_score,
            peer_review_score = EXCLUDED.peer_review_score,
            commit_count = EXCLUDED.commit_count,
            late_task_count = EXCLUDED.late_task_count,
            calculated_score = EXCLUDED.calculated_score,
            adjusted_score = EXCLUDED.adjusted_score,
            adjustment_reason = EXCLUDED.adjustment_reason,
            is_final = EXCLUDED.is_final,
            updated_at = EXCLUDED.updated_at
        RETURNING ` + joinColumns(scoreColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build upsert query: %w", op, err)
	}

	var saved domain.ContributionScore
	if err := sqlx.GetContext(ctx, ext, &saved, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute upsert: %w", op, err)
	}

	return &saved, nil
}

func (sr *ScoreRepository) ListScoresByProject(ctx context.Context, projectID int64) ([]domain.ContributionScore, error) {
	const op = "internal.repository.postgres.ListScoresByProject"

	query, args, err := sr.sq.Select(scoreColumns...).
		From("contribution_scores").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var scores []domain.ContributionScore
	if err := sr.db.SelectContext(ctx, &scores, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return scores, nil
}

func (sr *ScoreRepository) ListScoresByUsers(ctx context.Context, projectID int64, userIDs []string) ([]domain.ContributionScore, error) {
	const op = "internal.repository.postgres.ListScoresByUsers"

	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := sr.sq.Select(scoreColumns...).
		From("contribution_scores").
		Where(sq.Eq{"project_id": projectID, "user_id": userIDs}).
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var scores []domain.ContributionScore
	if err := sr.db.SelectContext(ctx, &scores, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return scores, nil
}
