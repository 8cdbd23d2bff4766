package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/atarasenko/contribution-service/internal/repository"
	"github.com/atarasenko/contribution-service/internal/scoring"
	"github.com/atarasenko/contribution-service/pkg/api"
	"github.com/jmoiron/sqlx"
)

type ScoreService interface {
	// GetUserScore retrieves one user's contribution score in a project.
	// It returns apperrors.ErrNotFound if no score has been computed yet.
	GetUserScore(ctx context.Context, projectID int64, userID string) (*api.ContributionScoreResponse, error)

	// GetProjectScores retrieves every score row of a project.
	GetProjectScores(ctx context.Context, projectID int64) (*api.ProjectScoresResponse, error)

	// AdjustScore applies a manual override to a user's score and finalizes
	// it. A blank reason is rejected with
	// apperrors.ErrAdjustmentReasonRequired.
	AdjustScore(ctx context.Context, projectID int64, userID string, adjusted float64, reason string) (*api.ContributionScoreResponse, error)

	// ClearAdjustment lifts a manual override so the next recompute pass
	// takes over again. It returns apperrors.ErrScoreNotFinalized if the
	// score carries no override.
	ClearAdjustment(ctx context.Context, projectID int64, userID string) (*api.ContributionScoreResponse, error)
}

type ScoreServiceImpl struct {
	BaseService
	scores repository.ScoreRepository
	locks  *ProjectLocks
}

func NewScoreService(
	base BaseService,
	scores repository.ScoreRepository,
	locks *ProjectLocks,
) *ScoreServiceImpl {
	return &ScoreServiceImpl{
		BaseService: base,
		scores:      scores,
		locks:       locks,
	}
}

func (s *ScoreServiceImpl) GetUserScore(ctx context.Context, projectID int64, userID string) (*api.ContributionScoreResponse, error) {
	const op = "internal.service.score.GetUserScore"

	score, err := s.scores.GetScore(ctx, projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.GetScore failed: %w", op, err)
	}

	resp := toAPIScore(*score)

	return &resp, nil
}

func (s *ScoreServiceImpl) GetProjectScores(ctx context.Context, projectID int64) (*api.ProjectScoresResponse, error) {
	const op = "internal.service.score.GetProjectScores"

	scores, err := s.scores.ListScoresByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.ListScoresByProject failed: %w", op, err)
	}

	resp := &api.ProjectScoresResponse{
		ProjectID: projectID,
		Scores:    make([]api.ContributionScoreResponse, 0, len(scores)),
	}
	for _, score := range scores {
		resp.Scores = append(resp.Scores, toAPIScore(score))
	}

	return resp, nil
}

// AdjustScore serializes against recompute passes of the same project
// through the project lock, then locks the row itself inside the
// transaction. The adjusted value becomes authoritative until cleared.
func (s *ScoreServiceImpl) AdjustScore(ctx context.Context, projectID int64, userID string, adjusted float64, reason string) (*api.ContributionScoreResponse, error) {
	const op = "internal.service.score.AdjustScore"
	log := s.log.With(
		slog.String("op", op),
		slog.Int64("project_id", projectID),
		slog.String("user_id", userID),
	)

	lock := s.locks.Get(projectID)
	lock.Lock()
	defer lock.Unlock()

	var updated *domain.ContributionScore

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		score, err := s.scores.GetScoreForUpdate(ctx, tx, projectID, userID)
		if err != nil {
			return fmt.Errorf("%s: repo.GetScoreForUpdate failed: %w", op, err)
		}

		next, err := scoring.Adjust(*score, adjusted, reason, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		updated, err = s.scores.UpsertScore(ctx, tx, next)
		if err != nil {
			return fmt.Errorf("%s: repo.UpsertScore failed: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("score adjusted", slog.Float64("adjusted_score", adjusted))

	resp := toAPIScore(*updated)

	return &resp, nil
}

func (s *ScoreServiceImpl) ClearAdjustment(ctx context.Context, projectID int64, userID string) (*api.ContributionScoreResponse, error) {
	const op = "internal.service.score.ClearAdjustment"
	log := s.log.With(
		slog.String("op", op),
		slog.Int64("project_id", projectID),
		slog.String("user_id", userID),
	)

	lock := s.locks.Get(projectID)
	lock.Lock()
	defer lock.Unlock()

	var updated *domain.ContributionScore

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		score, err := s.scores.GetScoreForUpdate(ctx, tx, projectID, userID)
		if err != nil {
			return fmt.Errorf("%s: repo.GetScoreForUpdate failed: %w", op, err)
		}

		next, err := scoring.ClearAdjustment(*score, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		updated, err = s.scores.UpsertScore(ctx, tx, next)
		if err != nil {
			return fmt.Errorf("%s: repo.UpsertScore failed: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("score adjustment cleared")

	resp := toAPIScore(*updated)

	return &resp, nil
}

func toAPIScore(s domain.ContributionScore) api.ContributionScoreResponse {
	return api.ContributionScoreResponse{
		UserID:              s.UserID,
		ProjectID:           s.ProjectID,
		TaskCompletionScore: s.TaskCompletionScore,
		PeerReviewScore:     s.PeerReviewScore,
		CommitCount:         s.CommitCount,
		LateTaskCount:       s.LateTaskCount,
		CalculatedScore:     s.CalculatedScore,
		AdjustedScore:       s.AdjustedScore,
		AdjustmentReason:    s.AdjustmentReason,
		EffectiveScore:      s.EffectiveScore(),
		IsFinal:             s.IsFinal,
		UpdatedAt:           s.UpdatedAt,
	}
}
