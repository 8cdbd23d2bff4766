package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/atarasenko/contribution-service/internal/apperrors"
	"github.com/atarasenko/contribution-service/internal/config"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/atarasenko/contribution-service/internal/repository"
	"github.com/atarasenko/contribution-service/internal/scoring"
	"github.com/atarasenko/contribution-service/pkg/api"
	"github.com/atarasenko/contribution-service/pkg/logger/sl"
	"github.com/jmoiron/sqlx"
)

type RecomputeService interface {
	// RecomputeProject runs a full scoring pass over every member of a
	// project at a fixed cutoff timestamp.
	RecomputeProject(ctx context.Context, projectID int64) (*api.RecomputeResult, error)
}

type RecomputeServiceImpl struct {
	db       *sqlx.DB
	log      *slog.Logger
	projects repository.ProjectRepository
	roster   repository.RosterRepository
	tasks    repository.TaskRepository
	commits  repository.CommitRepository
	reviews  repository.ReviewRepository
	scores   repository.ScoreRepository
	cfg      config.Scoring
	locks    *ProjectLocks
}

func NewRecomputeService(
	db *sqlx.DB,
	log *slog.Logger,
	projects repository.ProjectRepository,
	roster repository.RosterRepository,
	tasks repository.TaskRepository,
	commits repository.CommitRepository,
	reviews repository.ReviewRepository,
	scores repository.ScoreRepository,
	cfg config.Scoring,
	locks *ProjectLocks,
) *RecomputeServiceImpl {
	return &RecomputeServiceImpl{
		db:       db,
		log:      log,
		projects: projects,
		roster:   roster,
		tasks:    tasks,
		commits:  commits,
		reviews:  reviews,
		scores:   scores,
		cfg:      cfg,
		locks:    locks,
	}
}

// userAggregate is the outcome of aggregating one member's signals.
type userAggregate struct {
	userID string
	inputs scoring.ComponentInputs
	err    error
}

// RecomputeProject recomputes every member's contribution score. The pass
// holds the project lock for its whole duration, so at most one recompute
// per project is in flight and manual adjustments cannot interleave.
// Commits arriving after the cutoff are ignored, making the pass
// reproducible for its cutoff.
//
// One member's aggregation failure does not abort the pass: the failure is
// reported in the result and that member's previous score is retained.
func (s *RecomputeServiceImpl) RecomputeProject(ctx context.Context, projectID int64) (*api.RecomputeResult, error) {
	const op = "internal.service.recompute.RecomputeProject"
	log := s.log.With(slog.String("op", op), slog.Int64("project_id", projectID))

	lock := s.locks.Get(projectID)
	lock.Lock()
	defer lock.Unlock()

	cutoff := time.Now().UTC()

	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.GetProjectByID failed: %w", op, err)
	}

	members, err := s.roster.GetProjectRoster(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.GetProjectRoster failed: %w", op, err)
	}

	log.Info("recompute pass started", slog.Int("members", len(members)), slog.Time("cutoff", cutoff))

	aggregates := s.aggregateMembers(ctx, project, members, cutoff)

	weights := scoring.WeightsOf(*project)
	params := scoring.CompositeParams{
		CommitBaseline:     project.CommitBaseline,
		LatePenaltyPerTask: s.cfg.LatePenaltyPerTask,
	}

	result := &api.RecomputeResult{ProjectID: projectID, Cutoff: cutoff}

	for _, agg := range aggregates {
		if agg.err != nil {
			log.Error("member aggregation failed, previous score retained",
				slog.String("user_id", agg.userID), sl.Err(agg.err))
			result.Failures = append(result.Failures, api.RecomputeFailure{
				UserID: agg.userID,
				Reason: agg.err.Error(),
			})

			continue
		}

		prev, err := s.scores.GetScore(ctx, projectID, agg.userID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				log.Error("failed to load previous score", slog.String("user_id", agg.userID), sl.Err(err))
				result.Failures = append(result.Failures, api.RecomputeFailure{
					UserID: agg.userID,
					Reason: err.Error(),
				})

				continue
			}

			prev = &domain.ContributionScore{UserID: agg.userID, ProjectID: projectID}
		}

		next := scoring.ApplyRecompute(*prev, agg.inputs, weights, params, cutoff)

		if _, err := s.scores.UpsertScore(ctx, s.db, next); err != nil {
			log.Error("failed to persist score", slog.String("user_id", agg.userID), sl.Err(err))
			result.Failures = append(result.Failures, api.RecomputeFailure{
				UserID: agg.userID,
				Reason: err.Error(),
			})

			continue
		}

		result.UsersProcessed++
	}

	log.Info("recompute pass finished",
		slog.Int("processed", result.UsersProcessed),
		slog.Int("failed", len(result.Failures)),
	)

	return result, nil
}

// aggregateMembers fans the per-user signal aggregation out across
// goroutines; members share no mutable state during aggregation, so the
// fan-out is safe. Results come back in a stable order.
func (s *RecomputeServiceImpl) aggregateMembers(
	ctx context.Context,
	project *domain.Project,
	members []domain.User,
	cutoff time.Time,
) []userAggregate {
	aggregates := make([]userAggregate, len(members))

	var wg sync.WaitGroup

	for i, member := range members {
		wg.Add(1)

		go func(i int, userID string) {
			defer wg.Done()

			inputs, err := s.aggregateUser(ctx, project.ID, userID, cutoff)
			aggregates[i] = userAggregate{userID: userID, inputs: inputs, err: err}
		}(i, member.ID)
	}

	wg.Wait()

	sort.Slice(aggregates, func(i, j int) bool { return aggregates[i].userID < aggregates[j].userID })

	return aggregates
}

func (s *RecomputeServiceImpl) aggregateUser(ctx context.Context, projectID int64, userID string, cutoff time.Time) (scoring.ComponentInputs, error) {
	const op = "internal.service.recompute.aggregateUser"

	var inputs scoring.ComponentInputs

	tasks, err := s.tasks.GetTasksByAssignee(ctx, projectID, userID)
	if err != nil {
		return inputs, fmt.Errorf("%s: repo.GetTasksByAssignee failed: %w", op, err)
	}

	taskSignal := scoring.AggregateTasks(tasks, cutoff)

	reviews, err := s.reviews.GetReceivedReviews(ctx, projectID, userID)
	if err != nil {
		return inputs, fmt.Errorf("%s: repo.GetReceivedReviews failed: %w", op, err)
	}

	commitCount, err := s.commits.CountValidCommits(ctx, projectID, userID, cutoff)
	if err != nil {
		return inputs, fmt.Errorf("%s: repo.CountValidCommits failed: %w", op, err)
	}

	inputs = scoring.ComponentInputs{
		TaskCompletionScore: taskSignal.CompletionScore,
		PeerReviewScore:     scoring.AggregateReviews(reviews),
		CommitCount:         commitCount,
		LateTaskCount:       taskSignal.LateCount,
	}

	return inputs, nil
}
