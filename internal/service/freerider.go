package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atarasenko/contribution-service/internal/apperrors"
	"github.com/atarasenko/contribution-service/internal/config"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/atarasenko/contribution-service/internal/repository"
	"github.com/atarasenko/contribution-service/internal/scoring"
	"github.com/atarasenko/contribution-service/pkg/api"
	"github.com/atarasenko/contribution-service/pkg/logger/sl"
)

type FreeRiderService interface {
	// Detect scans every group of a project and opens PENDING cases for
	// members whose score is anomalously low with a corroborating
	// low-activity signal. Members with an open case are skipped.
	Detect(ctx context.Context, projectID int64) (*api.DetectionResult, error)

	// ListCases retrieves all cases of a project, newest first.
	ListCases(ctx context.Context, projectID int64) ([]api.FreeRiderCaseDTO, error)

	// ContactCase moves a PENDING case to CONTACTED and records the contact
	// time.
	ContactCase(ctx context.Context, caseID int64, notes string) (*api.FreeRiderCaseDTO, error)

	// ResolveCase closes a case as confirmed-and-addressed, with a required
	// resolution text.
	ResolveCase(ctx context.Context, caseID int64, resolution string) (*api.FreeRiderCaseDTO, error)

	// DismissCase closes a case as a false positive.
	DismissCase(ctx context.Context, caseID int64, resolution string) (*api.FreeRiderCaseDTO, error)
}

type FreeRiderServiceImpl struct {
	log        *slog.Logger
	projects   repository.ProjectRepository
	roster     repository.RosterRepository
	scores     repository.ScoreRepository
	cases      repository.CaseRepository
	cfg        config.Scoring
	dispatcher *Dispatcher
}

func NewFreeRiderService(
	log *slog.Logger,
	projects repository.ProjectRepository,
	roster repository.RosterRepository,
	scores repository.ScoreRepository,
	cases repository.CaseRepository,
	cfg config.Scoring,
	dispatcher *Dispatcher,
) *FreeRiderServiceImpl {
	return &FreeRiderServiceImpl{
		log:        log,
		projects:   projects,
		roster:     roster,
		scores:     scores,
		cases:      cases,
		cfg:        cfg,
		dispatcher: dispatcher,
	}
}

// Detect compares members against the mean of their own group, not of the
// whole project, so an unevenly skilled cohort does not flag an entire weak
// group. Detection is advisory: it only opens PENDING cases for human
// review and never mutates scores.
func (s *FreeRiderServiceImpl) Detect(ctx context.Context, projectID int64) (*api.DetectionResult, error) {
	const op = "internal.service.freerider.Detect"
	log := s.log.With(slog.String("op", op), slog.Int64("project_id", projectID))

	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.GetProjectByID failed: %w", op, err)
	}

	groups, err := s.roster.GetGroupsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.GetGroupsByProject failed: %w", op, err)
	}

	params := scoring.DetectionParams{
		MinCommits:   s.cfg.MinCommits,
		MaxLateTasks: s.cfg.MaxLateTasks,
		MinTaskScore: s.cfg.MinTaskScore,
	}

	now := time.Now().UTC()
	result := &api.DetectionResult{ProjectID: projectID}

	for _, group := range groups {
		result.GroupsScanned++

		memberIDs := make([]string, 0, len(group.Members))
		for _, m := range group.Members {
			memberIDs = append(memberIDs, m.ID)
		}

		groupScores, err := s.scores.ListScoresByUsers(ctx, projectID, memberIDs)
		if err != nil {
			return nil, fmt.Errorf("%s: repo.ListScoresByUsers failed: %w", op, err)
		}

		candidates := scoring.DetectCandidates(groupScores, project.FreeRiderThreshold, params, now)

		for _, candidate := range candidates {
			created, skipped, err := s.openCase(ctx, project, group.ID, candidate, now)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}

			if skipped {
				result.ExistingOpen++

				continue
			}

			result.NewCases = append(result.NewCases, toAPICase(*created))
		}
	}

	log.Info("detection pass finished",
		slog.Int("groups_scanned", result.GroupsScanned),
		slog.Int("new_cases", len(result.NewCases)),
		slog.Int("existing_open", result.ExistingOpen),
	)

	return result, nil
}

// openCase creates one PENDING case unless the member already has an open
// one. The partial unique index backs the same rule in the database, so a
// concurrent detection pass losing the race is treated as the skip path.
func (s *FreeRiderServiceImpl) openCase(
	ctx context.Context,
	project *domain.Project,
	groupID int64,
	candidate scoring.Candidate,
	now time.Time,
) (*domain.FreeRiderCase, bool, error) {
	const op = "internal.service.freerider.openCase"

	studentID := candidate.Score.UserID

	if _, err := s.cases.GetOpenCase(ctx, project.ID, studentID); err == nil {
		return nil, true, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, fmt.Errorf("%s: repo.GetOpenCase failed: %w", op, err)
	}

	evidence, err := scoring.MarshalEvidence(candidate.Evidence)
	if err != nil {
		return nil, false, fmt.Errorf("%s: failed to marshal evidence: %w", op, err)
	}

	created, err := s.cases.CreateCase(ctx, domain.FreeRiderCase{
		StudentID:  studentID,
		ProjectID:  project.ID,
		GroupID:    groupID,
		Status:     domain.CaseStatusPending,
		Evidence:   evidence,
		DetectedAt: now,
	})
	if err != nil {
		var alreadyOpen *apperrors.CaseAlreadyOpenError
		if errors.As(err, &alreadyOpen) {
			return nil, true, nil
		}

		return nil, false, fmt.Errorf("%s: repo.CreateCase failed: %w", op, err)
	}

	s.dispatcher.Dispatch(api.NotificationEvent{
		Type:      api.EventCaseCreated,
		ProjectID: project.ID,
		UserID:    studentID,
		Message: fmt.Sprintf("%s was flagged for review: score %.1f against group mean %.1f",
			studentID, candidate.Evidence.CalculatedScore, candidate.Evidence.GroupMeanScore),
		OccurredAt: now,
	})

	return created, false, nil
}

func (s *FreeRiderServiceImpl) ListCases(ctx context.Context, projectID int64) ([]api.FreeRiderCaseDTO, error) {
	const op = "internal.service.freerider.ListCases"

	cases, err := s.cases.ListCasesByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.ListCasesByProject failed: %w", op, err)
	}

	dtos := make([]api.FreeRiderCaseDTO, 0, len(cases))
	for _, c := range cases {
		dtos = append(dtos, toAPICase(c))
	}

	return dtos, nil
}

func (s *FreeRiderServiceImpl) ContactCase(ctx context.Context, caseID int64, notes string) (*api.FreeRiderCaseDTO, error) {
	const op = "internal.service.freerider.ContactCase"

	return s.transitionCase(ctx, op, caseID, domain.CaseStatusContacted, func(c *domain.FreeRiderCase, now time.Time) {
		c.ContactedAt = &now
		if notes != "" {
			c.Notes = &notes
		}
	})
}

func (s *FreeRiderServiceImpl) ResolveCase(ctx context.Context, caseID int64, resolution string) (*api.FreeRiderCaseDTO, error) {
	const op = "internal.service.freerider.ResolveCase"

	return s.transitionCase(ctx, op, caseID, domain.CaseStatusResolved, func(c *domain.FreeRiderCase, now time.Time) {
		c.Resolution = &resolution
		c.ResolvedAt = &now
	})
}

func (s *FreeRiderServiceImpl) DismissCase(ctx context.Context, caseID int64, resolution string) (*api.FreeRiderCaseDTO, error) {
	const op = "internal.service.freerider.DismissCase"

	return s.transitionCase(ctx, op, caseID, domain.CaseStatusDismissed, func(c *domain.FreeRiderCase, now time.Time) {
		c.Resolution = &resolution
		c.ResolvedAt = &now
	})
}

// transitionCase loads the case, validates the lifecycle move, applies the
// mutation and persists it.
func (s *FreeRiderServiceImpl) transitionCase(
	ctx context.Context,
	op string,
	caseID int64,
	to domain.CaseStatus,
	mutate func(c *domain.FreeRiderCase, now time.Time),
) (*api.FreeRiderCaseDTO, error) {
	log := s.log.With(slog.String("op", op), slog.Int64("case_id", caseID))

	c, err := s.cases.GetCaseByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.GetCaseByID failed: %w", op, err)
	}

	if c.Status.Terminal() {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrCaseTerminal)
	}

	if !scoring.CanTransitionCase(c.Status, to) {
		return nil, fmt.Errorf("%s: %s -> %s: %w", op, c.Status, to, apperrors.ErrInvalidCaseTransition)
	}

	from := c.Status
	c.Status = to
	mutate(c, time.Now().UTC())

	updated, err := s.cases.UpdateCase(ctx, *c)
	if err != nil {
		log.Error("failed to persist case transition", sl.Err(err))

		return nil, fmt.Errorf("%s: repo.UpdateCase failed: %w", op, err)
	}

	log.Info("case transitioned", slog.String("from", string(from)), slog.String("to", string(to)))

	dto := toAPICase(*updated)

	return &dto, nil
}

func toAPICase(c domain.FreeRiderCase) api.FreeRiderCaseDTO {
	return api.FreeRiderCaseDTO{
		CaseID:      c.ID,
		StudentID:   c.StudentID,
		ProjectID:   c.ProjectID,
		GroupID:     c.GroupID,
		Status:      string(c.Status),
		StatusLabel: c.Status.Label(),
		Resolution:  c.Resolution,
		Notes:       c.Notes,
		Evidence:    c.Evidence,
		DetectedAt:  c.DetectedAt,
		ContactedAt: c.ContactedAt,
		ResolvedAt:  c.ResolvedAt,
	}
}
