package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atarasenko/contribution-service/internal/config"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/atarasenko/contribution-service/internal/repository"
	"github.com/atarasenko/contribution-service/internal/scoring"
	"github.com/atarasenko/contribution-service/pkg/api"
)

type PressureService interface {
	// UserPressure classifies one member's current active task load against
	// the project's pressure threshold.
	UserPressure(ctx context.Context, projectID int64, userID string) (*api.PressureScoreResponse, error)

	// GroupPressure classifies every member of a group.
	GroupPressure(ctx context.Context, projectID, groupID int64) (*api.GroupPressureResponse, error)
}

type PressureServiceImpl struct {
	log        *slog.Logger
	projects   repository.ProjectRepository
	roster     repository.RosterRepository
	tasks      repository.TaskRepository
	cfg        config.Scoring
	dispatcher *Dispatcher
}

func NewPressureService(
	log *slog.Logger,
	projects repository.ProjectRepository,
	roster repository.RosterRepository,
	tasks repository.TaskRepository,
	cfg config.Scoring,
	dispatcher *Dispatcher,
) *PressureServiceImpl {
	return &PressureServiceImpl{
		log:        log,
		projects:   projects,
		roster:     roster,
		tasks:      tasks,
		cfg:        cfg,
		dispatcher: dispatcher,
	}
}

func (s *PressureServiceImpl) UserPressure(ctx context.Context, projectID int64, userID string) (*api.PressureScoreResponse, error) {
	const op = "internal.service.pressure.UserPressure"

	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.GetProjectByID failed: %w", op, err)
	}

	result, err := s.classify(ctx, project, userID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := toAPIPressure(result)

	return &resp, nil
}

func (s *PressureServiceImpl) GroupPressure(ctx context.Context, projectID, groupID int64) (*api.GroupPressureResponse, error) {
	const op = "internal.service.pressure.GroupPressure"

	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.GetProjectByID failed: %w", op, err)
	}

	group, err := s.roster.GetGroupWithMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.GetGroupWithMembers failed: %w", op, err)
	}

	// same observation instant for every member, so the group view is
	// internally consistent
	now := time.Now().UTC()

	resp := &api.GroupPressureResponse{
		GroupID: groupID,
		Members: make([]api.PressureScoreResponse, 0, len(group.Members)),
	}

	for _, member := range group.Members {
		result, err := s.classify(ctx, project, member.ID, now)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		resp.Members = append(resp.Members, toAPIPressure(result))
	}

	return resp, nil
}

// classify runs the pressure pipeline for one user and fires an overload
// notification when the status warrants it. The notification is
// fire-and-forget; classification never fails on delivery problems.
func (s *PressureServiceImpl) classify(ctx context.Context, project *domain.Project, userID string, now time.Time) (domain.PressureResult, error) {
	const op = "internal.service.pressure.classify"

	tasks, err := s.tasks.GetActiveTasksByAssignee(ctx, project.ID, userID)
	if err != nil {
		return domain.PressureResult{}, fmt.Errorf("%s: repo.GetActiveTasksByAssignee failed: %w", op, err)
	}

	params := scoring.PressureParams{
		UrgencyMax:       s.cfg.UrgencyMax,
		UrgencyScaleDays: s.cfg.UrgencyScaleDays,
	}

	result := scoring.ClassifyUserPressure(userID, project.ID, tasks, now, params, project.PressureThreshold)

	if result.Status == domain.PressureOverloaded {
		s.log.Warn("member overloaded",
			slog.String("op", op),
			slog.Int64("project_id", project.ID),
			slog.String("user_id", userID),
			slog.Float64("tmps", result.TMPS),
		)

		s.dispatcher.Dispatch(api.NotificationEvent{
			Type:      api.EventUserOverloaded,
			ProjectID: project.ID,
			UserID:    userID,
			Message: fmt.Sprintf("%s is overloaded: pressure score %.1f is at %.0f%% of the threshold",
				userID, result.TMPS, result.ThresholdPercentage),
			OccurredAt: now,
		})
	}

	return result, nil
}

func toAPIPressure(r domain.PressureResult) api.PressureScoreResponse {
	return api.PressureScoreResponse{
		UserID:              r.UserID,
		ProjectID:           r.ProjectID,
		TMPS:                r.TMPS,
		Status:              string(r.Status),
		StatusLabel:         r.Status.Label(),
		ThresholdPercentage: r.ThresholdPercentage,
	}
}
