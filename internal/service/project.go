package service

import (
	"context"
	"fmt"

	"github.com/atarasenko/contribution-service/internal/apperrors"
	"github.com/atarasenko/contribution-service/internal/config"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/atarasenko/contribution-service/internal/repository"
	"github.com/atarasenko/contribution-service/pkg/api"
)

type ProjectService interface {
	CreateProject(ctx context.Context, p api.Project) (*api.Project, error)
	GetProject(ctx context.Context, projectID int64) (*api.Project, error)
	RegisterUsers(ctx context.Context, users []domain.User) error
	CreateGroup(ctx context.Context, group domain.Group, memberIDs []string) (*domain.GroupWithMembers, error)
	GetGroup(ctx context.Context, groupID int64) (*domain.GroupWithMembers, error)
}

type ProjectServiceImpl struct {
	projects repository.ProjectRepository
	roster   repository.RosterRepository
	defaults config.Scoring
}

func NewProjectService(
	projects repository.ProjectRepository,
	roster repository.RosterRepository,
	defaults config.Scoring,
) *ProjectServiceImpl {
	return &ProjectServiceImpl{
		projects: projects,
		roster:   roster,
		defaults: defaults,
	}
}

func (s *ProjectServiceImpl) CreateProject(ctx context.Context, p api.Project) (*api.Project, error) {
	const op = "internal.service.project.CreateProject"

	project := domain.Project{
		Name:               p.Name,
		WeightTask:         p.WeightTask,
		WeightReview:       p.WeightReview,
		WeightCommit:       p.WeightCommit,
		WeightLate:         p.WeightLate,
		FreeRiderThreshold: p.FreeRiderThreshold,
		PressureThreshold:  p.PressureThreshold,
		MaxMembers:         p.MaxMembers,
		CommitBaseline:     p.CommitBaseline,
	}

	// Threshold fields have defaults; weights are validated at the transport
	// edge and stored as given.
	if project.FreeRiderThreshold == 0 {
		project.FreeRiderThreshold = 0.6
	}
	if project.PressureThreshold == 0 {
		project.PressureThreshold = 15
	}
	if project.MaxMembers == 0 {
		project.MaxMembers = 6
	}
	if project.CommitBaseline == 0 {
		project.CommitBaseline = s.defaults.CommitBaseline
	}

	created, err := s.projects.CreateProject(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.CreateProject failed: %w", op, err)
	}

	return toAPIProject(created), nil
}

func (s *ProjectServiceImpl) GetProject(ctx context.Context, projectID int64) (*api.Project, error) {
	const op = "internal.service.project.GetProject"

	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.GetProjectByID failed: %w", op, err)
	}

	return toAPIProject(project), nil
}

func (s *ProjectServiceImpl) RegisterUsers(ctx context.Context, users []domain.User) error {
	const op = "internal.service.project.RegisterUsers"

	if err := s.roster.UpsertUsers(ctx, users); err != nil {
		return fmt.Errorf("%s: repo.UpsertUsers failed: %w", op, err)
	}

	return nil
}

func (s *ProjectServiceImpl) CreateGroup(ctx context.Context, group domain.Group, memberIDs []string) (*domain.GroupWithMembers, error) {
	const op = "internal.service.project.CreateGroup"

	project, err := s.projects.GetProjectByID(ctx, group.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.GetProjectByID failed: %w", op, err)
	}

	if len(memberIDs) > project.MaxMembers {
		return nil, apperrors.ErrGroupFull
	}

	created, err := s.roster.CreateGroupWithMembers(ctx, group, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.CreateGroupWithMembers failed: %w", op, err)
	}

	return created, nil
}

func (s *ProjectServiceImpl) GetGroup(ctx context.Context, groupID int64) (*domain.GroupWithMembers, error) {
	const op = "internal.service.project.GetGroup"

	group, err := s.roster.GetGroupWithMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.GetGroupWithMembers failed: %w", op, err)
	}

	return group, nil
}

func toAPIProject(p *domain.Project) *api.Project {
	return &api.Project{
		ProjectID:          p.ID,
		Name:               p.Name,
		WeightTask:         p.WeightTask,
		WeightReview:       p.WeightReview,
		WeightCommit:       p.WeightCommit,
		WeightLate:         p.WeightLate,
		FreeRiderThreshold: p.FreeRiderThreshold,
		PressureThreshold:  p.PressureThreshold,
		MaxMembers:         p.MaxMembers,
		CommitBaseline:     p.CommitBaseline,
	}
}
