package service

import (
	"context"
	"time"

	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/atarasenko/contribution-service/internal/repository"
	"github.com/atarasenko/contribution-service/pkg/api"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type ProjectRepositoryMock struct {
	mock.Mock
}

var _ repository.ProjectRepository = (*ProjectRepositoryMock)(nil)

func (m *ProjectRepositoryMock) CreateProject(ctx context.Context, p domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *ProjectRepositoryMock) GetProjectByID(ctx context.Context, projectID int64) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Project), args.Error(1)
}

type RosterRepositoryMock struct {
	mock.Mock
}

var _ repository.RosterRepository = (*RosterRepositoryMock)(nil)

func (m *RosterRepositoryMock) UpsertUsers(ctx context.Context, users []domain.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

func (m *RosterRepositoryMock) CreateGroupWithMembers(ctx context.Context, group domain.Group, memberIDs []string) (*domain.GroupWithMembers, error) {
	args := m.Called(ctx, group, memberIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.GroupWithMembers), args.Error(1)
}

func (m *RosterRepositoryMock) GetGroupWithMembers(ctx context.Context, groupID int64) (*domain.GroupWithMembers, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.GroupWithMembers), args.Error(1)
}

func (m *RosterRepositoryMock) GetGroupsByProject(ctx context.Context, projectID int64) ([]domain.GroupWithMembers, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.GroupWithMembers), args.Error(1)
}

func (m *RosterRepositoryMock) GetProjectRoster(ctx context.Context, projectID int64) ([]domain.User, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.User), args.Error(1)
}

type TaskRepositoryMock struct {
	mock.Mock
}

var _ repository.TaskRepository = (*TaskRepositoryMock)(nil)

func (m *TaskRepositoryMock) UpsertTasks(ctx context.Context, tasks []domain.Task) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

func (m *TaskRepositoryMock) GetTasksByAssignee(ctx context.Context, projectID int64, userID string) ([]domain.Task, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *TaskRepositoryMock) GetActiveTasksByAssignee(ctx context.Context, projectID int64, userID string) ([]domain.Task, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Task), args.Error(1)
}

type CommitRepositoryMock struct {
	mock.Mock
}

var _ repository.CommitRepository = (*CommitRepositoryMock)(nil)

func (m *CommitRepositoryMock) InsertCommit(ctx context.Context, rec domain.CommitRecord) (*domain.CommitRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.CommitRecord), args.Error(1)
}

func (m *CommitRepositoryMock) UpdateResolution(ctx context.Context, recordID int64, resolvedUserID *string, isValid bool) error {
	args := m.Called(ctx, recordID, resolvedUserID, isValid)
	return args.Error(0)
}

func (m *CommitRepositoryMock) CountValidCommits(ctx context.Context, projectID int64, userID string, cutoff time.Time) (int, error) {
	args := m.Called(ctx, projectID, userID, cutoff)
	return args.Int(0), args.Error(1)
}

func (m *CommitRepositoryMock) ListCommitsByProject(ctx context.Context, projectID int64) ([]domain.CommitRecord, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.CommitRecord), args.Error(1)
}

type ReviewRepositoryMock struct {
	mock.Mock
}

var _ repository.ReviewRepository = (*ReviewRepositoryMock)(nil)

func (m *ReviewRepositoryMock) UpsertReview(ctx context.Context, review domain.PeerReview) (*domain.PeerReview, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeerReview), args.Error(1)
}

func (m *ReviewRepositoryMock) GetReceivedReviews(ctx context.Context, projectID int64, revieweeID string) ([]domain.PeerReview, error) {
	args := m.Called(ctx, projectID, revieweeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.PeerReview), args.Error(1)
}

type ScoreRepositoryMock struct {
	mock.Mock
}

var _ repository.ScoreRepository = (*ScoreRepositoryMock)(nil)

func (m *ScoreRepositoryMock) GetScore(ctx context.Context, projectID int64, userID string) (*domain.ContributionScore, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ContributionScore), args.Error(1)
}

func (m *ScoreRepositoryMock) GetScoreForUpdate(ctx context.Context, tx *sqlx.Tx, projectID int64, userID string) (*domain.ContributionScore, error) {
	args := m.Called(ctx, tx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ContributionScore), args.Error(1)
}

func (m *ScoreRepositoryMock) UpsertScore(ctx context.Context, ext sqlx.ExtContext, score domain.ContributionScore) (*domain.ContributionScore, error) {
	args := m.Called(ctx, ext, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ContributionScore), args.Error(1)
}

func (m *ScoreRepositoryMock) ListScoresByProject(ctx context.Context, projectID int64) ([]domain.ContributionScore, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ContributionScore), args.Error(1)
}

func (m *ScoreRepositoryMock) ListScoresByUsers(ctx context.Context, projectID int64, userIDs []string) ([]domain.ContributionScore, error) {
	args := m.Called(ctx, projectID, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ContributionScore), args.Error(1)
}

type CaseRepositoryMock struct {
	mock.Mock
}

var _ repository.CaseRepository = (*CaseRepositoryMock)(nil)

func (m *CaseRepositoryMock) CreateCase(ctx context.Context, c domain.FreeRiderCase) (*domain.FreeRiderCase, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.FreeRiderCase), args.Error(1)
}

func (m *CaseRepositoryMock) GetCaseByID(ctx context.Context, caseID int64) (*domain.FreeRiderCase, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.FreeRiderCase), args.Error(1)
}

func (m *CaseRepositoryMock) GetOpenCase(ctx context.Context, projectID int64, studentID string) (*domain.FreeRiderCase, error) {
	args := m.Called(ctx, projectID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.FreeRiderCase), args.Error(1)
}

func (m *CaseRepositoryMock) ListCasesByProject(ctx context.Context, projectID int64) ([]domain.FreeRiderCase, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.FreeRiderCase), args.Error(1)
}

func (m *CaseRepositoryMock) UpdateCase(ctx context.Context, c domain.FreeRiderCase) (*domain.FreeRiderCase, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.FreeRiderCase), args.Error(1)
}

type NotifierMock struct {
	mock.Mock
}

var _ Notifier = (*NotifierMock)(nil)

func (m *NotifierMock) Notify(ctx context.Context, event api.NotificationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
