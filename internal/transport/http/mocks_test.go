package http

import (
	"context"

	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/atarasenko/contribution-service/pkg/api"
	"github.com/stretchr/testify/mock"
)

type ProjectServiceMock struct {
	mock.Mock
}

func (m *ProjectServiceMock) CreateProject(ctx context.Context, p api.Project) (*api.Project, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Project), args.Error(1)
}

func (m *ProjectServiceMock) GetProject(ctx context.Context, projectID int64) (*api.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Project), args.Error(1)
}

func (m *ProjectServiceMock) RegisterUsers(ctx context.Context, users []domain.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

func (m *ProjectServiceMock) CreateGroup(ctx context.Context, group domain.Group, memberIDs []string) (*domain.GroupWithMembers, error) {
	args := m.Called(ctx, group, memberIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.GroupWithMembers), args.Error(1)
}

func (m *ProjectServiceMock) GetGroup(ctx context.Context, groupID int64) (*domain.GroupWithMembers, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.GroupWithMembers), args.Error(1)
}

type TaskServiceMock struct {
	mock.Mock
}

func (m *TaskServiceMock) SyncTasks(ctx context.Context, snapshots []api.TaskSnapshot) error {
	args := m.Called(ctx, snapshots)
	return args.Error(0)
}

type CommitServiceMock struct {
	mock.Mock
}

func (m *CommitServiceMock) IngestCommits(ctx context.Context, projectID int64, entries []api.CommitFeedEntry) (*api.CommitIngestResult, error) {
	args := m.Called(ctx, projectID, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.CommitIngestResult), args.Error(1)
}

func (m *CommitServiceMock) ReresolveCommits(ctx context.Context, projectID int64) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

func (m *CommitServiceMock) ListCommits(ctx context.Context, projectID int64) ([]domain.CommitRecord, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.CommitRecord), args.Error(1)
}

type ReviewServiceMock struct {
	mock.Mock
}

func (m *ReviewServiceMock) SubmitReview(ctx context.Context, submission api.PeerReviewSubmission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

type RecomputeServiceMock struct {
	mock.Mock
}

func (m *RecomputeServiceMock) RecomputeProject(ctx context.Context, projectID int64) (*api.RecomputeResult, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.RecomputeResult), args.Error(1)
}

type ScoreServiceMock struct {
	mock.Mock
}

func (m *ScoreServiceMock) GetUserScore(ctx context.Context, projectID int64, userID string) (*api.ContributionScoreResponse, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.ContributionScoreResponse), args.Error(1)
}

func (m *ScoreServiceMock) GetProjectScores(ctx context.Context, projectID int64) (*api.ProjectScoresResponse, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.ProjectScoresResponse), args.Error(1)
}

func (m *ScoreServiceMock) AdjustScore(ctx context.Context, projectID int64, userID string, adjusted float64, reason string) (*api.ContributionScoreResponse, error) {
	args := m.Called(ctx, projectID, userID, adjusted, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.ContributionScoreResponse), args.Error(1)
}

func (m *ScoreServiceMock) ClearAdjustment(ctx context.Context, projectID int64, userID string) (*api.ContributionScoreResponse, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.ContributionScoreResponse), args.Error(1)
}

type PressureServiceMock struct {
	mock.Mock
}

func (m *PressureServiceMock) UserPressure(ctx context.Context, projectID int64, userID string) (*api.PressureScoreResponse, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.PressureScoreResponse), args.Error(1)
}

func (m *PressureServiceMock) GroupPressure(ctx context.Context, projectID, groupID int64) (*api.GroupPressureResponse, error) {
	args := m.Called(ctx, projectID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.GroupPressureResponse), args.Error(1)
}

type FreeRiderServiceMock struct {
	mock.Mock
}

func (m *FreeRiderServiceMock) Detect(ctx context.Context, projectID int64) (*api.DetectionResult, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.DetectionResult), args.Error(1)
}

func (m *FreeRiderServiceMock) ListCases(ctx context.Context, projectID int64) ([]api.FreeRiderCaseDTO, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.FreeRiderCaseDTO), args.Error(1)
}

func (m *FreeRiderServiceMock) ContactCase(ctx context.Context, caseID int64, notes string) (*api.FreeRiderCaseDTO, error) {
	args := m.Called(ctx, caseID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.FreeRiderCaseDTO), args.Error(1)
}

func (m *FreeRiderServiceMock) ResolveCase(ctx context.Context, caseID int64, resolution string) (*api.FreeRiderCaseDTO, error) {
	args := m.Called(ctx, caseID, resolution)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.FreeRiderCaseDTO), args.Error(1)
}

func (m *FreeRiderServiceMock) DismissCase(ctx context.Context, caseID int64, resolution string) (*api.FreeRiderCaseDTO, error) {
	args := m.Called(ctx, caseID, resolution)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.FreeRiderCaseDTO), args.Error(1)
}
