package service

import (
	"context"
	"testing"

	"github.com/atarasenko/contribution-service/internal/apperrors"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/atarasenko/contribution-service/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProjectServiceImpl_CreateProject(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: zero thresholds filled from defaults", func(t *testing.T) {
		projectMock := new(ProjectRepositoryMock)
		projectMock.On("CreateProject", mock.Anything, mock.MatchedBy(func(p domain.Project) bool {
			return p.FreeRiderThreshold == 0.6 && p.PressureThreshold == 15 &&
				p.MaxMembers == 6 && p.CommitBaseline == 20
		})).Return(testProject(), nil)

		svc := NewProjectService(projectMock, new(RosterRepositoryMock), testScoringConfig())

		created, err := svc.CreateProject(ctx, api.Project{
			Name:         "course-project",
			WeightTask:   0.4,
			WeightReview: 0.3,
			WeightCommit: 0.3,
			WeightLate:   1.0,
		})

		require.NoError(t, err)
		assert.Equal(t, "course-project", created.Name)
		projectMock.AssertExpectations(t)
	})

	t.Run("Failure: duplicate project name", func(t *testing.T) {
		projectMock := new(ProjectRepositoryMock)
		projectMock.On("CreateProject", mock.Anything, mock.Anything).
			Return(nil, &apperrors.ProjectAlreadyExistsError{ProjectName: "course-project"})

		svc := NewProjectService(projectMock, new(RosterRepositoryMock), testScoringConfig())

		created, err := svc.CreateProject(ctx, api.Project{Name: "course-project"})

		assert.Nil(t, created)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	})
}

func TestProjectServiceImpl_CreateGroup(t *testing.T) {
	ctx := context.Background()

	group := domain.Group{ProjectID: 1, Name: "team-a"}

	t.Run("Success: group within the member cap", func(t *testing.T) {
		projectMock := new(ProjectRepositoryMock)
		rosterMock := new(RosterRepositoryMock)

		projectMock.On("GetProjectByID", mock.Anything, int64(1)).Return(testProject(), nil)
		rosterMock.On("CreateGroupWithMembers", mock.Anything, group, []string{"u1", "u2"}).
			Return(&domain.GroupWithMembers{
				Group:   domain.Group{ID: 10, ProjectID: 1, Name: "team-a"},
				Members: []domain.User{{ID: "u1"}, {ID: "u2"}},
			}, nil)

		svc := NewProjectService(projectMock, rosterMock, testScoringConfig())

		created, err := svc.CreateGroup(ctx, group, []string{"u1", "u2"})

		require.NoError(t, err)
		assert.Equal(t, int64(10), created.ID)
		assert.Len(t, created.Members, 2)
	})

	t.Run("Failure: too many members", func(t *testing.T) {
		projectMock := new(ProjectRepositoryMock)
		rosterMock := new(RosterRepositoryMock)

		projectMock.On("GetProjectByID", mock.Anything, int64(1)).Return(testProject(), nil)

		svc := NewProjectService(projectMock, rosterMock, testScoringConfig())

		created, err := svc.CreateGroup(ctx, group, []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7"})

		assert.Nil(t, created)
		assert.ErrorIs(t, err, apperrors.ErrGroupFull)
		rosterMock.AssertNotCalled(t, "CreateGroupWithMembers", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReviewServiceImpl_SubmitReview(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: review stored", func(t *testing.T) {
		reviewMock := new(ReviewRepositoryMock)
		reviewMock.On("UpsertReview", mock.Anything, mock.MatchedBy(func(r domain.PeerReview) bool {
			return r.ReviewerID == "u1" && r.RevieweeID == "u2" && r.ReviewWeek == 3
		})).Return(&domain.PeerReview{ID: 1, ReviewerID: "u1", RevieweeID: "u2", ReviewWeek: 3}, nil)

		svc := NewReviewService(newTestLogger(), reviewMock)

		err := svc.SubmitReview(ctx, api.PeerReviewSubmission{
			ProjectID:        1,
			ReviewerID:       "u1",
			RevieweeID:       "u2",
			CompletionScore:  4,
			CooperationScore: 5,
			ReviewWeek:       3,
		})

		require.NoError(t, err)
		reviewMock.AssertExpectations(t)
	})

	t.Run("Failure: self-review rejected", func(t *testing.T) {
		reviewMock := new(ReviewRepositoryMock)

		svc := NewReviewService(newTestLogger(), reviewMock)

		err := svc.SubmitReview(ctx, api.PeerReviewSubmission{
			ProjectID:  1,
			ReviewerID: "u1",
			RevieweeID: "u1",
		})

		assert.ErrorIs(t, err, apperrors.ErrSelfReview)
		reviewMock.AssertNotCalled(t, "UpsertReview", mock.Anything, mock.Anything)
	})
}
