package service

import (
	"context"
	"testing"
	"time"

	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/atarasenko/contribution-service/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPressureService(
	projectMock *ProjectRepositoryMock,
	rosterMock *RosterRepositoryMock,
	taskMock *TaskRepositoryMock,
	notifierMock *NotifierMock,
) *PressureServiceImpl {
	log := newTestLogger()
	dispatcher := NewDispatcher(notifierMock, log, testNotifierConfig())

	return NewPressureService(log, projectMock, rosterMock, taskMock, testScoringConfig(), dispatcher)
}

func TestPressureServiceImpl_UserPressure(t *testing.T) {
	ctx := context.Background()

	t.Run("Safe: light load stays under the threshold", func(t *testing.T) {
		projectMock := new(ProjectRepositoryMock)
		taskMock := new(TaskRepositoryMock)

		projectMock.On("GetProjectByID", mock.Anything, int64(1)).Return(testProject(), nil)
		taskMock.On("GetActiveTasksByAssignee", mock.Anything, int64(1), "u1").Return([]domain.Task{
			{ID: 1, AssigneeID: "u1", Difficulty: domain.DifficultyEasy,
				Deadline: time.Now().Add(30 * 24 * time.Hour), Status: domain.TaskStatusTodo},
		}, nil)

		svc := newPressureService(projectMock, new(RosterRepositoryMock), taskMock, new(NotifierMock))

		resp, err := svc.UserPressure(ctx, 1, "u1")

		require.NoError(t, err)
		assert.Equal(t, string(domain.PressureSafe), resp.Status)
		assert.Equal(t, "Safe", resp.StatusLabel)
	})

	t.Run("Overloaded: threshold breach fires a notification", func(t *testing.T) {
		projectMock := new(ProjectRepositoryMock)
		taskMock := new(TaskRepositoryMock)
		notifierMock := new(NotifierMock)

		// Six overdue hard tasks: 6 * 3 * 3 = 54, far over the threshold
		// of 15.
		overdue := time.Now().Add(-24 * time.Hour)
		tasks := make([]domain.Task, 0, 6)
		for i := int64(1); i <= 6; i++ {
			tasks = append(tasks, domain.Task{
				ID: i, AssigneeID: "u1", Difficulty: domain.DifficultyHard,
				Deadline: overdue, Status: domain.TaskStatusInProgress,
			})
		}

		projectMock.On("GetProjectByID", mock.Anything, int64(1)).Return(testProject(), nil)
		taskMock.On("GetActiveTasksByAssignee", mock.Anything, int64(1), "u1").Return(tasks, nil)

		done := make(chan api.NotificationEvent, 1)
		notifierMock.On("Notify", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				done <- args.Get(1).(api.NotificationEvent)
			}).Return(nil)

		svc := newPressureService(projectMock, new(RosterRepositoryMock), taskMock, notifierMock)

		resp, err := svc.UserPressure(ctx, 1, "u1")

		require.NoError(t, err)
		assert.Equal(t, string(domain.PressureOverloaded), resp.Status)
		assert.InDelta(t, 54.0, resp.TMPS, 0.001)

		select {
		case event := <-done:
			assert.Equal(t, api.EventUserOverloaded, event.Type)
			assert.Equal(t, "u1", event.UserID)
		case <-time.After(2 * time.Second):
			t.Fatal("overload notification was not dispatched")
		}
	})

	t.Run("Completed tasks do not contribute pressure", func(t *testing.T) {
		projectMock := new(ProjectRepositoryMock)
		taskMock := new(TaskRepositoryMock)

		projectMock.On("GetProjectByID", mock.Anything, int64(1)).Return(testProject(), nil)
		taskMock.On("GetActiveTasksByAssignee", mock.Anything, int64(1), "u1").Return([]domain.Task{}, nil)

		svc := newPressureService(projectMock, new(RosterRepositoryMock), taskMock, new(NotifierMock))

		resp, err := svc.UserPressure(ctx, 1, "u1")

		require.NoError(t, err)
		assert.Zero(t, resp.TMPS)
		assert.Equal(t, string(domain.PressureSafe), resp.Status)
	})
}

func TestPressureServiceImpl_GroupPressure(t *testing.T) {
	ctx := context.Background()

	projectMock := new(ProjectRepositoryMock)
	rosterMock := new(RosterRepositoryMock)
	taskMock := new(TaskRepositoryMock)

	projectMock.On("GetProjectByID", mock.Anything, int64(1)).Return(testProject(), nil)
	rosterMock.On("GetGroupWithMembers", mock.Anything, int64(10)).Return(&domain.GroupWithMembers{
		Group:   domain.Group{ID: 10, ProjectID: 1, Name: "team-a"},
		Members: []domain.User{{ID: "u1"}, {ID: "u2"}},
	}, nil)
	taskMock.On("GetActiveTasksByAssignee", mock.Anything, int64(1), "u1").Return([]domain.Task{}, nil)
	taskMock.On("GetActiveTasksByAssignee", mock.Anything, int64(1), "u2").Return([]domain.Task{}, nil)

	svc := newPressureService(projectMock, rosterMock, taskMock, new(NotifierMock))

	resp, err := svc.GroupPressure(ctx, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.GroupID)
	require.Len(t, resp.Members, 2)
	taskMock.AssertExpectations(t)
}
