//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/atarasenko/contribution-service/internal/apperrors"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedProjectWithGroup inserts a project, three users, and a group holding
// them, returning the project and group IDs.
func seedProjectWithGroup(t *testing.T) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	projectRepo := NewProjectRepository(testDB, logger)
	rosterRepo := NewRosterRepository(testDB, logger)

	project, err := projectRepo.CreateProject(ctx, domain.Project{
		Name:               "course-project",
		WeightTask:         0.4,
		WeightReview:       0.3,
		WeightCommit:       0.3,
		WeightLate:         1.0,
		FreeRiderThreshold: 0.6,
		PressureThreshold:  15,
		MaxMembers:         6,
		CommitBaseline:     20,
	})
	require.NoError(t, err)

	users := []domain.User{
		{ID: "u1", Username: "alice", Email: "alice@university.edu", FullName: "Alice Smith"},
		{ID: "u2", Username: "bob", Email: "bob@university.edu", FullName: "Bob Jones"},
		{ID: "u3", Username: "carol", Email: "carol@university.edu", FullName: "Carol White"},
	}
	require.NoError(t, rosterRepo.UpsertUsers(ctx, users))

	group, err := rosterRepo.CreateGroupWithMembers(ctx,
		domain.Group{ProjectID: project.ID, Name: "team-a"},
		[]string{"u1", "u2", "u3"})
	require.NoError(t, err)

	return project.ID, group.ID
}

func TestScoreRepository_UpsertScore_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	projectID, _ := seedProjectWithGroup(t)

	repo := NewScoreRepository(testDB, logger)
	ctx := context.Background()

	_, err := repo.GetScore(ctx, projectID, "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	saved, err := repo.UpsertScore(ctx, testDB, domain.ContributionScore{
		UserID:              "u1",
		ProjectID:           projectID,
		TaskCompletionScore: 72.5,
		PeerReviewScore:     80,
		CommitCount:         12,
		LateTaskCount:       1,
		CalculatedScore:     68.4,
		UpdatedAt:           time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, 12, saved.CommitCount)
	assert.False(t, saved.IsFinal)

	// a second upsert for the same (user, project) must update in place
	adjusted := 85.0
	reason := "instructor review"
	updated, err := repo.UpsertScore(ctx, testDB, domain.ContributionScore{
		UserID:           "u1",
		ProjectID:        projectID,
		CalculatedScore:  68.4,
		AdjustedScore:    &adjusted,
		AdjustmentReason: &reason,
		IsFinal:          true,
		UpdatedAt:        time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.True(t, updated.IsFinal)
	require.NotNil(t, updated.AdjustedScore)
	assert.Equal(t, 85.0, *updated.AdjustedScore)

	fetched, err := repo.GetScore(ctx, projectID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 85.0, fetched.EffectiveScore())
}

func TestScoreRepository_ListScoresByUsers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	projectID, _ := seedProjectWithGroup(t)

	repo := NewScoreRepository(testDB, logger)
	ctx := context.Background()

	for i, userID := range []string{"u1", "u2", "u3"} {
		_, err := repo.UpsertScore(ctx, testDB, domain.ContributionScore{
			UserID:          userID,
			ProjectID:       projectID,
			CalculatedScore: float64(50 + i*10),
			UpdatedAt:       time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	scores, err := repo.ListScoresByUsers(ctx, projectID, []string{"u1", "u3"})
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "u1", scores[0].UserID)
	assert.Equal(t, "u3", scores[1].UserID)

	scores, err = repo.ListScoresByUsers(ctx, projectID, nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
}
