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

func TestCommitRepository_InsertAndCount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	projectID, _ := seedProjectWithGroup(t)

	repo := NewCommitRepository(testDB, logger)
	ctx := context.Background()

	u1 := "u1"
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	insert := func(commitID string, committedAt time.Time, resolved *string, valid bool) *domain.CommitRecord {
		t.Helper()
		rec, err := repo.InsertCommit(ctx, domain.CommitRecord{
			CommitID:    commitID,
			ProjectID:   projectID,
			AuthorName:  "Alice Smith",
			AuthorEmail: "alice@university.edu",
			Message:     "fix deadline parsing #42",
			Timestamp:      committedAt,
			ResolvedUserID: resolved,
			IsValid:        valid,
		})
		require.NoError(t, err)
		return rec
	}

	insert("aaa111", base, &u1, true)
	insert("bbb222", base.Add(24*time.Hour), &u1, true)
	insert("ccc333", base.Add(48*time.Hour), &u1, true)   // after the cutoff below
	insert("ddd444", base.Add(-time.Hour), nil, false)    // unmatched author

	// duplicate commit id for the same project
	_, err := repo.InsertCommit(ctx, domain.CommitRecord{
		CommitID:    "aaa111",
		ProjectID:   projectID,
		AuthorName:  "Alice Smith",
		AuthorEmail: "alice@university.edu",
		Message:     "replayed feed entry",
		Timestamp:   base,
	})
	require.Error(t, err)
	var dup *apperrors.CommitAlreadyExistsError
	assert.ErrorAs(t, err, &dup)

	cutoff := base.Add(36 * time.Hour)
	count, err := repo.CountValidCommits(ctx, projectID, u1, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.CountValidCommits(ctx, projectID, "u2", cutoff)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCommitRepository_UpdateResolution(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	projectID, _ := seedProjectWithGroup(t)

	repo := NewCommitRepository(testDB, logger)
	ctx := context.Background()

	rec, err := repo.InsertCommit(ctx, domain.CommitRecord{
		CommitID:    "eee555",
		ProjectID:   projectID,
		AuthorName:  "Bob Jones",
		AuthorEmail: "bob@university.edu",
		Message:     "wire pressure endpoint",
		Timestamp:   time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.False(t, rec.IsValid)
	assert.Nil(t, rec.ResolvedUserID)

	u2 := "u2"
	require.NoError(t, repo.UpdateResolution(ctx, rec.ID, &u2, true))

	commits, err := repo.ListCommitsByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.True(t, commits[0].IsValid)
	require.NotNil(t, commits[0].ResolvedUserID)
	assert.Equal(t, "u2", *commits[0].ResolvedUserID)
}
