//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterRepository_GroupRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	projectID, groupID := seedProjectWithGroup(t)

	repo := NewRosterRepository(testDB, logger)
	ctx := context.Background()

	group, err := repo.GetGroupWithMembers(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, "team-a", group.Name)
	assert.Len(t, group.Members, 3)

	groups, err := repo.GetGroupsByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, groupID, groups[0].ID)

	roster, err := repo.GetProjectRoster(ctx, projectID)
	require.NoError(t, err)
	assert.Len(t, roster, 3)
}
