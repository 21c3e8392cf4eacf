package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnold/taskboard/internal/testutil"
)

func TestCreateGroup(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "  Night owls ")
	require.NoError(t, err)
	assert.NotEmpty(t, group.ID)
	assert.Equal(t, "Night owls", group.Name)

	_, err = svc.CreateGroup(ctx, "   ")
	assert.True(t, IsValidation(err))
}

func TestDeleteGroupKeepsMembers(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	readers := testutil.CreateGroup(t, db, "Readers")
	runners := testutil.CreateGroup(t, db, "Runners")
	alice := testutil.CreateUser(t, db, "Alice", "alice", "secret1", &readers.ID)
	bob := testutil.CreateUser(t, db, "Bob", "bob", "secret1", &readers.ID)
	carol := testutil.CreateUser(t, db, "Carol", "carol", "secret1", &runners.ID)

	require.NoError(t, svc.DeleteGroup(ctx, readers.ID))

	for _, id := range []string{alice.ID, bob.ID} {
		usr, err := svc.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, usr.GroupID)
	}
	usr, err := svc.GetUser(ctx, carol.ID)
	require.NoError(t, err)
	require.NotNil(t, usr.GroupID)
	assert.Equal(t, runners.ID, *usr.GroupID)

	groups, err := svc.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, runners.ID, groups[0].ID)

	assert.ErrorIs(t, svc.DeleteGroup(ctx, readers.ID), ErrGroupNotFound)
}
