package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAdminGeneratesPassword(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	admin, generated, err := svc.EnsureAdmin(ctx, "Admin", "")
	require.NoError(t, err)
	assert.Len(t, generated, 16)
	assert.Equal(t, "admin", admin.Login)
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.MustChangePassword)

	usr, err := svc.Authenticate(ctx, "admin", generated)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, usr.ID)

	again, regenerated, err := svc.EnsureAdmin(ctx, "admin", "")
	require.NoError(t, err)
	assert.Empty(t, regenerated)
	assert.Equal(t, admin.ID, again.ID)
}

func TestEnsureAdminConfiguredPassword(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	admin, generated, err := svc.EnsureAdmin(ctx, "root", "configured")
	require.NoError(t, err)
	assert.Empty(t, generated)
	assert.True(t, admin.MustChangePassword)

	_, err = svc.Authenticate(ctx, "root", "configured")
	require.NoError(t, err)
}
