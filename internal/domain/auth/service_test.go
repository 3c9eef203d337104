package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowpro/internal/platform/recordstore"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := recordstore.New(recordstore.NewMemoryBackend(), recordstore.WithSeed(nil))
	require.NoError(t, err)
	return NewService(store, "test-secret", time.Hour, RoleAdmin)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, err := svc.EnsureAccount(ctx, " HR@Workflow.pro ", "pass-123", RoleHRAdmin, "1")
	require.NoError(t, err)

	token, account, err := svc.Login(ctx, "hr@workflow.pro", "pass-123")
	require.NoError(t, err)
	assert.Equal(t, "hr@workflow.pro", account.Email)

	user, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, RoleHRAdmin, user.Role)
	assert.Equal(t, "1", user.EmployeeID)
	assert.True(t, user.Authenticated)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, err := svc.EnsureAccount(ctx, "a@workflow.pro", "right", RoleUser, "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@workflow.pro", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@workflow.pro", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureAccountIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	first, err := svc.EnsureAccount(ctx, "a@workflow.pro", "one", RoleAdmin, "")
	require.NoError(t, err)
	second, err := svc.EnsureAccount(ctx, "a@workflow.pro", "two", RoleUser, "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, RoleAdmin, second.AccessLevel)

	_, err = svc.EnsureAccount(ctx, "b@workflow.pro", "x", "Root", "")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestCurrentRoleDefaultsAndPersists(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	role, err := svc.CurrentRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	require.NoError(t, svc.SetCurrentRole(ctx, RoleDeveloper))
	role, err = svc.CurrentRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, RoleDeveloper, role)

	assert.ErrorIs(t, svc.SetCurrentRole(ctx, "Owner"), ErrInvalidRole)
}
