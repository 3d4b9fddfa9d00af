package services

import (
	"context"
	"testing"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/auth"
	"workforce-ops-api-server/internal/logger"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *auth.Manager) {
	t.Helper()
	tokens, err := auth.NewManager("test-secret", "1h")
	require.NoError(t, err)
	return NewUserService(store.NewMemory[models.User]("email"), tokens, logger.Discard()), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newUserService(t)

	u, err := svc.Register(ctx, RegisterInput{Name: "Lan", Email: " Lan@Ops.local ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "lan@ops.local", u.Email)
	assert.Equal(t, models.RoleStaff, u.Role)
	assert.NotEqual(t, "secret1", u.Password)

	_, err = svc.Register(ctx, RegisterInput{Name: "Lan 2", Email: "lan@ops.local", Password: "secret1"})
	requireKind(t, err, apperr.KindDuplicate)

	res, err := svc.Login(ctx, "LAN@ops.local", "secret1")
	require.NoError(t, err)
	claims, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), claims.UserID)
	assert.Equal(t, "staff", claims.Role)

	_, err = svc.Login(ctx, "lan@ops.local", "wrong-pass")
	requireKind(t, err, apperr.KindUnauthorized)
	_, err = svc.Login(ctx, "nobody@ops.local", "secret1")
	requireKind(t, err, apperr.KindUnauthorized)
	assert.Equal(t, "Invalid email or password", apperr.MessageOf(err))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newUserService(t)
	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.c", Password: "123"})
	requireKind(t, err, apperr.KindValidation)
}

func TestInactiveUserCannotLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)
	u, err := svc.Register(ctx, RegisterInput{Name: "Minh", Email: "minh@ops.local", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, u.ID.Hex(), []byte(`{"status":"inactive"}`))
	require.NoError(t, err)

	_, err = svc.Login(ctx, "minh@ops.local", "secret1")
	requireKind(t, err, apperr.KindUnauthorized)
	assert.Equal(t, "Account is inactive", apperr.MessageOf(err))
}

func TestEnsureAdminRunsOnce(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	created, err := svc.EnsureAdmin(ctx, "admin@ops.local", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin@ops.local", "admin123")
	require.NoError(t, err)
	assert.False(t, created)

	u, err := svc.FindByEmail(ctx, "admin@ops.local")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}
