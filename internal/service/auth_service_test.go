package service

import (
	"context"
	"testing"
	"time"

	"kovaidetail/internal/auth"
	"kovaidetail/internal/database"
	"kovaidetail/internal/events"
	"kovaidetail/internal/models"
	"kovaidetail/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthService(t *testing.T) (*AuthService, *database.DB) {
	t.Helper()
	logger := zerolog.Nop()

	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	sessions := repository.NewMemorySessionStore()
	svc := NewAuthService(db, sessions, issuer, events.NewEventBus(), bcrypt.MinCost, &logger)
	return svc, db
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, "Alice", "Alice@Example.com", "9876543210", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, models.RoleUser, result.User.Role)
	// Emails are stored normalized.
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.NotEqual(t, "s3cret", result.User.PasswordHash)

	principal, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, principal.UserID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "", "s3cret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Impostor", "alice@example.com", "", "other")
	assert.ErrorIs(t, err, database.ErrDuplicateEmail)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "", "s3cret")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "alice@example.com", result.User.Email)
}

func TestAuthService_Login_EnumerationResistance(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "", "s3cret")
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable.
	_, unknownErr := svc.Login(ctx, "nobody@example.com", "s3cret")
	_, wrongErr := svc.Login(ctx, "alice@example.com", "wrong")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthService_AllowAttempt(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	for i := 0; i < authAttemptLimit; i++ {
		assert.True(t, svc.AllowAttempt(ctx, "192.0.2.1"))
	}
	assert.False(t, svc.AllowAttempt(ctx, "192.0.2.1"))

	// Budgets are tracked per key.
	assert.True(t, svc.AllowAttempt(ctx, "192.0.2.2"))
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, "Alice", "alice@example.com", "", "s3cret")
	require.NoError(t, err)

	principal, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, principal))

	_, err = svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_LogoutDoesNotAffectOtherTokens(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, "Alice", "alice@example.com", "", "s3cret")
	require.NoError(t, err)

	second, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)

	principal, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, principal))

	// The second session stays valid; revocation is per jti.
	_, err = svc.Authenticate(ctx, second.Token)
	assert.NoError(t, err)
}
