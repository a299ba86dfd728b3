package database

import (
	"context"
	"testing"

	"kovaidetail/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	user := &models.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		Phone:        "9876543210",
		PasswordHash: "$2a$10$hash",
		Role:         models.RoleUser,
	}

	err := db.CreateUser(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	found, err := db.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "Alice", found.Name)
	assert.Equal(t, "9876543210", found.Phone)
	assert.Equal(t, models.RoleUser, found.Role)

	byID, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	first := &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, db.CreateUser(ctx, first))

	second := &models.User{Name: "Other Alice", Email: "alice@example.com", PasswordHash: "h2", Role: models.RoleUser}
	err := db.CreateUser(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGetUser_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	_, err := db.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = db.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	created, err := db.EnsureAdmin(ctx, "Admin", "admin@example.com", "hash1")
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := db.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	// Second call must be a no-op and keep the original hash.
	created, err = db.EnsureAdmin(ctx, "Admin", "admin@example.com", "hash2")
	require.NoError(t, err)
	assert.False(t, created)

	again, err := db.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash1", again.PasswordHash)
}

func TestCountCustomers_ExcludesAdmin(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	_, err := db.EnsureAdmin(ctx, "Admin", "admin@example.com", "hash")
	require.NoError(t, err)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		require.NoError(t, db.CreateUser(ctx, &models.User{Name: "u", Email: email, PasswordHash: "h", Role: models.RoleUser}))
	}

	count, err := db.CountCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
