package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/domain"
	"shareit/internal/models"
)

func strPtr(s string) *string { return &s }

func TestUserCreate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	user, err := env.users.CreateUser(ctx, &models.User{Name: "  Alice  ", Email: " alice@example.com "})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)

	// Projection lands in the cache
	cached, err := env.cache.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Alice", cached.Name)
}

func TestUserCreate_Validation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.users.CreateUser(ctx, &models.User{Name: "", Email: "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.users.CreateUser(ctx, &models.User{Name: "Alice", Email: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.users.CreateUser(ctx, &models.User{Name: "Alice", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.user(t, "Alice", "alice@example.com")

	_, err := env.users.CreateUser(ctx, &models.User{Name: "Other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestUserUpdate_PartialPatch(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	user := env.user(t, "Alice", "alice@example.com")

	got, err := env.users.UpdateUser(ctx, user.ID, models.UserPatch{Name: strPtr("Alice B")})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)

	got, err = env.users.UpdateUser(ctx, user.ID, models.UserPatch{Email: strPtr("alice.b@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)
	assert.Equal(t, "alice.b@example.com", got.Email)

	_, err = env.users.UpdateUser(ctx, user.ID, models.UserPatch{Email: strPtr("broken")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.users.UpdateUser(ctx, 999, models.UserPatch{Name: strPtr("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserUpdate_EmailTaken(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.user(t, "Alice", "alice@example.com")
	bob := env.user(t, "Bob", "bob@example.com")

	_, err := env.users.UpdateUser(ctx, bob.ID, models.UserPatch{Email: strPtr("alice@example.com")})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestUserDelete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	user := env.user(t, "Alice", "alice@example.com")
	require.NoError(t, env.users.DeleteUser(ctx, user.ID))

	_, err := env.users.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Projection is gone too
	cached, err := env.cache.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, cached)

	assert.ErrorIs(t, env.users.DeleteUser(ctx, user.ID), domain.ErrNotFound)
}

func TestUserGetAll(t *testing.T) {
	env := setupTestEnv(t)

	env.user(t, "Alice", "alice@example.com")
	env.user(t, "Bob", "bob@example.com")

	users, err := env.users.GetAllUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
