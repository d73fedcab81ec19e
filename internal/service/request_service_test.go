package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/domain"
	"shareit/internal/models"
)

func TestRequestCreate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	user := env.user(t, "Alice", "alice@example.com")

	request, err := env.requests.CreateRequest(ctx, user.ID, "  Need a drill  ")
	require.NoError(t, err)
	assert.NotZero(t, request.ID)
	assert.Equal(t, "Need a drill", request.Description)
	assert.Empty(t, request.Items)

	_, err = env.requests.CreateRequest(ctx, user.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.requests.CreateRequest(ctx, 999, "Need a saw")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRequestListing(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "Alice", "alice@example.com")
	bob := env.user(t, "Bob", "bob@example.com")

	_, err := env.requests.CreateRequest(ctx, alice.ID, "Need a drill")
	require.NoError(t, err)
	_, err = env.requests.CreateRequest(ctx, bob.ID, "Need a ladder")
	require.NoError(t, err)

	own, err := env.requests.GetUserRequests(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Need a drill", own[0].Description)

	others, err := env.requests.GetAllRequests(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "Need a ladder", others[0].Description)

	_, err = env.requests.GetUserRequests(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRequestGetByID_WithItems(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	requestor := env.user(t, "Alice", "alice@example.com")
	owner := env.user(t, "Bob", "bob@example.com")

	request, err := env.requests.CreateRequest(ctx, requestor.ID, "Need a drill")
	require.NoError(t, err)

	_, err = env.items.CreateItem(ctx, &models.Item{
		Name:        "Drill",
		Description: "Cordless drill",
		Available:   true,
		OwnerID:     owner.ID,
		RequestID:   request.ID,
	})
	require.NoError(t, err)

	got, err := env.requests.GetRequestByID(ctx, request.ID, requestor.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Drill", got.Items[0].Name)
	assert.Equal(t, owner.ID, got.Items[0].OwnerID)

	// Any known user may look a request up
	_, err = env.requests.GetRequestByID(ctx, request.ID, owner.ID)
	assert.NoError(t, err)

	_, err = env.requests.GetRequestByID(ctx, 999, requestor.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.requests.GetRequestByID(ctx, request.ID, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
