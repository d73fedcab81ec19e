package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/domain"
	"shareit/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func TestItemCreate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Alice", "alice@example.com")

	item, err := env.items.CreateItem(ctx, &models.Item{
		Name:        "  Drill  ",
		Description: "Cordless drill",
		Available:   true,
		OwnerID:     owner.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "Drill", item.Name)
	assert.Equal(t, "Alice", item.Owner.Name)
	assert.Empty(t, item.Comments)
}

func TestItemCreate_Validation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Alice", "alice@example.com")

	_, err := env.items.CreateItem(ctx, &models.Item{Name: "", Description: "d", OwnerID: owner.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.items.CreateItem(ctx, &models.Item{Name: "Drill", Description: "", OwnerID: owner.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.items.CreateItem(ctx, &models.Item{Name: "Drill", Description: "d", OwnerID: 999})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemCreate_LinkedToRequest(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Alice", "alice@example.com")
	requestor := env.user(t, "Bob", "bob@example.com")

	request, err := env.requests.CreateRequest(ctx, requestor.ID, "Need a drill")
	require.NoError(t, err)

	item, err := env.items.CreateItem(ctx, &models.Item{
		Name:        "Drill",
		Description: "Cordless drill",
		Available:   true,
		OwnerID:     owner.ID,
		RequestID:   request.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, request.ID, item.RequestID)

	// Unknown request is rejected
	_, err = env.items.CreateItem(ctx, &models.Item{
		Name:        "Saw",
		Description: "Hand saw",
		OwnerID:     owner.ID,
		RequestID:   999,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUpdate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Alice", "alice@example.com")
	stranger := env.user(t, "Bob", "bob@example.com")
	item := env.item(t, owner.ID, "Drill", true)

	got, err := env.items.UpdateItem(ctx, item.ID, owner.ID, models.ItemPatch{Available: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Equal(t, "Drill", got.Name)

	got, err = env.items.UpdateItem(ctx, item.ID, owner.ID, models.ItemPatch{Name: strPtr("Hammer drill")})
	require.NoError(t, err)
	assert.Equal(t, "Hammer drill", got.Name)
	assert.False(t, got.Available)

	// Only the owner edits
	_, err = env.items.UpdateItem(ctx, item.ID, stranger.ID, models.ItemPatch{Name: strPtr("Mine now")})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = env.items.UpdateItem(ctx, 999, owner.ID, models.ItemPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemGetByID_BookingsOnlyForOwner(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Alice", "alice@example.com")
	booker := env.user(t, "Bob", "bob@example.com")
	item := env.item(t, owner.ID, "Drill", true)

	past := env.booking(t, booker.ID, item.ID, at(-5), at(-2))
	future := env.booking(t, booker.ID, item.ID, at(2), at(4))
	_, err := env.bookings.SetStatus(ctx, past.ID, true, owner.ID)
	require.NoError(t, err)
	_, err = env.bookings.SetStatus(ctx, future.ID, true, owner.ID)
	require.NoError(t, err)

	got, err := env.items.GetItemByID(ctx, item.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastBooking)
	require.NotNil(t, got.NextBooking)
	assert.True(t, got.LastBooking.EndDate.Before(got.NextBooking.StartDate))

	got, err = env.items.GetItemByID(ctx, item.ID, booker.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LastBooking)
	assert.Nil(t, got.NextBooking)
}

func TestItemGetByOwner(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Alice", "alice@example.com")
	env.item(t, owner.ID, "Drill", true)
	env.item(t, owner.ID, "Saw", false)

	got, err := env.items.GetItemsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = env.items.GetItemsByOwner(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemSearch(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Alice", "alice@example.com")
	env.item(t, owner.ID, "Power Drill", true)
	env.item(t, owner.ID, "Drill Press", false)

	got, err := env.items.SearchItems(ctx, "dRiLl", owner.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Power Drill", got[0].Name)

	// Blank query is not an error
	got, err = env.items.SearchItems(ctx, "   ", owner.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestItemAddComment(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Alice", "alice@example.com")
	booker := env.user(t, "Bob", "bob@example.com")
	item := env.item(t, owner.ID, "Drill", true)

	// No finished booking yet
	_, err := env.items.AddComment(ctx, item.ID, booker.ID, "Great drill")
	assert.ErrorIs(t, err, domain.ErrCommentNotAllowed)

	booking := env.booking(t, booker.ID, item.ID, at(-5), at(-2))
	_, err = env.bookings.SetStatus(ctx, booking.ID, true, owner.ID)
	require.NoError(t, err)

	comment, err := env.items.AddComment(ctx, item.ID, booker.ID, "  Great drill  ")
	require.NoError(t, err)
	assert.Equal(t, "Great drill", comment.Text)
	assert.Equal(t, "Bob", comment.AuthorName)

	// The comment shows up on the item view
	got, err := env.items.GetItemByID(ctx, item.ID, booker.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "Great drill", got.Comments[0].Text)
}

func TestItemAddComment_Validation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Alice", "alice@example.com")
	booker := env.user(t, "Bob", "bob@example.com")
	item := env.item(t, owner.ID, "Drill", true)

	_, err := env.items.AddComment(ctx, item.ID, booker.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.items.AddComment(ctx, item.ID, 999, "text")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.items.AddComment(ctx, 999, booker.ID, "text")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// An approved booking that has not ended yet does not allow commenting
	booking := env.booking(t, booker.ID, item.ID, at(-1), at(2))
	_, err = env.bookings.SetStatus(ctx, booking.ID, true, owner.ID)
	require.NoError(t, err)

	_, err = env.items.AddComment(ctx, item.ID, booker.ID, "too early")
	assert.ErrorIs(t, err, domain.ErrCommentNotAllowed)
}
