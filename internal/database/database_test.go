package database

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"shareit/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := New(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createTestItem(t *testing.T, db *DB, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	item := &models.Item{
		Name:        name,
		Description: name + " description",
		Available:   available,
		OwnerID:     ownerID,
	}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

func createTestBooking(t *testing.T, db *DB, itemID, bookerID int64, start, end time.Time, status string) *models.Booking {
	t.Helper()
	b := &models.Booking{
		ItemID:    itemID,
		BookerID:  bookerID,
		StartDate: start,
		EndDate:   end,
		Status:    models.StatusWaiting,
	}
	require.NoError(t, db.CreateBookingIfFree(context.Background(), b))
	if status == models.StatusApproved {
		require.NoError(t, db.ApproveBookingIfFree(context.Background(), b))
	} else if status != models.StatusWaiting {
		require.NoError(t, db.UpdateBookingStatus(context.Background(), b.ID, status))
		b.Status = status
	}
	return b
}
