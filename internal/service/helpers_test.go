package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shareit/internal/database"
	"shareit/internal/models"
	"shareit/internal/repository"
)

type mockReports struct {
	mock.Mock
}

func (m *mockReports) EnqueueRefresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type testEnv struct {
	db      *database.DB
	cache   *repository.MemoryProjectionCache
	reports *mockReports

	users    *UserService
	items    *ItemService
	bookings *BookingService
	requests *RequestService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.New(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cache := repository.NewMemoryProjectionCache(time.Hour)
	reports := &mockReports{}
	reports.On("EnqueueRefresh", mock.Anything).Return(nil).Maybe()

	return &testEnv{
		db:       db,
		cache:    cache,
		reports:  reports,
		users:    NewUserService(db, cache, &logger),
		items:    NewItemService(db, cache, nil, &logger),
		bookings: NewBookingService(db, cache, nil, reports, &logger),
		requests: NewRequestService(db, nil, &logger),
	}
}

func (e *testEnv) user(t *testing.T, name, email string) *models.User {
	t.Helper()
	user, err := e.users.CreateUser(context.Background(), &models.User{Name: name, Email: email})
	require.NoError(t, err)
	return user
}

func (e *testEnv) item(t *testing.T, ownerID int64, name string, available bool) *models.ItemResponse {
	t.Helper()
	item, err := e.items.CreateItem(context.Background(), &models.Item{
		Name:        name,
		Description: name + " description",
		Available:   available,
		OwnerID:     ownerID,
	})
	require.NoError(t, err)
	return item
}

func (e *testEnv) booking(t *testing.T, bookerID, itemID int64, start, end time.Time) *models.BookingResponse {
	t.Helper()
	booking, err := e.bookings.Create(context.Background(), bookerID, itemID, start, end)
	require.NoError(t, err)
	return booking
}

func at(offset int) time.Time {
	return time.Now().Truncate(time.Hour).AddDate(0, 0, offset)
}
