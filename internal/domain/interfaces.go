package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Repository is the durable store contract shared by all services.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	// Items
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	CountItemsByOwner(ctx context.Context, ownerID int64) (int, error)
	SearchAvailableItems(ctx context.Context, text string) ([]*models.Item, error)
	GetItemsByRequest(ctx context.Context, requestID int64) ([]*models.Item, error)

	// Bookings
	CreateBookingIfFree(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetBookingsByItem(ctx context.Context, itemID int64) ([]*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	ApproveBookingIfFree(ctx context.Context, booking *models.Booking) error
	GetBookingsByBooker(ctx context.Context, bookerID int64, state string, now time.Time) ([]*models.Booking, error)
	GetBookingsByItemOwner(ctx context.Context, ownerID int64, state string, now time.Time) ([]*models.Booking, error)
	GetLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	GetNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)

	// Item requests
	CreateItemRequest(ctx context.Context, request *models.ItemRequest) error
	GetItemRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetItemRequestsByRequestor(ctx context.Context, userID int64) ([]*models.ItemRequest, error)
	GetItemRequestsFromOthers(ctx context.Context, userID int64) ([]*models.ItemRequest, error)

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.CommentResponse, error)
}

// ProjectionCache holds the user/item projections used to enrich booking
// responses. Get returns (nil, nil) on a miss.
type ProjectionCache interface {
	GetUser(ctx context.Context, id int64) (*models.UserSimple, error)
	SetUser(ctx context.Context, user *models.UserSimple) error
	InvalidateUser(ctx context.Context, id int64) error
	GetItem(ctx context.Context, id int64) (*models.ItemSimple, error)
	SetItem(ctx context.Context, item *models.ItemSimple) error
	InvalidateItem(ctx context.Context, id int64) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ReportScheduler accepts requests to refresh the bookings report.
type ReportScheduler interface {
	EnqueueRefresh(ctx context.Context) error
}

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ItemService interface {
	CreateItem(ctx context.Context, item *models.Item) (*models.ItemResponse, error)
	UpdateItem(ctx context.Context, itemID, ownerID int64, patch models.ItemPatch) (*models.ItemResponse, error)
	GetItemByID(ctx context.Context, itemID, userID int64) (*models.ItemResponse, error)
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.ItemResponse, error)
	SearchItems(ctx context.Context, text string, userID int64) ([]*models.ItemResponse, error)
	AddComment(ctx context.Context, itemID, authorID int64, text string) (*models.CommentResponse, error)
}

type BookingService interface {
	Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.BookingResponse, error)
	SetStatus(ctx context.Context, bookingID int64, approved bool, ownerID int64) (*models.BookingResponse, error)
	GetByID(ctx context.Context, bookingID, userID int64) (*models.BookingResponse, error)
	ListForBooker(ctx context.Context, userID int64, state string) ([]*models.BookingResponse, error)
	ListForOwner(ctx context.Context, ownerID int64, state string) ([]*models.BookingResponse, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, userID int64, description string) (*models.ItemRequestResponse, error)
	GetUserRequests(ctx context.Context, userID int64) ([]*models.ItemRequestResponse, error)
	GetAllRequests(ctx context.Context, userID int64) ([]*models.ItemRequestResponse, error)
	GetRequestByID(ctx context.Context, requestID, userID int64) (*models.ItemRequestResponse, error)
}
