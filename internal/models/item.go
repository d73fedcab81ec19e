package models

import "time"

type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	OwnerID     int64     `json:"owner_id"`
	RequestID   int64     `json:"request_id,omitempty"` // 0 when the item answers no request
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemSimple is the projection embedded in booking responses.
type ItemSimple struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (i *Item) Simple() ItemSimple {
	return ItemSimple{ID: i.ID, Name: i.Name, Description: i.Description}
}

// ItemPatch carries a partial update. Nil fields are left untouched.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// ItemResponse is the full item view returned by the item endpoints.
// LastBooking and NextBooking are filled only when the caller owns the item.
type ItemResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	Owner       UserSimple        `json:"owner"`
	RequestID   int64             `json:"request_id,omitempty"`
	LastBooking *BookingSimple    `json:"last_booking,omitempty"`
	NextBooking *BookingSimple    `json:"next_booking,omitempty"`
	Comments    []CommentResponse `json:"comments"`
}
