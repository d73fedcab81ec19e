package models

import "time"

type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestor_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ItemInRequest lists an item offered in answer to a request.
type ItemInRequest struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

type ItemRequestResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []ItemInRequest `json:"items"`
}
