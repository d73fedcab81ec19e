package domain

import (
	"errors"
	"fmt"
)

// Error kinds. The HTTP layer maps these to status codes via errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAccessDenied  = errors.New("access denied")
	ErrAlreadyExists = errors.New("already exists")
)

// Business-rule violations. Each wraps ErrInvalidInput so callers can match
// either the specific rule or the kind.
var (
	ErrNotAvailable      = fmt.Errorf("%w: item is not available for booking", ErrInvalidInput)
	ErrPeriodBooked      = fmt.Errorf("%w: item is already booked for this period", ErrInvalidInput)
	ErrBadDateOrder      = fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	ErrUnknownState      = fmt.Errorf("%w: unknown booking state filter", ErrInvalidInput)
	ErrOwnerHasNoItems   = fmt.Errorf("%w: user has no items, so cannot retrieve bookings as owner", ErrInvalidInput)
	ErrCommentNotAllowed = fmt.Errorf("%w: comments are allowed only after using the item", ErrInvalidInput)
)

var ErrConcurrentModification = errors.New("booking was modified concurrently")
