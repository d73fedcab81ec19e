package models

import "time"

type Booking struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	BookerID  int64     `json:"booker_id"`
	StartDate time.Time `json:"start"`
	EndDate   time.Time `json:"end"`
	Status    string    `json:"status"`
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Overlaps reports whether [b.StartDate, b.EndDate) shares an instant with
// [start, end). Touching endpoints do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndDate) && end.After(b.StartDate)
}

// BookingSimple carries only the interval, shown to item owners as the
// last/next approved booking.
type BookingSimple struct {
	StartDate time.Time `json:"start"`
	EndDate   time.Time `json:"end"`
}

// ScheduleEntry is one row of the bookings schedule report.
type ScheduleEntry struct {
	BookingID  int64     `json:"booking_id"`
	ItemName   string    `json:"item_name"`
	OwnerName  string    `json:"owner_name"`
	BookerName string    `json:"booker_name"`
	StartDate  time.Time `json:"start"`
	EndDate    time.Time `json:"end"`
	Status     string    `json:"status"`
}

// BookingResponse is a booking enriched with booker and item projections.
type BookingResponse struct {
	ID        int64      `json:"id"`
	StartDate time.Time  `json:"start"`
	EndDate   time.Time  `json:"end"`
	Status    string     `json:"status"`
	Booker    UserSimple `json:"booker"`
	Item      ItemSimple `json:"item"`
}
