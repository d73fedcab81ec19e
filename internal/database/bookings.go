package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const bookingColumns = `id, item_id, booker_id, start_date, end_date, status, version, created_at, updated_at`

// CreateBookingIfFree inserts a booking after re-checking, inside a
// transaction, that no approved booking overlaps the requested period.
// Returns domain.ErrPeriodBooked when the period is taken.
func (db *DB) CreateBookingIfFree(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	overlaps, err := countOverlapping(ctx, tx, booking.ItemID, booking.StartDate, booking.EndDate, 0)
	if err != nil {
		return fmt.Errorf("failed to check period in tx: %w", err)
	}
	if overlaps > 0 {
		return domain.ErrPeriodBooked
	}

	query := `INSERT INTO bookings (item_id, booker_id, start_date, end_date, status, version, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := tx.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		booking.StartDate,
		booking.EndDate,
		booking.Status,
		1,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return tx.Commit()
}

// ApproveBookingIfFree flips a booking to APPROVED after re-checking that no
// other approved booking took the period since the request was created.
func (db *DB) ApproveBookingIfFree(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	overlaps, err := countOverlapping(ctx, tx, booking.ItemID, booking.StartDate, booking.EndDate, booking.ID)
	if err != nil {
		return fmt.Errorf("failed to check period in tx: %w", err)
	}
	if overlaps > 0 {
		return domain.ErrPeriodBooked
	}

	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`
	now := time.Now()
	result, err := tx.ExecContext(ctx, query, models.StatusApproved, now, booking.ID, booking.Version)
	if err != nil {
		return fmt.Errorf("failed to approve booking in tx: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrConcurrentModification
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit approval: %w", err)
	}
	booking.Status = models.StatusApproved
	booking.Version++
	booking.UpdatedAt = now
	return nil
}

// countOverlapping counts approved bookings of the item whose period shares an
// instant with [start, end). Touching endpoints do not count.
func countOverlapping(ctx context.Context, tx *sql.Tx, itemID int64, start, end time.Time, excludeID int64) (int, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE item_id = ? AND status = ? AND id != ? AND start_date < ? AND end_date > ?`
	var count int
	err := tx.QueryRowContext(ctx, query, itemID, models.StatusApproved, excludeID, end, start).Scan(&count)
	return count, err
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	var b models.Booking
	err := db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.ItemID, &b.BookerID, &b.StartDate, &b.EndDate,
		&b.Status, &b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (db *DB) GetBookingsByItem(ctx context.Context, itemID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE item_id = ? ORDER BY start_date DESC`
	return db.queryBookings(ctx, query, itemID)
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	return nil
}

// GetBookingsByBooker lists a user's bookings filtered by state, newest first.
func (db *DB) GetBookingsByBooker(ctx context.Context, bookerID int64, state string, now time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booker_id = ?`
	args := []interface{}{bookerID}
	query, args = applyStateFilter(query, args, state, now)
	query += ` ORDER BY start_date DESC`
	return db.queryBookings(ctx, query, args...)
}

// GetBookingsByItemOwner lists bookings of all items owned by ownerID,
// filtered by state, newest first.
func (db *DB) GetBookingsByItemOwner(ctx context.Context, ownerID int64, state string, now time.Time) ([]*models.Booking, error) {
	query := `SELECT b.id, b.item_id, b.booker_id, b.start_date, b.end_date, b.status, b.version, b.created_at, b.updated_at
              FROM bookings b JOIN items i ON i.id = b.item_id WHERE i.owner_id = ?`
	args := []interface{}{ownerID}
	query, args = applyStateFilter(query, args, state, now)
	query += ` ORDER BY b.start_date DESC`
	return db.queryBookings(ctx, query, args...)
}

func applyStateFilter(query string, args []interface{}, state string, now time.Time) (string, []interface{}) {
	switch state {
	// Temporal states select approved bookings only; a WAITING or REJECTED
	// booking is never CURRENT, PAST or FUTURE.
	case models.StateCurrent:
		query += ` AND status = ? AND start_date < ? AND end_date > ?`
		args = append(args, models.StatusApproved, now, now)
	case models.StatePast:
		query += ` AND status = ? AND end_date < ?`
		args = append(args, models.StatusApproved, now)
	case models.StateFuture:
		query += ` AND status = ? AND start_date > ?`
		args = append(args, models.StatusApproved, now)
	case models.StateWaiting:
		query += ` AND status = ?`
		args = append(args, models.StatusWaiting)
	case models.StateRejected:
		query += ` AND status = ?`
		args = append(args, models.StatusRejected)
	}
	return query, args
}

// GetLastBooking returns the latest approved booking of the item that has
// already started, or nil when there is none.
func (db *DB) GetLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE item_id = ? AND status = ? AND start_date <= ?
              ORDER BY start_date DESC LIMIT 1`
	return db.queryOptionalBooking(ctx, query, itemID, models.StatusApproved, now)
}

// GetNextBooking returns the earliest approved booking of the item that has
// not started yet, or nil when there is none.
func (db *DB) GetNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE item_id = ? AND status = ? AND start_date > ?
              ORDER BY start_date ASC LIMIT 1`
	return db.queryOptionalBooking(ctx, query, itemID, models.StatusApproved, now)
}

// HasFinishedBooking reports whether the user had an approved booking of the
// item that already ended.
func (db *DB) HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE booker_id = ? AND item_id = ? AND status = ? AND end_date <= ?`
	var count int
	err := db.QueryRowContext(ctx, query, bookerID, itemID, models.StatusApproved, now).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return count > 0, nil
}

// GetScheduleEntries returns report rows for bookings whose period overlaps
// [start, end], with item, owner and booker names resolved, ordered by start.
func (db *DB) GetScheduleEntries(ctx context.Context, start, end time.Time) ([]*models.ScheduleEntry, error) {
	query := `SELECT b.id, i.name, o.name, u.name, b.start_date, b.end_date, b.status
              FROM bookings b
              JOIN items i ON i.id = b.item_id
              JOIN users o ON o.id = i.owner_id
              JOIN users u ON u.id = b.booker_id
              WHERE b.start_date < ? AND b.end_date > ?
              ORDER BY b.start_date ASC`
	rows, err := db.QueryContext(ctx, query, end, start)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.ScheduleEntry
	for rows.Next() {
		e := &models.ScheduleEntry{}
		err := rows.Scan(&e.BookingID, &e.ItemName, &e.OwnerName, &e.BookerName, &e.StartDate, &e.EndDate, &e.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (db *DB) queryOptionalBooking(ctx context.Context, query string, args ...interface{}) (*models.Booking, error) {
	var b models.Booking
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&b.ID, &b.ItemID, &b.BookerID, &b.StartDate, &b.EndDate,
		&b.Status, &b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(
			&b.ID, &b.ItemID, &b.BookerID, &b.StartDate, &b.EndDate,
			&b.Status, &b.Version, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
