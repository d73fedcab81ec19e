package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"
)

// BookingService owns the booking lifecycle: WAITING on creation, then a
// single owner decision to APPROVED or REJECTED.
type BookingService struct {
	enricher
	eventBus domain.EventPublisher
	reports  domain.ReportScheduler
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, cache domain.ProjectionCache, eventBus domain.EventPublisher, reports domain.ReportScheduler, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		enricher: enricher{repo: repo, cache: cache},
		eventBus: eventBus,
		reports:  reports,
		logger:   logger,
	}
}

func (s *BookingService) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.BookingResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, bookerID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, domain.ErrNotAvailable
	}

	if !end.After(start) {
		return nil, domain.ErrBadDateOrder
	}

	booking := &models.Booking{
		ItemID:    itemID,
		BookerID:  bookerID,
		StartDate: start,
		EndDate:   end,
		Status:    models.StatusWaiting,
	}

	if err := s.repo.CreateBookingIfFree(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrPeriodBooked) {
			metrics.IncBookingConflict()
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	s.publishEvent(ctx, events.EventBookingCreated, booking, item)
	s.scheduleReport(ctx)

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", itemID).
		Int64("booker_id", bookerID).
		Msg("Booking created")

	return s.buildResponse(ctx, booking)
}

// SetStatus records the owner's decision on a waiting booking. Approval
// re-checks the period so two waiting bookings cannot both win it.
func (s *BookingService) SetStatus(ctx context.Context, bookingID int64, approved bool, ownerID int64) (*models.BookingResponse, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: user %d does not own the booked item", domain.ErrAccessDenied, ownerID)
	}

	if booking.Status != models.StatusWaiting {
		return nil, fmt.Errorf("%w: booking %d is already decided", domain.ErrInvalidInput, bookingID)
	}

	if approved {
		if err := s.repo.ApproveBookingIfFree(ctx, booking); err != nil {
			if errors.Is(err, domain.ErrPeriodBooked) {
				metrics.IncBookingConflict()
			}
			return nil, err
		}
		s.publishEvent(ctx, events.EventBookingApproved, booking, item)
	} else {
		if err := s.repo.UpdateBookingStatus(ctx, bookingID, models.StatusRejected); err != nil {
			return nil, err
		}
		booking.Status = models.StatusRejected
		s.publishEvent(ctx, events.EventBookingRejected, booking, item)
	}

	s.scheduleReport(ctx)
	s.logger.Info().
		Int64("booking_id", bookingID).
		Bool("approved", approved).
		Msg("Booking decided")

	return s.buildResponse(ctx, booking)
}

// GetByID returns the booking to its booker or the item's owner.
func (s *BookingService) GetByID(ctx context.Context, bookingID, userID int64) (*models.BookingResponse, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != userID && item.OwnerID != userID {
		return nil, fmt.Errorf("%w: booking %d is not visible to user %d", domain.ErrAccessDenied, bookingID, userID)
	}

	return s.buildResponse(ctx, booking)
}

func (s *BookingService) ListForBooker(ctx context.Context, userID int64, state string) ([]*models.BookingResponse, error) {
	if !models.ValidState(state) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownState, state)
	}
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	bookings, err := s.repo.GetBookingsByBooker(ctx, userID, state, time.Now())
	if err != nil {
		return nil, err
	}
	return s.buildResponses(ctx, bookings)
}

// ListForOwner lists bookings of the owner's items. A user without items has
// nothing to list and the call is rejected.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID int64, state string) ([]*models.BookingResponse, error) {
	if !models.ValidState(state) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownState, state)
	}
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.ErrOwnerHasNoItems
	}

	bookings, err := s.repo.GetBookingsByItemOwner(ctx, ownerID, state, time.Now())
	if err != nil {
		return nil, err
	}
	return s.buildResponses(ctx, bookings)
}

func (s *BookingService) buildResponse(ctx context.Context, booking *models.Booking) (*models.BookingResponse, error) {
	booker, err := s.userSimple(ctx, booking.BookerID)
	if err != nil {
		return nil, err
	}
	item, err := s.itemSimple(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}

	return &models.BookingResponse{
		ID:        booking.ID,
		StartDate: booking.StartDate,
		EndDate:   booking.EndDate,
		Status:    booking.Status,
		Booker:    booker,
		Item:      item,
	}, nil
}

func (s *BookingService) buildResponses(ctx context.Context, bookings []*models.Booking) ([]*models.BookingResponse, error) {
	responses := make([]*models.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		response, err := s.buildResponse(ctx, booking)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, booking *models.Booking, item *models.Item) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		BookerID:  booking.BookerID,
		ItemID:    booking.ItemID,
		ItemName:  item.Name,
		OwnerID:   item.OwnerID,
		Status:    booking.Status,
		StartDate: booking.StartDate,
		EndDate:   booking.EndDate,
	}
	if booker, err := s.userSimple(ctx, booking.BookerID); err == nil {
		payload.BookerName = booker.Name
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) scheduleReport(ctx context.Context) {
	if s.reports == nil {
		return
	}
	if err := s.reports.EnqueueRefresh(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to schedule report refresh")
	}
}
