package service

import (
	"context"

	"kovaidetail/internal/auth"
	"kovaidetail/internal/domain"
	"kovaidetail/internal/events"
	"kovaidetail/internal/metrics"
	"kovaidetail/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle. Side effects (exports, staff
// notifications) hang off the event bus rather than the service itself; see
// SubscribeBookingEvents.
type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateBooking persists a booking for the authenticated user. The owner is
// always taken from the principal, never from the request body.
func (s *BookingService) CreateBooking(ctx context.Context, principal *auth.Principal, booking *models.Booking) error {
	booking.UserID = principal.UserID
	booking.Status = models.StatusPending

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return err
	}

	metrics.IncBookingCreated()
	s.publishEvent(events.EventBookingCreated, booking)

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("user_id", booking.UserID).
		Str("service_type", booking.ServiceType).
		Msg("booking created")

	return nil
}

// ListBookings returns every booking for admins and only the caller's own
// bookings for everyone else.
func (s *BookingService) ListBookings(ctx context.Context, principal *auth.Principal) ([]*models.Booking, error) {
	if principal.IsAdmin() {
		return s.repo.GetAllBookings(ctx)
	}
	return s.repo.GetUserBookings(ctx, principal.UserID)
}

// UpdateStatus moves a booking to a new status. Unknown ids are reported via
// the returned row count, not an error.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status string) (int64, error) {
	affected, err := s.repo.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		return 0, err
	}

	if affected > 0 {
		booking, err := s.repo.GetBooking(ctx, id)
		if err == nil {
			s.publishEvent(events.EventBookingStatusChanged, booking)
		}
	}

	return affected, nil
}

func (s *BookingService) GetStats(ctx context.Context) (*models.Stats, error) {
	return s.repo.GetStats(ctx)
}

func (s *BookingService) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.repo.GetAllBookings(ctx)
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		FullName:    booking.FullName,
		ServiceType: booking.ServiceType,
		Status:      booking.Status,
		Address:     booking.Address,
		Date:        booking.PreferredDate,
		Time:        booking.PreferredTime,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
