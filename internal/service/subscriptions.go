package service

import (
	"context"
	"encoding/json"

	"kovaidetail/internal/domain"
	"kovaidetail/internal/events"

	"github.com/rs/zerolog"
)

// SubscribeBookingEvents attaches the side effects that follow booking
// changes: every event schedules a fresh export snapshot, and the staff chat
// is messaged when a notifier is configured. ctx bounds the enqueue and
// lookup calls for the lifetime of the process.
func SubscribeBookingEvents(ctx context.Context, bus *events.EventBus, repo domain.Repository, exports domain.ExportEnqueuer, notifier domain.Notifier, logger *zerolog.Logger) {
	handler := func(ev *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event_type", ev.Type).Msg("event bus: decode payload")
			return nil
		}

		if exports != nil {
			if err := exports.EnqueueExport(ctx, ev.Type, payload.BookingID); err != nil {
				logger.Error().Err(err).Int64("booking_id", payload.BookingID).Msg("event bus: enqueue export")
			}
		}

		if notifier == nil {
			return nil
		}

		// The payload is a thin snapshot; notifications carry the full row.
		booking, err := repo.GetBooking(ctx, payload.BookingID)
		if err != nil {
			logger.Error().Err(err).Int64("booking_id", payload.BookingID).Msg("event bus: load booking")
			return nil
		}

		switch ev.Type {
		case events.EventBookingCreated:
			notifier.NotifyBookingCreated(booking)
		case events.EventBookingStatusChanged:
			notifier.NotifyStatusChanged(booking)
		}
		return nil
	}

	bus.Subscribe(events.EventBookingCreated, handler)
	bus.Subscribe(events.EventBookingStatusChanged, handler)
}

// SubscribeUserEvents messages the staff chat about new registrations.
func SubscribeUserEvents(bus *events.EventBus, notifier domain.Notifier, logger *zerolog.Logger) {
	if notifier == nil {
		return
	}

	bus.Subscribe(events.EventUserRegistered, func(ev *events.Event) error {
		var payload events.UserEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event_type", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		notifier.NotifyUserRegistered(payload.Name, payload.Email)
		return nil
	})
}
