package service

import (
	"context"
	"log/slog"

	"cabbook/internal/domain"
	"cabbook/internal/events"
)

// NotificationService fans booking lifecycle changes out to the structured
// log and the event stream. Delivery is best effort: a failed publish is
// logged and swallowed, never surfaced to the caller whose booking already
// committed.
type NotificationService struct {
	logger    *slog.Logger
	publisher events.Publisher
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(logger *slog.Logger, publisher events.Publisher) *NotificationService {
	return &NotificationService{logger: logger, publisher: publisher}
}

// BookingCreated announces a freshly created booking.
func (s *NotificationService) BookingCreated(ctx context.Context, booking *domain.Booking) {
	s.logger.Info("booking created",
		"booking_id", booking.ID,
		"user_id", booking.UserID,
		"cab_type", booking.CabType.Name,
		"distance_km", booking.Distance,
		"fare", booking.Fare,
	)
	s.publish(ctx, events.NewEvent(events.EventBookingCreated, booking))
}

// BookingCancelled announces a cancellation.
func (s *NotificationService) BookingCancelled(ctx context.Context, booking *domain.Booking) {
	s.logger.Info("booking cancelled",
		"booking_id", booking.ID,
		"user_id", booking.UserID,
	)
	s.publish(ctx, events.NewEvent(events.EventBookingCancelled, booking))
}

// StatusChanged announces a status transition.
func (s *NotificationService) StatusChanged(ctx context.Context, booking *domain.Booking) {
	s.logger.Info("booking status changed",
		"booking_id", booking.ID,
		"status", string(booking.Status),
		"driver_id", booking.DriverID,
	)
	s.publish(ctx, events.NewEvent(events.EventBookingStatusChanged, booking))
}

func (s *NotificationService) publish(ctx context.Context, event events.BookingEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", "type", string(event.Type), "booking_id", event.BookingID, "err", err)
	}
}
