package tests

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"cabbook/internal/domain"
	"cabbook/internal/events"
	"cabbook/internal/service"
)

// ──────────────────────────────────────────────
// 2. BOOKING CREATION
// ──────────────────────────────────────────────

var customer = &domain.Principal{ID: "1", Name: "John Doe", Email: "user@example.com", Role: domain.RoleCustomer}

func TestCreate_RequiresPrincipal(t *testing.T) {
	t.Parallel()

	repo := NewMockBookingRepository()
	svc := newBookingService(repo, FixedEstimator{Distance: 10})

	_, err := svc.Create(context.Background(), nil, service.CreateBookingRequest{
		Pickup:    domain.Location{Address: "A"},
		Dropoff:   domain.Location{Address: "B"},
		CabTypeID: "1",
	})
	if !errors.Is(err, service.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}

	// Nothing must be appended.
	if repo.CountBookings() != 0 {
		t.Errorf("expected empty collection, got %d bookings", repo.CountBookings())
	}
	if repo.CreateCallCount != 0 {
		t.Errorf("expected no Create calls, got %d", repo.CreateCallCount)
	}
}

func TestCreate_UnknownCabTypeRejected(t *testing.T) {
	t.Parallel()

	repo := NewMockBookingRepository()
	svc := newBookingService(repo, FixedEstimator{Distance: 10})

	_, err := svc.Create(context.Background(), customer, service.CreateBookingRequest{
		Pickup:    domain.Location{Address: "A"},
		Dropoff:   domain.Location{Address: "B"},
		CabTypeID: "999",
	})
	if !errors.Is(err, service.ErrInvalidCabType) {
		t.Errorf("expected ErrInvalidCabType, got %v", err)
	}
	if repo.CountBookings() != 0 {
		t.Errorf("expected empty collection, got %d bookings", repo.CountBookings())
	}
}

func TestCreate_NewBookingStartsPending(t *testing.T) {
	t.Parallel()

	repo := NewMockBookingRepository()
	svc := newBookingService(repo, FixedEstimator{Distance: 10})

	booking, err := svc.Create(context.Background(), customer, service.CreateBookingRequest{
		Pickup:    domain.Location{Address: "123 Main St"},
		Dropoff:   domain.Location{Address: "456 Broadway"},
		CabTypeID: "1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected status %s, got %s", domain.BookingStatusPending, booking.Status)
	}
	if booking.UserID != customer.ID {
		t.Errorf("expected user id %s, got %s", customer.ID, booking.UserID)
	}
	if booking.Fare != 130 { // 50 + 8*10
		t.Errorf("expected fare 130, got %.2f", booking.Fare)
	}
	if booking.Distance != 10 {
		t.Errorf("expected distance 10, got %.2f", booking.Distance)
	}
	// The cab type snapshot is embedded, not referenced.
	if booking.CabType.Name != "Economy" || booking.CabType.BasePrice != 50 {
		t.Errorf("expected embedded Economy snapshot, got %+v", booking.CabType)
	}
	if booking.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestCreate_AssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	repo := NewMockBookingRepository()
	svc := newBookingService(repo, FixedEstimator{Distance: 5})

	for i, want := range []string{"1", "2", "3"} {
		booking, err := svc.Create(context.Background(), customer, service.CreateBookingRequest{
			Pickup:    domain.Location{Address: "A"},
			Dropoff:   domain.Location{Address: "B"},
			CabTypeID: "1",
		})
		if err != nil {
			t.Fatalf("create %d: unexpected error: %v", i, err)
		}
		if booking.ID != want {
			t.Errorf("create %d: expected id %s, got %s", i, want, booking.ID)
		}
	}
}

func TestCreate_PublishesBookingCreatedEvent(t *testing.T) {
	t.Parallel()

	repo := NewMockBookingRepository()
	publisher := NewMockPublisher()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := service.NewNotificationService(logger, publisher)
	svc := service.NewBookingService(repo, service.NewCatalog(), nil, FixedEstimator{Distance: 10}, notifier)

	booking, err := svc.Create(context.Background(), customer, service.CreateBookingRequest{
		Pickup:    domain.Location{Address: "A"},
		Dropoff:   domain.Location{Address: "B"},
		CabTypeID: "1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	published := publisher.Published()
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}
	if published[0].Type != events.EventBookingCreated {
		t.Errorf("expected event type %s, got %s", events.EventBookingCreated, published[0].Type)
	}
	if published[0].BookingID != booking.ID {
		t.Errorf("expected booking id %s, got %s", booking.ID, published[0].BookingID)
	}
}

func TestCreate_PublishFailureDoesNotFailBooking(t *testing.T) {
	t.Parallel()

	repo := NewMockBookingRepository()
	publisher := NewMockPublisher()
	publisher.PublishError = errors.New("broker down")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := service.NewNotificationService(logger, publisher)
	svc := service.NewBookingService(repo, service.NewCatalog(), nil, FixedEstimator{Distance: 10}, notifier)

	_, err := svc.Create(context.Background(), customer, service.CreateBookingRequest{
		Pickup:    domain.Location{Address: "A"},
		Dropoff:   domain.Location{Address: "B"},
		CabTypeID: "1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.CountBookings() != 1 {
		t.Errorf("expected booking to be stored, got %d", repo.CountBookings())
	}
}
