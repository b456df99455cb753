package tests

import (
	"context"
	"errors"
	"testing"

	"cabbook/internal/domain"
	"cabbook/internal/service"
)

// ──────────────────────────────────────────────
// 3. BOOKING LIFECYCLE
// ──────────────────────────────────────────────

var (
	driver = &domain.Principal{ID: "2", Name: "Jane Smith", Role: domain.RoleDriver}
	admin  = &domain.Principal{ID: "3", Name: "Admin User", Role: domain.RoleAdmin}
)

func seedBooking(repo *MockBookingRepository, id string, status domain.BookingStatus) {
	repo.AddBooking(&domain.Booking{
		ID:     id,
		UserID: "1",
		Status: status,
	})
}

func TestCancel_SetsStatusCancelled(t *testing.T) {
	t.Parallel()

	repo := NewMockBookingRepository()
	seedBooking(repo, "1", domain.BookingStatusPending)
	seedBooking(repo, "2", domain.BookingStatusConfirmed)
	svc := newBookingService(repo, FixedEstimator{Distance: 5})

	if err := svc.Cancel(context.Background(), "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := repo.GetBooking("1").Status; got != domain.BookingStatusCancelled {
		t.Errorf("expected status cancelled, got %s", got)
	}
	// Other bookings are untouched.
	if got := repo.GetBooking("2").Status; got != domain.BookingStatusConfirmed {
		t.Errorf("expected booking 2 unchanged, got %s", got)
	}
}

func TestCancel_UnknownIDIsSilentNoOp(t *testing.T) {
	t.Parallel()

	repo := NewMockBookingRepository()
	seedBooking(repo, "1", domain.BookingStatusPending)
	svc := newBookingService(repo, FixedEstimator{Distance: 5})

	if err := svc.Cancel(context.Background(), "999"); err != nil {
		t.Fatalf("expected nil error for unknown id, got %v", err)
	}

	if repo.UpdateCallCount != 0 {
		t.Errorf("expected no Update calls, got %d", repo.UpdateCallCount)
	}
	if got := repo.GetBooking("1").Status; got != domain.BookingStatusPending {
		t.Errorf("expected booking 1 unchanged, got %s", got)
	}
}

func TestUpdateStatus_TransitionTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		actor   *domain.Principal
		from    domain.BookingStatus
		to      domain.BookingStatus
		allowed bool
	}{
		{"customer withdraws pending", customer, domain.BookingStatusPending, domain.BookingStatusCancelled, true},
		{"customer cannot confirm", customer, domain.BookingStatusPending, domain.BookingStatusConfirmed, false},
		{"customer cannot complete", customer, domain.BookingStatusInProgress, domain.BookingStatusCompleted, false},
		{"admin confirms pending", admin, domain.BookingStatusPending, domain.BookingStatusConfirmed, true},
		{"admin rejects pending", admin, domain.BookingStatusPending, domain.BookingStatusCancelled, true},
		{"admin cannot start ride", admin, domain.BookingStatusConfirmed, domain.BookingStatusInProgress, false},
		{"driver starts confirmed", driver, domain.BookingStatusConfirmed, domain.BookingStatusInProgress, true},
		{"driver completes in-progress", driver, domain.BookingStatusInProgress, domain.BookingStatusCompleted, true},
		{"driver cannot confirm", driver, domain.BookingStatusPending, domain.BookingStatusConfirmed, false},
		{"driver cannot skip to completed", driver, domain.BookingStatusConfirmed, domain.BookingStatusCompleted, false},
		{"completed is terminal", driver, domain.BookingStatusCompleted, domain.BookingStatusInProgress, false},
		{"cancelled is terminal", admin, domain.BookingStatusCancelled, domain.BookingStatusConfirmed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := NewMockBookingRepository()
			seedBooking(repo, "1", tc.from)
			svc := newBookingService(repo, FixedEstimator{Distance: 5})

			booking, err := svc.UpdateStatus(context.Background(), tc.actor, service.UpdateStatusRequest{
				BookingID: "1",
				Status:    tc.to,
			})

			if tc.allowed {
				if err != nil {
					t.Fatalf("expected transition to succeed, got %v", err)
				}
				if booking.Status != tc.to {
					t.Errorf("expected status %s, got %s", tc.to, booking.Status)
				}
				return
			}

			if !errors.Is(err, service.ErrIllegalTransition) {
				t.Errorf("expected ErrIllegalTransition, got %v", err)
			}
			if got := repo.GetBooking("1").Status; got != tc.from {
				t.Errorf("expected status unchanged at %s, got %s", tc.from, got)
			}
		})
	}
}

func TestUpdateStatus_UnknownBookingRejected(t *testing.T) {
	t.Parallel()

	repo := NewMockBookingRepository()
	svc := newBookingService(repo, FixedEstimator{Distance: 5})

	_, err := svc.UpdateStatus(context.Background(), admin, service.UpdateStatusRequest{
		BookingID: "999",
		Status:    domain.BookingStatusConfirmed,
	})
	if !errors.Is(err, service.ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestUpdateStatus_InvalidStatusRejected(t *testing.T) {
	t.Parallel()

	repo := NewMockBookingRepository()
	seedBooking(repo, "1", domain.BookingStatusPending)
	svc := newBookingService(repo, FixedEstimator{Distance: 5})

	_, err := svc.UpdateStatus(context.Background(), admin, service.UpdateStatusRequest{
		BookingID: "1",
		Status:    "teleported",
	})
	if !errors.Is(err, service.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateStatus_RequiresPrincipal(t *testing.T) {
	t.Parallel()

	repo := NewMockBookingRepository()
	seedBooking(repo, "1", domain.BookingStatusPending)
	svc := newBookingService(repo, FixedEstimator{Distance: 5})

	_, err := svc.UpdateStatus(context.Background(), nil, service.UpdateStatusRequest{
		BookingID: "1",
		Status:    domain.BookingStatusCancelled,
	})
	if !errors.Is(err, service.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestUpdateStatus_RecordsDriverOnStart(t *testing.T) {
	t.Parallel()

	repo := NewMockBookingRepository()
	seedBooking(repo, "1", domain.BookingStatusConfirmed)
	svc := newBookingService(repo, FixedEstimator{Distance: 5})

	booking, err := svc.UpdateStatus(context.Background(), driver, service.UpdateStatusRequest{
		BookingID: "1",
		Status:    domain.BookingStatusInProgress,
		DriverID:  driver.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.DriverID != driver.ID {
		t.Errorf("expected driver id %s, got %s", driver.ID, booking.DriverID)
	}
}

func TestCanTransition_TerminalStatesHaveNoExits(t *testing.T) {
	t.Parallel()

	roles := []domain.Role{domain.RoleCustomer, domain.RoleDriver, domain.RoleAdmin}
	terminals := []domain.BookingStatus{domain.BookingStatusCompleted, domain.BookingStatusCancelled}
	all := []domain.BookingStatus{
		domain.BookingStatusPending, domain.BookingStatusConfirmed,
		domain.BookingStatusInProgress, domain.BookingStatusCompleted,
		domain.BookingStatusCancelled,
	}

	for _, role := range roles {
		for _, from := range terminals {
			for _, to := range all {
				if domain.CanTransition(role, from, to) {
					t.Errorf("role %s may not leave terminal status %s (to %s)", role, from, to)
				}
			}
		}
	}
}
