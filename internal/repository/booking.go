package repository

import (
	"context"

	"cabbook/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
// Bookings are append-only apart from in-place status and driver mutation;
// nothing is ever deleted. Implementations assign the sequential string ID
// during Create and preserve insertion order in listing results.
type BookingRepository interface {
	// Create persists a new booking and assigns its ID.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetAll retrieves every booking in insertion order.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// GetByUserID retrieves the bookings created by the given user.
	GetByUserID(ctx context.Context, userID string) ([]*domain.Booking, error)

	// GetByDriverID retrieves the bookings assigned to the given driver.
	GetByDriverID(ctx context.Context, driverID string) ([]*domain.Booking, error)

	// Update updates an existing booking in place.
	Update(ctx context.Context, booking *domain.Booking) error
}
