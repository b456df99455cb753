package memory

import (
	"context"
	"strconv"
	"sync"

	"cabbook/internal/domain"
	"cabbook/internal/repository"
)

// BookingSnapshotter persists the whole booking collection as one opaque
// blob in a durable key-value slot and reads it back on startup.
type BookingSnapshotter interface {
	SaveBookings(ctx context.Context, bookings []*domain.Booking) error
	LoadBookings(ctx context.Context) ([]*domain.Booking, error)
}

// BookingRepository is an in-memory implementation of
// repository.BookingRepository. The collection lives in insertion order and
// every mutation synchronously rewrites the snapshot, so a restart
// rehydrates the exact collection. A crash between mutation and snapshot
// write loses that one mutation.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings []*domain.Booking
	byID     map[string]int
	snap     BookingSnapshotter
}

// NewBookingRepository creates a booking repository rehydrated from the
// snapshot slot. When the slot is empty the seed collection (may be nil)
// becomes the initial state and is persisted immediately.
func NewBookingRepository(ctx context.Context, snap BookingSnapshotter, seed []*domain.Booking) (*BookingRepository, error) {
	r := &BookingRepository{
		byID: make(map[string]int),
		snap: snap,
	}

	loaded, err := snap.LoadBookings(ctx)
	if err != nil {
		return nil, err
	}
	if loaded == nil {
		loaded = seed
		if err := snap.SaveBookings(ctx, loaded); err != nil {
			return nil, err
		}
	}

	for _, b := range loaded {
		copy := *b
		r.byID[copy.ID] = len(r.bookings)
		r.bookings = append(r.bookings, &copy)
	}

	return r, nil
}

// Create persists a new booking. The ID is assigned under the lock as the
// next sequential decimal string, so creations cannot collide. A failed
// snapshot write rolls the append back; an errored create is never visible.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking.ID = strconv.Itoa(len(r.bookings) + 1)

	copy := *booking
	r.byID[copy.ID] = len(r.bookings)
	r.bookings = append(r.bookings, &copy)

	if err := r.snap.SaveBookings(ctx, r.snapshotLocked()); err != nil {
		r.bookings = r.bookings[:len(r.bookings)-1]
		delete(r.byID, copy.ID)
		return err
	}
	return nil
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *r.bookings[idx]
	return &copy, nil
}

// GetAll retrieves every booking in insertion order.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterLocked(func(*domain.Booking) bool { return true }), nil
}

// GetByUserID retrieves the bookings created by the given user.
func (r *BookingRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterLocked(func(b *domain.Booking) bool { return b.UserID == userID }), nil
}

// GetByDriverID retrieves the bookings assigned to the given driver.
func (r *BookingRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterLocked(func(b *domain.Booking) bool { return b.DriverID == driverID }), nil
}

// Update updates an existing booking in place. A failed snapshot write
// restores the previous version.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[booking.ID]
	if !ok {
		return repository.ErrNotFound
	}
	prev := r.bookings[idx]
	copy := *booking
	r.bookings[idx] = &copy

	if err := r.snap.SaveBookings(ctx, r.snapshotLocked()); err != nil {
		r.bookings[idx] = prev
		return err
	}
	return nil
}

func (r *BookingRepository) filterLocked(keep func(*domain.Booking) bool) []*domain.Booking {
	result := make([]*domain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if keep(b) {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result
}

func (r *BookingRepository) snapshotLocked() []*domain.Booking {
	out := make([]*domain.Booking, len(r.bookings))
	for i, b := range r.bookings {
		copy := *b
		out[i] = &copy
	}
	return out
}
