package service

import (
	"context"
	"errors"
	"math"
	"time"

	"cabbook/internal/domain"
	"cabbook/internal/observability"
	"cabbook/internal/repository"
)

// BookingService owns the booking collection and the lifecycle rules over
// it. Transition legality is enforced here, keyed on the acting role and
// the booking's current status, never left to call sites.
type BookingService struct {
	bookingRepo repository.BookingRepository
	catalog     *Catalog
	router      DistanceEstimator // optional; nil means fallback only
	fallback    DistanceEstimator
	notifier    *NotificationService
}

// NewBookingService creates a new BookingService. router may be nil when no
// routing endpoint is configured.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	catalog *Catalog,
	router DistanceEstimator,
	fallback DistanceEstimator,
	notifier *NotificationService,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		catalog:     catalog,
		router:      router,
		fallback:    fallback,
		notifier:    notifier,
	}
}

// EstimateDistance returns a distance in km between two locations. The
// routing service is consulted when configured and the locations carry
// coordinates; otherwise the pseudo-random stand-in answers. Not a pure
// function of its inputs.
func (s *BookingService) EstimateDistance(ctx context.Context, pickup, dropoff domain.Location) (float64, error) {
	if s.router != nil {
		if d, err := s.router.Estimate(ctx, pickup, dropoff); err == nil {
			return d, nil
		}
	}
	return s.fallback.Estimate(ctx, pickup, dropoff)
}

// CalculateFare is the pure pricing function:
// round(basePrice + pricePerKm × distance). An unknown cab type prices to 0.
func (s *BookingService) CalculateFare(distance float64, cabTypeID string) float64 {
	cabType, ok := s.catalog.GetByID(cabTypeID)
	if !ok {
		return 0
	}
	return math.Round(cabType.BasePrice + cabType.PricePerKm*distance)
}

// Quote contains a fare preview for the booking form.
type Quote struct {
	CabType  domain.CabType
	Distance float64
	Fare     float64
}

// QuoteFare estimates a distance and prices it without creating anything.
func (s *BookingService) QuoteFare(ctx context.Context, pickup, dropoff domain.Location, cabTypeID string) (*Quote, error) {
	cabType, ok := s.catalog.GetByID(cabTypeID)
	if !ok {
		return nil, ErrInvalidCabType
	}

	distance, err := s.EstimateDistance(ctx, pickup, dropoff)
	if err != nil {
		return nil, err
	}

	return &Quote{
		CabType:  cabType,
		Distance: distance,
		Fare:     s.CalculateFare(distance, cabTypeID),
	}, nil
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	Pickup    domain.Location
	Dropoff   domain.Location
	CabTypeID string
}

// Create appends a new pending booking for the acting principal. The cab
// type is embedded as a snapshot and the fare is computed once, here.
func (s *BookingService) Create(ctx context.Context, actor *domain.Principal, req CreateBookingRequest) (*domain.Booking, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}

	cabType, ok := s.catalog.GetByID(req.CabTypeID)
	if !ok {
		return nil, ErrInvalidCabType
	}

	distance, err := s.EstimateDistance(ctx, req.Pickup, req.Dropoff)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &domain.Booking{
		UserID:    actor.ID,
		Pickup:    req.Pickup,
		Dropoff:   req.Dropoff,
		CabType:   cabType,
		Status:    domain.BookingStatusPending,
		Fare:      s.CalculateFare(distance, req.CabTypeID),
		Distance:  distance,
		Date:      now,
		CreatedAt: now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	observability.BookingsCreated.Inc()
	if s.notifier != nil {
		s.notifier.BookingCreated(ctx, booking)
	}

	return booking, nil
}

// Cancel sets the booking's status to cancelled. An unknown id is a silent
// no-op: the collection is left untouched and no error is raised.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	booking.Status = domain.BookingStatusCancelled
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return err
	}

	observability.BookingTransitions.WithLabelValues(string(domain.BookingStatusCancelled)).Inc()
	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, booking)
	}
	return nil
}

// UpdateStatusRequest contains the parameters for a status transition.
type UpdateStatusRequest struct {
	BookingID string
	Status    domain.BookingStatus
	DriverID  string // optional; records the driver on the booking
}

// UpdateStatus applies a status transition on behalf of the acting
// principal, enforcing the role-keyed transition table. Terminal states
// admit no further transition.
func (s *BookingService) UpdateStatus(ctx context.Context, actor *domain.Principal, req UpdateStatusRequest) (*domain.Booking, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if !domain.ValidBookingStatus(req.Status) {
		return nil, ErrInvalidStatus
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if !domain.CanTransition(actor.Role, booking.Status, req.Status) {
		return nil, ErrIllegalTransition
	}

	booking.Status = req.Status
	if req.DriverID != "" {
		booking.DriverID = req.DriverID
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	observability.BookingTransitions.WithLabelValues(string(req.Status)).Inc()
	if s.notifier != nil {
		s.notifier.StatusChanged(ctx, booking)
	}

	return booking, nil
}

// ForUser returns the bookings created by the given user, in collection order.
func (s *BookingService) ForUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	return s.bookingRepo.GetByUserID(ctx, userID)
}

// ForDriver returns the bookings assigned to the given driver, in collection order.
func (s *BookingService) ForDriver(ctx context.Context, driverID string) ([]*domain.Booking, error) {
	return s.bookingRepo.GetByDriverID(ctx, driverID)
}

// All returns the whole collection. Admin only.
func (s *BookingService) All(ctx context.Context, actor *domain.Principal) ([]*domain.Booking, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.bookingRepo.GetAll(ctx)
}

// ByID returns a single booking, scoped to the actor: customers see their
// own bookings, drivers the ones assigned to them, admins everything.
func (s *BookingService) ByID(ctx context.Context, actor *domain.Principal, id string) (*domain.Booking, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	switch actor.Role {
	case domain.RoleAdmin:
		return booking, nil
	case domain.RoleDriver:
		if booking.DriverID == actor.ID {
			return booking, nil
		}
	case domain.RoleCustomer:
		if booking.UserID == actor.ID {
			return booking, nil
		}
	}
	return nil, ErrForbidden
}

// ListFor returns the role-appropriate view of the collection: admins get
// everything, drivers their assignments, customers their own bookings.
func (s *BookingService) ListFor(ctx context.Context, actor *domain.Principal) ([]*domain.Booking, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}

	switch actor.Role {
	case domain.RoleAdmin:
		return s.bookingRepo.GetAll(ctx)
	case domain.RoleDriver:
		return s.ForDriver(ctx, actor.ID)
	default:
		return s.ForUser(ctx, actor.ID)
	}
}
