package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"cabbook/internal/domain"
)

// SnapshotStore persists the two durable blobs the application keeps: the
// full booking collection and one principal snapshot per live session. Both
// are opaque JSON values with no TTL; a shape change requires invalidating
// the keys by hand.
type SnapshotStore struct {
	client *redis.Client
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

// Key prefixes
const (
	bookingsKey   = "snapshot:bookings"
	sessionPrefix = "snapshot:session:"
)

// snapshotCoordinates mirrors domain.Coordinates in the persisted blob.
type snapshotCoordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// snapshotLocation mirrors domain.Location in the persisted blob.
type snapshotLocation struct {
	Address     string               `json:"address"`
	Coordinates *snapshotCoordinates `json:"coordinates,omitempty"`
}

// snapshotCabType mirrors domain.CabType in the persisted blob.
type snapshotCabType struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"basePrice"`
	PricePerKm  float64 `json:"pricePerKm"`
	Image       string  `json:"image"`
}

// snapshotBooking mirrors domain.Booking in the persisted blob.
type snapshotBooking struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	DriverID  string           `json:"driverId,omitempty"`
	Pickup    snapshotLocation `json:"pickup"`
	Dropoff   snapshotLocation `json:"dropoff"`
	CabType   snapshotCabType  `json:"cabType"`
	Status    string           `json:"status"`
	Fare      float64          `json:"fare"`
	Distance  float64          `json:"distance"`
	Date      time.Time        `json:"date"`
	CreatedAt time.Time        `json:"createdAt"`
}

// snapshotPrincipal mirrors domain.Principal in the persisted blob.
type snapshotPrincipal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Phone string `json:"phone,omitempty"`
}

// SaveBookings rewrites the whole booking collection blob.
func (s *SnapshotStore) SaveBookings(ctx context.Context, bookings []*domain.Booking) error {
	blobs := make([]snapshotBooking, 0, len(bookings))
	for _, b := range bookings {
		blobs = append(blobs, toSnapshotBooking(b))
	}

	data, err := json.Marshal(blobs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, bookingsKey, data, 0).Err()
}

// LoadBookings reads the booking collection blob. A missing key returns a
// nil slice and no error, which callers treat as "never persisted".
func (s *SnapshotStore) LoadBookings(ctx context.Context) ([]*domain.Booking, error) {
	data, err := s.client.Get(ctx, bookingsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var blobs []snapshotBooking
	if err := json.Unmarshal(data, &blobs); err != nil {
		return nil, err
	}

	bookings := make([]*domain.Booking, 0, len(blobs))
	for i := range blobs {
		bookings = append(bookings, fromSnapshotBooking(&blobs[i]))
	}
	return bookings, nil
}

// SaveSession persists the principal snapshot for a live session.
func (s *SnapshotStore) SaveSession(ctx context.Context, p *domain.Principal) error {
	data, err := json.Marshal(snapshotPrincipal{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Role:  string(p.Role),
		Phone: p.Phone,
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+p.ID, data, 0).Err()
}

// LoadSession reads the principal snapshot for the given id. A missing key
// means logged out and returns (nil, nil).
func (s *SnapshotStore) LoadSession(ctx context.Context, id string) (*domain.Principal, error) {
	data, err := s.client.Get(ctx, sessionPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var blob snapshotPrincipal
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, err
	}
	return &domain.Principal{
		ID:    blob.ID,
		Name:  blob.Name,
		Email: blob.Email,
		Role:  domain.Role(blob.Role),
		Phone: blob.Phone,
	}, nil
}

// DeleteSession clears the principal snapshot on logout.
func (s *SnapshotStore) DeleteSession(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionPrefix+id).Err()
}

func toSnapshotBooking(b *domain.Booking) snapshotBooking {
	return snapshotBooking{
		ID:       b.ID,
		UserID:   b.UserID,
		DriverID: b.DriverID,
		Pickup:   toSnapshotLocation(b.Pickup),
		Dropoff:  toSnapshotLocation(b.Dropoff),
		CabType: snapshotCabType{
			ID:          b.CabType.ID,
			Name:        b.CabType.Name,
			Description: b.CabType.Description,
			BasePrice:   b.CabType.BasePrice,
			PricePerKm:  b.CabType.PricePerKm,
			Image:       b.CabType.Image,
		},
		Status:    string(b.Status),
		Fare:      b.Fare,
		Distance:  b.Distance,
		Date:      b.Date,
		CreatedAt: b.CreatedAt,
	}
}

func fromSnapshotBooking(blob *snapshotBooking) *domain.Booking {
	return &domain.Booking{
		ID:       blob.ID,
		UserID:   blob.UserID,
		DriverID: blob.DriverID,
		Pickup:   fromSnapshotLocation(blob.Pickup),
		Dropoff:  fromSnapshotLocation(blob.Dropoff),
		CabType: domain.CabType{
			ID:          blob.CabType.ID,
			Name:        blob.CabType.Name,
			Description: blob.CabType.Description,
			BasePrice:   blob.CabType.BasePrice,
			PricePerKm:  blob.CabType.PricePerKm,
			Image:       blob.CabType.Image,
		},
		Status:    domain.BookingStatus(blob.Status),
		Fare:      blob.Fare,
		Distance:  blob.Distance,
		Date:      blob.Date,
		CreatedAt: blob.CreatedAt,
	}
}

func toSnapshotLocation(loc domain.Location) snapshotLocation {
	out := snapshotLocation{Address: loc.Address}
	if loc.Coordinates != nil {
		out.Coordinates = &snapshotCoordinates{Lat: loc.Coordinates.Lat, Lng: loc.Coordinates.Lng}
	}
	return out
}

func fromSnapshotLocation(loc snapshotLocation) domain.Location {
	out := domain.Location{Address: loc.Address}
	if loc.Coordinates != nil {
		out.Coordinates = &domain.Coordinates{Lat: loc.Coordinates.Lat, Lng: loc.Coordinates.Lng}
	}
	return out
}
