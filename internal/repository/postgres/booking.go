package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"cabbook/internal/domain"
	"cabbook/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of
// repository.BookingRepository. IDs come from a sequence rendered as decimal
// strings, which keeps the observable format of the in-memory store while
// making assignment collision-safe. Each insert draws exactly one sequence
// value, so ids stay gapless; listings order by the numeric id.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

// cabTypeBlob is the embedded cab-type snapshot stored as JSONB.
type cabTypeBlob struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"basePrice"`
	PricePerKm  float64 `json:"pricePerKm"`
	Image       string  `json:"image"`
}

const bookingColumns = `id, user_id, driver_id, pickup_address, pickup_lat, pickup_lng,
	dropoff_address, dropoff_lat, dropoff_lng, cab_type, status, fare, distance, date, created_at`

// Create persists a new booking, drawing the ID from the sequence.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES (nextval('bookings_id_seq')::text, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	cabType, err := json.Marshal(cabTypeBlob{
		ID:          booking.CabType.ID,
		Name:        booking.CabType.Name,
		Description: booking.CabType.Description,
		BasePrice:   booking.CabType.BasePrice,
		PricePerKm:  booking.CabType.PricePerKm,
		Image:       booking.CabType.Image,
	})
	if err != nil {
		return err
	}

	pickupLat, pickupLng := coordColumns(booking.Pickup)
	dropoffLat, dropoffLng := coordColumns(booking.Dropoff)

	return r.q.QueryRowContext(ctx, query,
		booking.UserID,
		nullString(booking.DriverID),
		booking.Pickup.Address,
		pickupLat,
		pickupLng,
		booking.Dropoff.Address,
		dropoffLat,
		dropoffLng,
		cabType,
		booking.Status,
		booking.Fare,
		booking.Distance,
		booking.Date,
		booking.CreatedAt,
	).Scan(&booking.ID)
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// GetAll retrieves every booking in insertion order.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY id::bigint`
	return r.queryBookings(ctx, query)
}

// GetByUserID retrieves the bookings created by the given user.
func (r *BookingRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY id::bigint`
	return r.queryBookings(ctx, query, userID)
}

// GetByDriverID retrieves the bookings assigned to the given driver.
func (r *BookingRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE driver_id = $1 ORDER BY id::bigint`
	return r.queryBookings(ctx, query, driverID)
}

// Update updates an existing booking. Only status and driver assignment
// change after creation; the remaining columns are immutable.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `UPDATE bookings SET status = $1, driver_id = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, booking.Status, nullString(booking.DriverID), booking.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Seed inserts bookings with their preassigned IDs and advances the sequence
// past them. Used once to load the demo collection into an empty table.
func (r *BookingRepository) Seed(ctx context.Context, bookings []*domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO NOTHING
	`

	for _, b := range bookings {
		cabType, err := json.Marshal(cabTypeBlob{
			ID:          b.CabType.ID,
			Name:        b.CabType.Name,
			Description: b.CabType.Description,
			BasePrice:   b.CabType.BasePrice,
			PricePerKm:  b.CabType.PricePerKm,
			Image:       b.CabType.Image,
		})
		if err != nil {
			return err
		}
		pickupLat, pickupLng := coordColumns(b.Pickup)
		dropoffLat, dropoffLng := coordColumns(b.Dropoff)

		_, err = r.q.ExecContext(ctx, query,
			b.ID, b.UserID, nullString(b.DriverID),
			b.Pickup.Address, pickupLat, pickupLng,
			b.Dropoff.Address, dropoffLat, dropoffLng,
			cabType, b.Status, b.Fare, b.Distance, b.Date, b.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	// Advance the sequence past the highest assigned id, never backwards,
	// so re-seeding on a later boot cannot make Create reissue an id.
	_, err := r.q.ExecContext(ctx,
		`SELECT setval('bookings_id_seq', COALESCE((SELECT MAX(id::bigint) FROM bookings), 0) + 1, false)`)
	return err
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var driverID sql.NullString
	var pickupLat, pickupLng, dropoffLat, dropoffLng sql.NullFloat64
	var cabType []byte
	var status string

	err := row.Scan(
		&b.ID,
		&b.UserID,
		&driverID,
		&b.Pickup.Address,
		&pickupLat,
		&pickupLng,
		&b.Dropoff.Address,
		&dropoffLat,
		&dropoffLng,
		&cabType,
		&status,
		&b.Fare,
		&b.Distance,
		&b.Date,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.DriverID = driverID.String
	b.Status = domain.BookingStatus(status)
	b.Pickup.Coordinates = coordsFromColumns(pickupLat, pickupLng)
	b.Dropoff.Coordinates = coordsFromColumns(dropoffLat, dropoffLng)

	var blob cabTypeBlob
	if err := json.Unmarshal(cabType, &blob); err != nil {
		return nil, err
	}
	b.CabType = domain.CabType{
		ID:          blob.ID,
		Name:        blob.Name,
		Description: blob.Description,
		BasePrice:   blob.BasePrice,
		PricePerKm:  blob.PricePerKm,
		Image:       blob.Image,
	}

	return &b, nil
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func coordColumns(loc domain.Location) (sql.NullFloat64, sql.NullFloat64) {
	if loc.Coordinates == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Coordinates.Lat, Valid: true},
		sql.NullFloat64{Float64: loc.Coordinates.Lng, Valid: true}
}

func coordsFromColumns(lat, lng sql.NullFloat64) *domain.Coordinates {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
}
