package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the schema when it does not exist yet. Statements are
// idempotent so running with MIGRATE=true on every boot is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE SEQUENCE IF NOT EXISTS users_id_seq`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			phone TEXT
		)`,
		`CREATE SEQUENCE IF NOT EXISTS bookings_id_seq`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			driver_id TEXT,
			pickup_address TEXT NOT NULL,
			pickup_lat DOUBLE PRECISION,
			pickup_lng DOUBLE PRECISION,
			dropoff_address TEXT NOT NULL,
			dropoff_lat DOUBLE PRECISION,
			dropoff_lng DOUBLE PRECISION,
			cab_type JSONB NOT NULL,
			status TEXT NOT NULL,
			fare DOUBLE PRECISION NOT NULL,
			distance DOUBLE PRECISION NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_driver_id ON bookings (driver_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
