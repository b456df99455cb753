package app

import (
	"time"

	"cabbook/internal/domain"
	"cabbook/internal/service"
)

// DemoDirectory is the fixed directory of demo accounts. Login matches
// against these by email and role; the ids anchor the seeded bookings.
func DemoDirectory() []*domain.Principal {
	return []*domain.Principal{
		{ID: "1", Name: "John Doe", Email: "user@example.com", Role: domain.RoleCustomer, Phone: "555-1234"},
		{ID: "2", Name: "Jane Smith", Email: "driver@example.com", Role: domain.RoleDriver, Phone: "555-5678"},
		{ID: "3", Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin},
	}
}

// SampleBookings builds the demo booking collection used when the store has
// never been persisted: one completed ride, one pending request and one in
// progress. Fares follow the catalog pricing for their distances.
func SampleBookings(catalog *service.Catalog) []*domain.Booking {
	now := time.Now()
	twoDaysAgo := now.Add(-48 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	economy, _ := catalog.GetByID("1")
	premium, _ := catalog.GetByID("2")
	suv, _ := catalog.GetByID("3")

	return []*domain.Booking{
		{
			ID:        "1",
			UserID:    "1",
			DriverID:  "2",
			Pickup:    domain.Location{Address: "123 Main St, New York, NY"},
			Dropoff:   domain.Location{Address: "456 Broadway, New York, NY"},
			CabType:   economy,
			Status:    domain.BookingStatusCompleted,
			Fare:      130,
			Distance:  10,
			Date:      twoDaysAgo,
			CreatedAt: twoDaysAgo,
		},
		{
			ID:        "2",
			UserID:    "1",
			Pickup:    domain.Location{Address: "789 Park Ave, New York, NY"},
			Dropoff:   domain.Location{Address: "101 5th Ave, New York, NY"},
			CabType:   premium,
			Status:    domain.BookingStatusPending,
			Fare:      224,
			Distance:  12,
			Date:      now,
			CreatedAt: now,
		},
		{
			ID:        "3",
			UserID:    "1",
			DriverID:  "2",
			Pickup:    domain.Location{Address: "300 Madison Ave, New York, NY"},
			Dropoff:   domain.Location{Address: "350 Park Ave, New York, NY"},
			CabType:   suv,
			Status:    domain.BookingStatusInProgress,
			Fare:      195,
			Distance:  5,
			Date:      now,
			CreatedAt: yesterday,
		},
	}
}
