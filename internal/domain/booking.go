package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in-progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// ValidBookingStatus reports whether s is a member of the status enum.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Coordinates is an optional lat/lng pair on a location.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Location is a free-form pickup or dropoff point. Coordinates are only
// present when a geocoding source supplied them.
type Location struct {
	Address     string
	Coordinates *Coordinates
}

// Booking represents a single ride request. CabType is an embedded snapshot
// taken at creation time, not a reference into the catalog, so later catalog
// changes never rewrite history. Fare is computed once at creation and never
// recomputed.
type Booking struct {
	ID        string
	UserID    string
	DriverID  string
	Pickup    Location
	Dropoff   Location
	CabType   CabType
	Status    BookingStatus
	Fare      float64
	Distance  float64
	Date      time.Time
	CreatedAt time.Time
}

// transitions is the legal state machine keyed by actor role. Customers may
// withdraw a pending booking, admins confirm or reject it, and the assigned
// driver moves it through the ride itself. Terminal states have no entries.
var transitions = map[Role]map[BookingStatus][]BookingStatus{
	RoleCustomer: {
		BookingStatusPending: {BookingStatusCancelled},
	},
	RoleAdmin: {
		BookingStatusPending: {BookingStatusConfirmed, BookingStatusCancelled},
	},
	RoleDriver: {
		BookingStatusConfirmed:  {BookingStatusInProgress},
		BookingStatusInProgress: {BookingStatusCompleted},
	},
}

// CanTransition reports whether the given role may move a booking from one
// status to another.
func CanTransition(role Role, from, to BookingStatus) bool {
	for _, next := range transitions[role][from] {
		if next == to {
			return true
		}
	}
	return false
}
