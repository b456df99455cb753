package service

import "errors"

var (
	// ErrInvalidCredentials is returned when no directory entry matches the
	// submitted email and role.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailInUse is returned when signup targets an email that already
	// exists in the directory, regardless of role.
	ErrEmailInUse = errors.New("email already in use")

	// ErrNotAuthenticated is returned when an operation requires a current
	// principal and none was supplied.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidRole is returned when a role is not one of customer, driver, admin.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidCabType is returned when a cab type id does not resolve in the catalog.
	ErrInvalidCabType = errors.New("invalid cab type")

	// ErrInvalidStatus is returned when a status is not a member of the enum.
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrBookingNotFound is returned when a status transition targets an
	// unknown booking id.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrIllegalTransition is returned when the transition table forbids the
	// requested status change for the acting role.
	ErrIllegalTransition = errors.New("status transition not allowed")

	// ErrForbidden is returned when the acting principal may not see or
	// change the requested resource.
	ErrForbidden = errors.New("operation not permitted for this role")
)
