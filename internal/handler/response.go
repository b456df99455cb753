package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cabbook/internal/domain"
	"cabbook/internal/repository"
	"cabbook/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidCabType),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, service.ErrIllegalTransition):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// LocationPayload is the wire shape of a pickup or dropoff point.
type LocationPayload struct {
	Address     string `json:"address"`
	Coordinates *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"coordinates,omitempty"`
}

func (p LocationPayload) toDomain() domain.Location {
	loc := domain.Location{Address: p.Address}
	if p.Coordinates != nil {
		loc.Coordinates = &domain.Coordinates{Lat: p.Coordinates.Lat, Lng: p.Coordinates.Lng}
	}
	return loc
}

func locationPayload(loc domain.Location) LocationPayload {
	out := LocationPayload{Address: loc.Address}
	if loc.Coordinates != nil {
		out.Coordinates = &struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		}{Lat: loc.Coordinates.Lat, Lng: loc.Coordinates.Lng}
	}
	return out
}

// CabTypeResponse is the wire shape of a catalog entry.
type CabTypeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price"`
	PricePerKm  float64 `json:"price_per_km"`
	Image       string  `json:"image"`
}

func cabTypeResponse(t domain.CabType) CabTypeResponse {
	return CabTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		BasePrice:   t.BasePrice,
		PricePerKm:  t.PricePerKm,
		Image:       t.Image,
	}
}

// BookingResponse is the wire shape of a booking.
type BookingResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	DriverID  string          `json:"driver_id,omitempty"`
	Pickup    LocationPayload `json:"pickup"`
	Dropoff   LocationPayload `json:"dropoff"`
	CabType   CabTypeResponse `json:"cab_type"`
	Status    string          `json:"status"`
	Fare      float64         `json:"fare"`
	Distance  float64         `json:"distance"`
	Date      string          `json:"date"`
	CreatedAt string          `json:"created_at"`
}

func bookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		DriverID:  b.DriverID,
		Pickup:    locationPayload(b.Pickup),
		Dropoff:   locationPayload(b.Dropoff),
		CabType:   cabTypeResponse(b.CabType),
		Status:    string(b.Status),
		Fare:      b.Fare,
		Distance:  b.Distance,
		Date:      b.Date.Format(time.RFC3339),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func bookingListResponse(bookings []*domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingResponse(b))
	}
	return out
}

// PrincipalResponse is the wire shape of an account.
type PrincipalResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Phone string `json:"phone,omitempty"`
}

func principalResponse(p *domain.Principal) PrincipalResponse {
	return PrincipalResponse{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Role:  string(p.Role),
		Phone: p.Phone,
	}
}
