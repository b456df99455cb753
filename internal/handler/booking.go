package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cabbook/internal/domain"
	"cabbook/internal/middleware"
	"cabbook/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// QuoteRequest is the HTTP request body for a fare preview.
type QuoteRequest struct {
	Pickup    LocationPayload `json:"pickup"`
	Dropoff   LocationPayload `json:"dropoff"`
	CabTypeID string          `json:"cab_type_id"`
}

// QuoteResponse is the HTTP response for a fare preview.
type QuoteResponse struct {
	CabType  CabTypeResponse `json:"cab_type"`
	Distance float64         `json:"distance"`
	Fare     float64         `json:"fare"`
}

// Quote handles POST /v1/bookings/quote
func (h *BookingHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	quote, err := h.bookingService.QuoteFare(c.Request.Context(), req.Pickup.toDomain(), req.Dropoff.toDomain(), req.CabTypeID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, QuoteResponse{
		CabType:  cabTypeResponse(quote.CabType),
		Distance: quote.Distance,
		Fare:     quote.Fare,
	})
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	Pickup    LocationPayload `json:"pickup"`
	Dropoff   LocationPayload `json:"dropoff"`
	CabTypeID string          `json:"cab_type_id"`
}

// Create handles POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Pickup.Address == "" || req.Dropoff.Address == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "pickup and dropoff addresses are required"})
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), middleware.Principal(c), service.CreateBookingRequest{
		Pickup:    req.Pickup.toDomain(),
		Dropoff:   req.Dropoff.toDomain(),
		CabTypeID: req.CabTypeID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, bookingResponse(booking))
}

// List handles GET /v1/bookings
func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.bookingService.ListFor(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingListResponse(bookings))
}

// Get handles GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookingService.ByID(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}

// Cancel handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	if middleware.Principal(c) == nil {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	if err := h.bookingService.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateStatusRequest is the HTTP request body for a status transition.
type UpdateStatusRequest struct {
	Status   string `json:"status"`
	DriverID string `json:"driver_id,omitempty"`
}

// UpdateStatus handles POST /v1/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), middleware.Principal(c), service.UpdateStatusRequest{
		BookingID: c.Param("id"),
		Status:    domain.BookingStatus(req.Status),
		DriverID:  req.DriverID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}
