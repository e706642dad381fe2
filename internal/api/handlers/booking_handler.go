package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wanderlyst/backend/internal/api/middleware"
	"github.com/wanderlyst/backend/internal/application/services"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/repositories"
	"github.com/wanderlyst/backend/internal/infrastructure/observability"
)

// BookingService defines the interface for booking operations
type BookingService interface {
	BookTour(ctx context.Context, principal entities.Principal, cmd services.BookTourCommand) (*entities.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*entities.Booking, error)
	ListBookings(ctx context.Context, filter repositories.BookingFilter) ([]*entities.Booking, error)
	ListMyBookings(ctx context.Context, principal entities.Principal) ([]*entities.Booking, error)
	ListCompletedBookings(ctx context.Context) ([]*entities.Booking, error)
	ListIncompleteBookings(ctx context.Context) ([]*entities.Booking, error)
	CancelBooking(ctx context.Context, principal entities.Principal, bookingID string) error
}

// BookingHandler handles booking requests
type BookingHandler struct {
	service BookingService
	metrics *observability.Metrics
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service BookingService, metrics *observability.Metrics) *BookingHandler {
	return &BookingHandler{service: service, metrics: metrics}
}

type bookTourRequest struct {
	Participants []entities.Participant `json:"participants" validate:"required,min=1,dive"`
	BookingDate  time.Time              `json:"booking_date" validate:"required"`
}

// BookTour handles POST /api/tours/{id}/bookings
func (h *BookingHandler) BookTour(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	principal, _ := middleware.PrincipalFromContext(r.Context())

	var req bookTourRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid booking payload")
		return
	}

	booking, err := h.service.BookTour(r.Context(), principal, services.BookTourCommand{
		TourID:       tourID,
		Participants: req.Participants,
		BookingDate:  req.BookingDate,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	observability.RecordBookingCreated(r.Context(), h.metrics, tourID)
	respondWithJSON(w, http.StatusCreated, booking)
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// ListBookings handles GET /api/bookings. The user_id and tour_id query
// parameters narrow the listing.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter := repositories.BookingFilter{
		UserID: r.URL.Query().Get("user_id"),
		TourID: r.URL.Query().Get("tour_id"),
	}

	bookings, err := h.service.ListBookings(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bookings)
}

// ListMyBookings handles GET /api/bookings/me
func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	bookings, err := h.service.ListMyBookings(r.Context(), principal)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bookings)
}

// ListCompletedBookings handles GET /api/bookings/completed
func (h *BookingHandler) ListCompletedBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListCompletedBookings(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bookings)
}

// ListIncompleteBookings handles GET /api/bookings/incomplete
func (h *BookingHandler) ListIncompleteBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListIncompleteBookings(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bookings)
}

// CancelBooking handles DELETE /api/bookings/{id}
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	principal, _ := middleware.PrincipalFromContext(r.Context())

	if err := h.service.CancelBooking(r.Context(), principal, bookingID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
