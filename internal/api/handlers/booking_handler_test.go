package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wanderlyst/backend/internal/api/handlers"
	"github.com/wanderlyst/backend/internal/api/middleware"
	"github.com/wanderlyst/backend/internal/application/services"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/repositories"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

const (
	testTourID    = "2d1f8c1a-9b4e-4f0c-8a6d-3a7b2e5c9d10"
	testBookingID = "5e8a2f3b-1c6d-4e9f-b0a7-8d4c2e1f6a39"
	testUserID    = "9c3b7e1d-5a2f-4c8e-9d6b-0f4a8e2c7b15"
)

type stubBookingService struct {
	booked    []services.BookTourCommand
	booking   *entities.Booking
	bookings  []*entities.Booking
	filter    repositories.BookingFilter
	cancelled []string
	err       error
}

func (s *stubBookingService) BookTour(ctx context.Context, principal entities.Principal, cmd services.BookTourCommand) (*entities.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.booked = append(s.booked, cmd)
	return s.booking, nil
}

func (s *stubBookingService) GetBooking(ctx context.Context, bookingID string) (*entities.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.booking, nil
}

func (s *stubBookingService) ListBookings(ctx context.Context, filter repositories.BookingFilter) ([]*entities.Booking, error) {
	s.filter = filter
	return s.bookings, s.err
}

func (s *stubBookingService) ListMyBookings(ctx context.Context, principal entities.Principal) ([]*entities.Booking, error) {
	return s.bookings, s.err
}

func (s *stubBookingService) ListCompletedBookings(ctx context.Context) ([]*entities.Booking, error) {
	return s.bookings, s.err
}

func (s *stubBookingService) ListIncompleteBookings(ctx context.Context) ([]*entities.Booking, error) {
	return s.bookings, s.err
}

func (s *stubBookingService) CancelBooking(ctx context.Context, principal entities.Principal, bookingID string) error {
	if s.err != nil {
		return s.err
	}
	s.cancelled = append(s.cancelled, bookingID)
	return nil
}

func authenticated(r *http.Request, role entities.Role) *http.Request {
	ctx := middleware.ContextWithPrincipal(r.Context(), entities.Principal{
		UserID: testUserID,
		Role:   role,
	})
	return r.WithContext(ctx)
}

func TestBookingHandler_BookTour_Success(t *testing.T) {
	service := &stubBookingService{booking: &entities.Booking{ID: testBookingID, TourID: testTourID}}
	handler := handlers.NewBookingHandler(service, nil)

	body := `{
		"participants": [{
			"name": "Ada Traveller",
			"email": "ada@example.com",
			"gender": "female",
			"age": 31,
			"phone_number": "0123456789",
			"address": "12 Harbour Road"
		}],
		"booking_date": "2026-10-01T00:00:00Z"
	}`
	req := httptest.NewRequest("POST", "/api/tours/"+testTourID+"/bookings", strings.NewReader(body))
	req.SetPathValue("id", testTourID)
	w := httptest.NewRecorder()

	handler.BookTour(w, authenticated(req, entities.RoleCustomer))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, service.booked, 1)
	assert.Equal(t, testTourID, service.booked[0].TourID)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), service.booked[0].BookingDate)
}

func TestBookingHandler_BookTour_InvalidParticipant(t *testing.T) {
	service := &stubBookingService{}
	handler := handlers.NewBookingHandler(service, nil)

	body := `{
		"participants": [{"name": "No Contact Details"}],
		"booking_date": "2026-10-01T00:00:00Z"
	}`
	req := httptest.NewRequest("POST", "/api/tours/"+testTourID+"/bookings", strings.NewReader(body))
	req.SetPathValue("id", testTourID)
	w := httptest.NewRecorder()

	handler.BookTour(w, authenticated(req, entities.RoleCustomer))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, service.booked)
}

func TestBookingHandler_BookTour_MalformedTourID(t *testing.T) {
	service := &stubBookingService{}
	handler := handlers.NewBookingHandler(service, nil)

	req := httptest.NewRequest("POST", "/api/tours/not-a-uuid/bookings", strings.NewReader(`{}`))
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	handler.BookTour(w, authenticated(req, entities.RoleCustomer))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_GetBooking_NotFound(t *testing.T) {
	service := &stubBookingService{err: apperrors.NewNotFoundError("booking not found")}
	handler := handlers.NewBookingHandler(service, nil)

	req := httptest.NewRequest("GET", "/api/bookings/"+testBookingID, nil)
	req.SetPathValue("id", testBookingID)
	w := httptest.NewRecorder()

	handler.GetBooking(w, authenticated(req, entities.RoleAdmin))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_ListBookings_AppliesQueryFilter(t *testing.T) {
	service := &stubBookingService{bookings: []*entities.Booking{{ID: testBookingID}}}
	handler := handlers.NewBookingHandler(service, nil)

	req := httptest.NewRequest("GET", "/api/bookings?tour_id="+testTourID, nil)
	w := httptest.NewRecorder()

	handler.ListBookings(w, authenticated(req, entities.RoleAdmin))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testTourID, service.filter.TourID)
	assert.Empty(t, service.filter.UserID)

	var response []entities.Booking
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
}

func TestBookingHandler_CancelBooking_Conflict(t *testing.T) {
	service := &stubBookingService{err: apperrors.NewConflictError("a completed booking cannot be cancelled")}
	handler := handlers.NewBookingHandler(service, nil)

	req := httptest.NewRequest("DELETE", "/api/bookings/"+testBookingID, nil)
	req.SetPathValue("id", testBookingID)
	w := httptest.NewRecorder()

	handler.CancelBooking(w, authenticated(req, entities.RoleCustomer))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_CancelBooking_Success(t *testing.T) {
	service := &stubBookingService{}
	handler := handlers.NewBookingHandler(service, nil)

	req := httptest.NewRequest("DELETE", "/api/bookings/"+testBookingID, nil)
	req.SetPathValue("id", testBookingID)
	w := httptest.NewRecorder()

	handler.CancelBooking(w, authenticated(req, entities.RoleCustomer))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{testBookingID}, service.cancelled)
}
