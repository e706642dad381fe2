package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/repositories"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

// BookingService derives booking completion state and orchestrates booking
// creation and cancellation together with the owner's back-reference list.
//
// The booking write and the toursBooked write are two separate store
// operations with no transaction spanning them. A crash between them leaves a
// recoverable inconsistency: on creation a booking missing from its owner's
// list (re-addable), on cancellation a dangling id pointing at a deleted
// booking (removed on the next cancel attempt's membership check failing
// closed). Reference removal therefore always precedes record deletion.
type BookingService struct {
	bookingRepo repositories.BookingRepository
	tourRepo    repositories.TourRepository
	userRepo    repositories.UserRepository
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo repositories.BookingRepository,
	tourRepo repositories.TourRepository,
	userRepo repositories.UserRepository,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		tourRepo:    tourRepo,
		userRepo:    userRepo,
	}
}

// BookTourCommand is the validated input for BookTour.
type BookTourCommand struct {
	TourID       string
	Participants []entities.Participant
	BookingDate  time.Time
}

// BookTour creates a booking for the principal and records it in the
// principal's toursBooked list.
func (s *BookingService) BookTour(ctx context.Context, principal entities.Principal, cmd BookTourCommand) (*entities.Booking, error) {
	if len(cmd.Participants) == 0 {
		return nil, apperrors.NewValidationError("participants must be a non-empty list")
	}
	for _, p := range cmd.Participants {
		if p.Name == "" || p.Email == "" || !p.Gender.Valid() || p.Age <= 0 {
			return nil, apperrors.NewValidationError("invalid participant record")
		}
	}
	if cmd.BookingDate.IsZero() {
		return nil, apperrors.NewValidationError("invalid booking date")
	}

	tour, err := s.tourRepo.GetByID(ctx, cmd.TourID)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, apperrors.NewNotFoundError("no tour found with id " + cmd.TourID)
	}

	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("no user found with id " + principal.UserID)
	}

	booking := &entities.Booking{
		ID:            uuid.New().String(),
		UserID:        principal.UserID,
		TourID:        cmd.TourID,
		Participants:  cmd.Participants,
		BookingDate:   cmd.BookingDate,
		TourCompleted: false,
		CreatedAt:     time.Now(),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, apperrors.NewInternalError("failed to create booking", err)
	}

	toursBooked := AddUnique(user.ToursBooked, booking.ID)
	if err := s.userRepo.UpdateToursBooked(ctx, user.ID, toursBooked); err != nil {
		// The booking exists but is missing from the owner's list; surfaced as
		// internal, healed by support tooling rather than a fake rollback.
		return nil, apperrors.NewInternalError("failed to record booking against user", err)
	}

	return booking, nil
}

// GetBooking fetches a single booking, transitioning its completion state as a
// side effect of the read.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*entities.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperrors.NewNotFoundError("no booking found with id " + bookingID)
	}
	if err := s.reconcileCompletion(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// ListBookings returns all bookings matching the filter, each passed through
// the completion transition.
func (s *BookingService) ListBookings(ctx context.Context, filter repositories.BookingFilter) ([]*entities.Booking, error) {
	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, booking := range bookings {
		if err := s.reconcileCompletion(ctx, booking); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

// ListMyBookings returns all of the principal's bookings.
func (s *BookingService) ListMyBookings(ctx context.Context, principal entities.Principal) ([]*entities.Booking, error) {
	return s.ListBookings(ctx, repositories.BookingFilter{UserID: principal.UserID})
}

// ListCompletedBookings returns the bookings whose tours have taken place.
// Every booking observed is reconciled, not only the returned ones.
func (s *BookingService) ListCompletedBookings(ctx context.Context) ([]*entities.Booking, error) {
	return s.listByCompletion(ctx, true)
}

// ListIncompleteBookings returns the bookings still waiting on their tour
// date. Completed bookings seen along the way are still persisted.
func (s *BookingService) ListIncompleteBookings(ctx context.Context) ([]*entities.Booking, error) {
	return s.listByCompletion(ctx, false)
}

func (s *BookingService) listByCompletion(ctx context.Context, completed bool) ([]*entities.Booking, error) {
	bookings, err := s.ListBookings(ctx, repositories.BookingFilter{})
	if err != nil {
		return nil, err
	}
	filtered := make([]*entities.Booking, 0, len(bookings))
	for _, booking := range bookings {
		if booking.TourCompleted == completed {
			filtered = append(filtered, booking)
		}
	}
	return filtered, nil
}

// CancelBooking removes the principal's booking. The caller must own the
// booking and the booking id must be present in the caller's toursBooked list;
// requiring both guards against desynchronized back-references. Completed
// bookings can no longer be cancelled.
func (s *BookingService) CancelBooking(ctx context.Context, principal entities.Principal, bookingID string) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return apperrors.NewNotFoundError("no booking found with id " + bookingID)
	}
	if err := s.reconcileCompletion(ctx, booking); err != nil {
		return err
	}
	if booking.TourCompleted {
		return apperrors.NewConflictError("tour is already completed, the booking can no longer be cancelled")
	}
	if booking.UserID != principal.UserID {
		return apperrors.NewForbiddenError("booking belongs to another user")
	}

	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NewNotFoundError("no user found with id " + principal.UserID)
	}
	if !ContainsID(user.ToursBooked, bookingID) {
		return apperrors.NewForbiddenError("booking is not registered against this user")
	}

	// Reference removal first: a crash after this leaves a dangling booking
	// record rather than a live reference to a deleted one.
	if err := s.userRepo.UpdateToursBooked(ctx, user.ID, RemoveID(user.ToursBooked, bookingID)); err != nil {
		return apperrors.NewInternalError("failed to remove booking reference", err)
	}
	if err := s.bookingRepo.Delete(ctx, bookingID); err != nil {
		return apperrors.NewInternalError("failed to delete booking", err)
	}
	return nil
}

// reconcileCompletion flips and persists tourCompleted when the booking date
// has passed. The transition is one-way; an already-completed booking is left
// untouched.
func (s *BookingService) reconcileCompletion(ctx context.Context, booking *entities.Booking) error {
	if booking.TourCompleted || !booking.CompletedBy(time.Now()) {
		return nil
	}
	if err := s.bookingRepo.MarkCompleted(ctx, booking.ID); err != nil {
		return apperrors.NewInternalError("failed to persist booking completion", err)
	}
	booking.TourCompleted = true
	return nil
}
