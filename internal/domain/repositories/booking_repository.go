package repositories

import (
	"context"

	"github.com/wanderlyst/backend/internal/domain/entities"
)

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	// Create creates a new booking
	Create(ctx context.Context, booking *entities.Booking) error

	// GetByID retrieves a booking by ID, or nil when no booking exists
	GetByID(ctx context.Context, id string) (*entities.Booking, error)

	// List retrieves bookings matching the filter, oldest first
	List(ctx context.Context, filter BookingFilter) ([]*entities.Booking, error)

	// MarkCompleted sets tour_completed. The write is idempotent and one-way;
	// nothing ever resets the flag
	MarkCompleted(ctx context.Context, id string) error

	// Delete removes a booking
	Delete(ctx context.Context, id string) error
}

// BookingFilter narrows a booking listing. Zero values mean "no constraint".
type BookingFilter struct {
	UserID string
	TourID string
}
