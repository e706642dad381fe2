package repositories

import (
	"context"

	"github.com/wanderlyst/backend/internal/domain/entities"
)

// TourRepository defines the interface for tour data operations
type TourRepository interface {
	// Create creates a new tour
	Create(ctx context.Context, tour *entities.Tour) error

	// GetByID retrieves a tour by ID, or nil when no tour exists
	GetByID(ctx context.Context, id string) (*entities.Tour, error)

	// List retrieves all tours
	List(ctx context.Context) ([]*entities.Tour, error)

	// Update updates a tour's descriptive fields and images
	Update(ctx context.Context, tour *entities.Tour) error

	// UpdateAggregate writes the derived rating and the review id list as one
	// record update; both change together whenever a review is added, edited
	// or removed
	UpdateAggregate(ctx context.Context, tourID string, rating float64, reviews []string) error

	// UpdateGuides replaces the tour's guide membership list
	UpdateGuides(ctx context.Context, tourID string, guides []string) error

	// Delete removes a tour
	Delete(ctx context.Context, id string) error
}
