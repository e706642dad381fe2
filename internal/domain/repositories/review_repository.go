package repositories

import (
	"context"

	"github.com/wanderlyst/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review data operations
type ReviewRepository interface {
	// Create creates a new review
	Create(ctx context.Context, review *entities.Review) error

	// GetByID retrieves a review by ID, or nil when no review exists
	GetByID(ctx context.Context, id string) (*entities.Review, error)

	// List retrieves reviews matching the filter, ordered by rating descending
	// with creation order as the tie-break
	List(ctx context.Context, filter ReviewFilter) ([]*entities.Review, error)

	// Update updates a review's text and rating
	Update(ctx context.Context, review *entities.Review) error

	// Delete removes a review
	Delete(ctx context.Context, id string) error
}

// ReviewFilter narrows a review listing. Zero values mean "no constraint".
type ReviewFilter struct {
	TourID string
	UserID string
}
