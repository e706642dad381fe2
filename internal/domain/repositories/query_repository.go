package repositories

import (
	"context"

	"github.com/wanderlyst/backend/internal/domain/entities"
)

// QueryRepository defines the interface for contact-query data operations
type QueryRepository interface {
	// Create creates a new query
	Create(ctx context.Context, query *entities.Query) error

	// GetByID retrieves a query by ID, or nil when no query exists
	GetByID(ctx context.Context, id string) (*entities.Query, error)

	// List retrieves all queries, newest first
	List(ctx context.Context) ([]*entities.Query, error)

	// MarkReplied flags a query as answered
	MarkReplied(ctx context.Context, id string) error
}
