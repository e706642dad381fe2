package repositories

import (
	"context"

	"github.com/wanderlyst/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID, or nil when no user exists
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by email, or nil when no user exists
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update updates a user's profile fields
	Update(ctx context.Context, user *entities.User) error

	// UpdateToursBooked replaces the user's booking back-reference list
	UpdateToursBooked(ctx context.Context, userID string, toursBooked []string) error

	// Delete removes a user
	Delete(ctx context.Context, id string) error
}

// SignupTokenRepository stores hashed signup verification tokens, keyed by email.
type SignupTokenRepository interface {
	// Upsert creates or replaces the token for an email
	Upsert(ctx context.Context, token *entities.SignupToken) error

	// GetByEmail retrieves the token for an email, or nil when none exists
	GetByEmail(ctx context.Context, email string) (*entities.SignupToken, error)

	// MarkVerified flags the email's token as verified
	MarkVerified(ctx context.Context, email string) error

	// Delete removes the token for an email
	Delete(ctx context.Context, email string) error
}
