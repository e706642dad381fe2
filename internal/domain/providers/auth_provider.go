package providers

import (
	"github.com/wanderlyst/backend/internal/domain/entities"
)

// PasswordHasher defines the interface for credential hashing.
type PasswordHasher interface {
	// Hash returns the hashed form of a plaintext secret
	Hash(plain string) (string, error)

	// Compare reports whether plain matches the stored hash
	Compare(hashed, plain string) bool
}

// TokenProvider issues and verifies the signed tokens the HTTP layer carries.
type TokenProvider interface {
	// Issue creates a signed token for the principal
	Issue(principal entities.Principal) (string, error)

	// Verify parses a token and returns the principal it was issued for
	Verify(token string) (entities.Principal, error)
}
