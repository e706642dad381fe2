package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/wanderlyst/backend/internal/domain/providers"
)

// BcryptHasher implements the PasswordHasher interface with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new bcrypt hasher
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

var _ providers.PasswordHasher = (*BcryptHasher)(nil)

// Hash hashes a plaintext secret
func (h *BcryptHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether plain matches the stored hash
func (h *BcryptHasher) Compare(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
