package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/pkg/config"
)

func newTestProvider(t *testing.T, ttl time.Duration) *JWTProvider {
	t.Helper()
	provider, err := NewJWTProvider(&config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  ttl,
	})
	require.NoError(t, err)
	return provider
}

func TestJWTProvider_RoundTrip(t *testing.T) {
	provider := newTestProvider(t, time.Hour)
	principal := entities.Principal{UserID: "user-1", Role: entities.RoleGuide}

	token, err := provider.Issue(principal)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verified, err := provider.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, principal, verified)
}

func TestJWTProvider_ExpiredToken(t *testing.T) {
	provider := newTestProvider(t, -time.Minute)

	token, err := provider.Issue(entities.Principal{UserID: "user-1", Role: entities.RoleCustomer})
	require.NoError(t, err)

	_, err = provider.Verify(token)
	assert.Error(t, err)
}

func TestJWTProvider_WrongSecret(t *testing.T) {
	issuer := newTestProvider(t, time.Hour)
	verifier, err := NewJWTProvider(&config.AuthConfig{
		JWTSecret: "other-secret",
		TokenTTL:  time.Hour,
	})
	require.NoError(t, err)

	token, err := issuer.Issue(entities.Principal{UserID: "user-1", Role: entities.RoleCustomer})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTProvider_GarbageToken(t *testing.T) {
	provider := newTestProvider(t, time.Hour)

	_, err := provider.Verify("not.a.token")
	assert.Error(t, err)
}

func TestNewJWTProvider_MissingSecret(t *testing.T) {
	_, err := NewJWTProvider(&config.AuthConfig{TokenTTL: time.Hour})
	assert.Error(t, err)
}

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher()

	hashed, err := hasher.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hashed)

	assert.True(t, hasher.Compare(hashed, "s3cret-pass"))
	assert.False(t, hasher.Compare(hashed, "wrong"))
}
