package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/providers"
	"github.com/wanderlyst/backend/pkg/config"
)

// JWTProvider implements the TokenProvider interface with HS256 signed
// tokens. The principal's role travels in the token so authorization does not
// need a user lookup per request; a role change takes effect when the token
// expires.
type JWTProvider struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTProvider creates a new JWT provider
func NewJWTProvider(cfg *config.AuthConfig) (*JWTProvider, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	return &JWTProvider{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
	}, nil
}

var _ providers.TokenProvider = (*JWTProvider)(nil)

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a session token for the principal
func (p *JWTProvider) Issue(principal entities.Principal) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role: string(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify validates a session token and returns its principal
func (p *JWTProvider) Verify(tokenString string) (entities.Principal, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return entities.Principal{}, err
	}
	if !token.Valid || claims.Subject == "" {
		return entities.Principal{}, fmt.Errorf("invalid session token")
	}

	role := entities.Role(claims.Role)
	if !role.Valid() {
		return entities.Principal{}, fmt.Errorf("invalid role in session token")
	}

	return entities.Principal{UserID: claims.Subject, Role: role}, nil
}
