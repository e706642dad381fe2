package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/providers"
)

type contextKey string

const principalKey contextKey = "principal"

// ContextWithPrincipal stores a verified principal in the context.
func ContextWithPrincipal(ctx context.Context, principal entities.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (entities.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(entities.Principal)
	return principal, ok
}

// RequireAuth verifies the bearer token and stores the principal in the
// request context.
func RequireAuth(tokens providers.TokenProvider) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respondUnauthorized(w, "missing bearer token")
				return
			}

			principal, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respondUnauthorized(w, "invalid or expired session token")
				return
			}

			next(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		}
	}
}

// RestrictTo rejects authenticated principals whose role is not listed.
// It must run inside RequireAuth.
func RestrictTo(roles ...entities.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				respondUnauthorized(w, "missing bearer token")
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					next(w, r)
					return
				}
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "you do not have permission to perform this action",
			})
		}
	}
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
