// internal/middleware/auth.go

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anquilosaurios/backend-core/internal/auth"
)

type contextKey string

// claimsKey stores the authenticated principal's claims in the request context.
const claimsKey contextKey = "authClaims"

// ClaimsFromContext returns the claims placed by RequireAuth, or nil when
// the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token's claims in the request context for downstream handlers.
func RequireAuth(tokens *auth.TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ParseClaims(token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin layers on RequireAuth and rejects principals without the
// Admin role claim.
func RequireAdmin(tokens *auth.TokenService) func(next http.Handler) http.Handler {
	requireAuth := RequireAuth(tokens)
	return func(next http.Handler) http.Handler {
		return requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil || claims.Role != auth.RoleAdmin {
				http.Error(w, "admin privileges required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
