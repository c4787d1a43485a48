package middleware

import (
	"context"
	"net/http"
	"strings"

	"pbm-backend/internal/auth"
)

type contextKey string

// ClaimsKey holds the authenticated admin's claims in the request context.
const ClaimsKey contextKey = "admin_claims"

// AuthMiddleware guards the mutating admin endpoints with a bearer JWT.
type AuthMiddleware struct {
	jwt *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtManager}
}

func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Missing authorization token", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwt.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
