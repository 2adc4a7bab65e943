package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/weekboard/api/internal/domain"
	"github.com/weekboard/api/internal/service"
)

type contextKey string

const (
	// UserIDKey holds the authenticated user's id (string uuid).
	UserIDKey contextKey = "user_id"
	// RequestIDKey holds the per-request correlation id.
	RequestIDKey contextKey = "request_id"
)

// TokenValidator defines the behavior Authenticate needs from the auth service.
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, tokenString string) (*service.Claims, error)
}

// Authenticate verifies the bearer token and places the caller's user id
// in the request context.
func Authenticate(auth TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}

			claims, err := auth.ValidateAccessToken(r.Context(), strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Debug("Token validation failed", "error", err, "path", r.URL.Path)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"code":"` + string(domain.ErrCodeUnauthorized) + `","message":"Authentication required"}`))
}
