package router

import (
	"net/http"

	"github.com/weekboard/api/internal/handler"
)

// registerAuthRoutes registers authentication-related routes.
func registerAuthRoutes(
	mux *http.ServeMux,
	h *handler.AuthHandler,
	authMiddleware func(http.Handler) http.Handler,
) {
	if h == nil {
		return
	}

	// Public auth routes
	mux.HandleFunc("POST /api/v1/auth/signup", h.Signup)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", h.Refresh)

	// Protected auth routes
	mux.Handle("POST /api/v1/auth/logout", authMiddleware(http.HandlerFunc(h.Logout)))
}
