package router

import (
	"log/slog"
	"net/http"

	"github.com/weekboard/api/internal/handler"
	"github.com/weekboard/api/internal/middleware"
	"github.com/weekboard/api/internal/ratelimit"
	"github.com/weekboard/api/internal/service"
)

// RouterConfig holds all dependencies needed for route setup.
type RouterConfig struct {
	AuthHandler *handler.AuthHandler
	TaskHandler *handler.TaskHandler

	AuthService *service.AuthService

	RateLimiter *ratelimit.RateLimiter

	Logger *slog.Logger
}

// Setup initializes all routes and returns the configured HTTP handler.
func Setup(config RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Create authentication middleware
	authMiddleware := middleware.Authenticate(config.AuthService, config.Logger)

	// Register all routes
	registerPublicRoutes(mux)
	registerAuthRoutes(mux, config.AuthHandler, authMiddleware)
	registerTaskRoutes(mux, config.TaskHandler, authMiddleware)
	registerAdminRoutes(mux, config.RateLimiter, config.Logger, authMiddleware)

	// Build middleware chain (applied in reverse order)
	var h http.Handler = mux
	h = middleware.Recovery(config.Logger)(h)
	h = middleware.RequestID()(h)
	h = middleware.Logging(config.Logger)(h)

	if config.RateLimiter != nil {
		h = config.RateLimiter.Middleware(h)
	}

	return h
}
