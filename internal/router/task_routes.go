package router

import (
	"net/http"

	"github.com/weekboard/api/internal/handler"
)

// registerTaskRoutes registers task-related routes. All of them require
// an authenticated caller; admin checks happen in the service layer.
func registerTaskRoutes(
	mux *http.ServeMux,
	h *handler.TaskHandler,
	authMiddleware func(http.Handler) http.Handler,
) {
	if h == nil {
		return
	}

	mux.Handle("GET /api/v1/tasks", authMiddleware(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/v1/tasks", authMiddleware(http.HandlerFunc(h.Create)))
	mux.Handle("POST /api/v1/tasks/assign", authMiddleware(http.HandlerFunc(h.Assign)))
	mux.Handle("PATCH /api/v1/tasks/{id}/complete", authMiddleware(http.HandlerFunc(h.Complete)))
	mux.Handle("GET /api/v1/tasks/analytics", authMiddleware(http.HandlerFunc(h.Analytics)))
}
