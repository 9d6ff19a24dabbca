package api

import (
	"log/slog"
	"net/http"
)

var endpoints = map[string]string{
	"items":   "/api/items",
	"search":  "/api/search?q=",
	"stats":   "/api/stats",
	"users":   "/api/users",
	"login":   "/api/login",
	"reports": "/api/reports",
	"health":  "/api/health",
	"metrics": "/metrics",
}

// Index handles GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) error {
	respond(w, http.StatusOK, map[string]any{
		"service":   "najdeno",
		"endpoints": endpoints,
	}, "lost & found API")
	return nil
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) error {
	if err := h.svc.Ping(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		jsonError(w, http.StatusServiceUnavailable, "store unavailable")
		return nil
	}
	respond(w, http.StatusOK, map[string]string{"status": "ok"}, "")
	return nil
}
