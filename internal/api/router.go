// Package api exposes the service over HTTP as JSON.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/erazemk/najdeno/internal/service"
)

// Options configures the router.
type Options struct {
	// CORSOrigins lists allowed origins. Empty allows any.
	CORSOrigins []string
}

// NewRouter creates the HTTP handler with all endpoints and middleware.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	mux := http.NewServeMux()

	h := &Handler{svc: svc}
	authMW := AuthMiddleware(svc)

	mux.Handle("GET /{$}", apiFunc(h.Index))
	mux.Handle("GET /api/health", apiFunc(h.Health))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Items.
	mux.Handle("GET /api/items", apiFunc(h.ListItems))
	mux.Handle("POST /api/items", apiFunc(h.CreateItem))
	mux.Handle("GET /api/items/export", apiFunc(h.ExportItems))
	mux.Handle("GET /api/items/{id}", apiFunc(h.GetItem))
	mux.Handle("PUT /api/items/{id}", apiFunc(h.UpdateItem))
	mux.Handle("PATCH /api/items/{id}", apiFunc(h.UpdateItem))
	mux.Handle("DELETE /api/items/{id}", apiFunc(h.DeleteItem))
	mux.Handle("PUT /api/items/{id}/image", apiFunc(h.UploadImage))
	mux.Handle("GET /api/items/{id}/image", apiFunc(h.GetImage))
	mux.Handle("GET /api/search", apiFunc(h.Search))

	// Statistics.
	mux.Handle("GET /api/stats", apiFunc(h.Stats))
	mux.Handle("GET /api/stats/cities", apiFunc(h.StatsByCity))
	mux.Handle("GET /api/stats/recent", apiFunc(h.StatsRecent))

	// Users and auth.
	mux.Handle("POST /api/users", apiFunc(h.CreateUser))
	mux.Handle("POST /api/auth/register", apiFunc(h.CreateUser))
	mux.Handle("GET /api/users", authMW(apiFunc(h.ListUsers)))
	mux.Handle("POST /api/login", apiFunc(h.Login))
	mux.Handle("POST /api/auth/login", apiFunc(h.Login))
	mux.Handle("POST /api/auth/logout", authMW(apiFunc(h.Logout)))

	// Reports.
	mux.Handle("POST /api/reports", apiFunc(h.CreateReport))
	mux.Handle("GET /api/reports", apiFunc(h.ListReports))
	mux.Handle("GET /api/reports/export", apiFunc(h.ExportReports))

	var handler http.Handler = LoggingMiddleware(mux)
	handler = CORSMiddleware(opts.CORSOrigins)(handler)
	handler = RequestIDMiddleware(handler)
	return otelhttp.NewHandler(handler, "najdeno")
}

// Handler serves the API endpoints.
type Handler struct {
	svc *service.Service
}
