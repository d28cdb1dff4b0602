package handler

import (
	"log/slog"
	"net/http"

	"github.com/wadjakorntonsri/shortlink/pkg/config"
	"github.com/wadjakorntonsri/shortlink/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, service ports.LinkService, logger *slog.Logger) http.Handler {
	h := NewHTTPHandler(service, logger, cfg.Version)
	m := newMetrics()
	mw := NewMiddleware(logger, m)

	mux := http.NewServeMux()

	// Operational
	mux.HandleFunc("GET /healthz", h.Health)
	mux.Handle("GET /metrics", m.handler())

	// API
	mux.HandleFunc("GET /api/links", h.List)
	mux.HandleFunc("POST /api/links", h.Create)
	mux.HandleFunc("GET /api/links/{code}", h.Get)
	mux.HandleFunc("DELETE /api/links/{code}", h.Delete)

	// Short links
	mux.HandleFunc("GET /{code}", h.Redirect)
	mux.HandleFunc("DELETE /{code}", h.Delete)

	return mw.Chain(mux)
}
