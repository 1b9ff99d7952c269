// Package api serves read-only lookups against a sorted record file over
// HTTP. Writes go through the library or the CLI; the server only searches,
// so concurrent requests are safe as long as no writer rewrites the file
// underneath it.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/strideio/stridefile/pkg/bsfile"
)

// Server answers lookups against one sorted file.
type Server struct {
	file    *bsfile.SearchFile
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a server for file. A nil logger means slog.Default().
func NewServer(file *bsfile.SearchFile, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{file: file, metrics: metrics, logger: logger}
}

// Routes assembles the chi router with all endpoints and middleware.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))
		r.Get("/stats", s.metrics.InstrumentHandler("GET", "/api/v1/stats", s.handleStats))
		r.Get("/records/{key}", s.metrics.InstrumentHandler("GET", "/api/v1/records/{key}", s.handleGetAll))
		r.Get("/records/{key}/first", s.metrics.InstrumentHandler("GET", "/api/v1/records/{key}/first", s.handleGetFirst))
		r.Get("/records/{key}/last", s.metrics.InstrumentHandler("GET", "/api/v1/records/{key}/last", s.handleGetLast))
	})
	return r
}

// StartServer starts the HTTP server with all routes configured and blocks
// until it fails.
func StartServer(file *bsfile.SearchFile, config ServerConfig, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	server := NewServer(file, NewMetrics(reg), logger)

	r := server.Routes()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	server.logger.Info("serving index", slog.String("addr", addr), slog.String("path", file.Path()))
	return http.ListenAndServe(addr, r)
}
