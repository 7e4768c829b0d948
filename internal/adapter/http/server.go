// Package http serves the incident and source-health API alongside the
// liveness, readiness and metrics endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/incident-fusion-service/internal/observability"
)

// Server owns the listener and route table.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	incidents  IncidentLister
	health     HealthReporter
	logger     *slog.Logger
}

// NewServer wires the API routes behind CORS and request instrumentation.
// Probe and metrics routes are served bare.
func NewServer(addr string, ready sharedobs.ReadinessChecker, incidents IncidentLister, health HealthReporter, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		incidents: incidents,
		health:    health,
		logger:    logger,
	}

	api := map[string]http.HandlerFunc{
		"/api/incidents": s.handleIncidents,
		"/api/health":    s.handleSourceHealth,
	}

	mux := http.NewServeMux()
	for route, h := range api {
		wrapped := corsMiddleware(instrument(route, metrics, logger, h))
		mux.Handle("GET "+route, wrapped)
		mux.Handle("OPTIONS "+route, wrapped)
	}
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	s.handler = mux
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start listens until Shutdown; it then returns http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
