// Package http serves the dashboard page, its charts and JSON API, and the
// driver alert endpoints, next to the operational /healthz, /readyz and
// /metrics routes.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/road-accident-dashboard/internal/alert"
	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	"github.com/couchcryptid/road-accident-dashboard/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DatasetProvider hands out the shared dataset and reports whether it has
// been loaded.
type DatasetProvider interface {
	Get(ctx context.Context) (*domain.Dataset, error)
	CheckReadiness(ctx context.Context) error
}

// Services are the dependencies behind the routes.
type Services struct {
	Dataset  DatasetProvider
	Sessions *alert.SessionStore
	Notifier domain.Notifier
	Metrics  *observability.Metrics
}

// Server exposes the dashboard, the alert API and the operational endpoints.
type Server struct {
	httpServer *http.Server
	svc        Services
	logger     *slog.Logger
}

// NewServer creates an HTTP server with every dashboard and alert route plus
// /healthz, /readyz, and /metrics.
func NewServer(addr string, svc Services, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /charts/{section}", s.handleChart)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/summary/{section}", s.handleSection)
	mux.HandleFunc("POST /api/captcha", s.handleIssueCaptcha)
	mux.HandleFunc("POST /api/captcha/verify", s.handleVerifyCaptcha)
	mux.HandleFunc("POST /api/alerts", s.handleAlert)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc.Dataset))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
