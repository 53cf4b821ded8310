package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/logimesh/config"
	"github.com/hupe1980/logimesh/logging"
	"github.com/hupe1980/logimesh/metrics"
	"github.com/hupe1980/logimesh/runner"
	"github.com/hupe1980/logimesh/scenario"
)

// Mesh is the part of *logimesh.Mesh the server needs.
type Mesh interface {
	Config() *config.Config
	Scenarios() ([]scenario.Info, error)
	Scenario(id int) (*scenario.Scenario, error)
	Graph() (string, error)
}

// Options configures a Server.
type Options struct {
	// AllowedOrigins lists origins (full origin or host name) accepted for
	// CORS and websocket upgrades. Empty means same host only.
	AllowedOrigins []string
	// Registry backs /metrics; a fresh logimesh registry if nil.
	Registry *prometheus.Registry
	// WriteTimeout bounds each websocket write.
	WriteTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
	ShutdownTimeout time.Duration
	Logger          logging.Logger
}

// Server serves the dashboard API.
type Server struct {
	mesh   Mesh
	runner *runner.Runner

	allowedOrigins  []string
	registry        *prometheus.Registry
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	logger          logging.Logger
}

// New creates a Server over mesh; runs are executed by r.
func New(mesh Mesh, r *runner.Runner, optFns ...func(o *Options)) *Server {
	opts := Options{
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 15 * time.Second,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Registry == nil {
		opts.Registry = metrics.NewRegistry()
	}

	return &Server{
		mesh:            mesh,
		runner:          r,
		allowedOrigins:  opts.AllowedOrigins,
		registry:        opts.Registry,
		writeTimeout:    opts.WriteTimeout,
		shutdownTimeout: opts.ShutdownTimeout,
		logger:          logging.OrNoOp(opts.Logger),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/info", s.handleInfo)
	mux.HandleFunc("GET /api/graph", s.handleGraph)
	mux.HandleFunc("GET /api/scenarios", s.handleScenarios)
	mux.HandleFunc("GET /api/scenarios/{id}", s.handleScenario)
	mux.HandleFunc("POST /api/scenarios/{id}/runs", s.handleStartRun)
	mux.HandleFunc("GET /api/scenarios/{id}/stream", s.handleStream)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleRun)
	mux.HandleFunc("DELETE /api/runs/{id}", s.handleCancelRun)
	mux.Handle("GET /metrics", metrics.Handler(s.registry))

	return s.loggingMiddleware(s.corsMiddleware(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server.listen", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	for _, id := range s.runner.Active() {
		_ = s.runner.Cancel(id)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	s.logger.Info("server.stopped")

	return nil
}
