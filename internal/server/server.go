// Package server exposes the view pipeline over HTTP.
//
// The server is a thin chi router in front of a pipeline.Runner: one
// endpoint builds a view from a posted snapshot and computes positions for
// it, one fits a position frame onto a previous one, and two report health
// and build information. All bodies are JSON; errors use the envelope from
// pkg/httputil.
//
// # Endpoints
//
//	POST /api/v1/view    build a view from a snapshot and compute positions
//	POST /api/v1/align   fit a position frame onto a previous frame
//	GET  /healthz        liveness probe
//	GET  /version        build information
//
// # Usage
//
//	srv := server.New(server.Config{Addr: ":8080", Logger: logger})
//	if err := srv.Start(ctx); err != nil {
//	    logger.Fatal("server", "error", err)
//	}
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flockview/flockview/pkg/httputil"
	"github.com/flockview/flockview/pkg/pipeline"
)

// Default values for Config fields left unset.
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
)

// readHeaderTimeout bounds how long a client may take to send headers.
const readHeaderTimeout = 5 * time.Second

// Config configures a Server. Zero values select defaults.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Logger receives request and lifecycle logs. Defaults to log.Default().
	Logger *log.Logger

	// Runner executes the view pipeline. Defaults to an uncached runner.
	Runner *pipeline.Runner

	// ShutdownTimeout bounds graceful shutdown after ctx is cancelled.
	ShutdownTimeout time.Duration
}

// Server serves the view pipeline over HTTP.
type Server struct {
	cfg    Config
	router chi.Router
}

// New creates a Server, applying defaults for unset Config fields.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, for mounting under another router or
// for tests with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes assembles the middleware stack and the endpoint table.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(httputil.RequestID)
	r.Use(httputil.RequestLogger(s.cfg.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/view", s.handleView)
		r.Post("/align", s.handleAlign)
	})

	return r
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully. A clean shutdown returns nil.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
