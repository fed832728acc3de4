// Package web exposes the tabular engine over HTTP: multipart uploads
// in, downloadable artifacts out.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/tabforge-labs/tabforge/internal/engine"
)

// Server is the HTTP front of the engine.
type Server struct {
	engine    *engine.Engine
	addr      string
	maxUpload int64
	logger    *slog.Logger
}

// Config holds configuration for the server.
type Config struct {
	Engine *engine.Engine
	// Addr is the bind address, host:port or :port.
	Addr string
	// MaxUploadBytes caps the size of one request body.
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// NewServer creates a new server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		engine:    cfg.Engine,
		addr:      cfg.Addr,
		maxUpload: cfg.MaxUploadBytes,
		logger:    logger,
	}
}

// Handler builds the routed handler serving the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	SetupRoutes(r, NewHandlers(s.engine, s.maxUpload, s.logger))
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
