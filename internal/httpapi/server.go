// Package httpapi serves the daemon operations as a JSON HTTP API with an
// OpenAPI description at /openapi.json and docs at /docs.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/1broseidon/borderless/internal/ipc"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP control surface.
type Server struct {
	addr    string
	handler http.Handler
	logger  *slog.Logger
}

// NewServer builds the router for ctrl. The listener is opened by Serve.
func NewServer(addr string, ctrl ipc.Controller, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	api := humachi.New(r, huma.DefaultConfig("borderless", version))
	register(api, ctrl)

	return &Server{addr: addr, handler: r, logger: logger}
}

func (s *Server) String() string {
	return "http-api"
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve listens until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http api listening", "addr", ln.Addr().String())

	errC := make(chan error, 1)
	go func() { errC <- srv.Serve(ln) }()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errC; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
