// Package http hosts the API server wrapper around net/http.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/observability/logger"
)

// Server wraps http.Server with the timeouts an auth API wants.
type Server struct {
	srv *http.Server
}

// NewServer creates a Server listening on addr with handler.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	logger.L().Info("http server listening", logger.String("addr", s.srv.Addr))
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
