package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/ftransport/ftransport/internal/logger"
)

// Server wraps the HTTP server with graceful shutdown.
type Server struct {
	srv *http.Server
}

// NewServer creates a server on addr. The baseCtx is the base context
// for all incoming requests; cancelling it makes in-flight event
// streams and handlers stop promptly during shutdown.
func NewServer(baseCtx context.Context, addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:    addr,
			Handler: handler,
			BaseContext: func(_ net.Listener) context.Context {
				return baseCtx
			},
			ReadTimeout: 15 * time.Second,
			// No write timeout: event streams stay open for the whole
			// duration of a transfer.
			WriteTimeout: 0,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	logger.Info("http server listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
