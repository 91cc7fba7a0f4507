package utils

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	DefaultReadTimeout     = 60 * time.Second
	DefaultWriteTimeout    = DefaultReadTimeout
	DefaultShutdownTimeout = 30 * time.Second
)

// Server wraps http.Server to support graceful shutdown.
type Server struct {
	*http.Server

	shutdownTimeout time.Duration
	signalChan      chan os.Signal
}

// NewServer creates a Server with timeouts and handler.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		shutdownTimeout: DefaultShutdownTimeout,
		signalChan:      make(chan os.Signal, 1),
	}
}

// Run serves until ctx is cancelled or SIGTERM/SIGINT arrives, then drains
// in-flight requests for up to the shutdown timeout.
func (srv *Server) Run(ctx context.Context) error {
	signal.Notify(srv.signalChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(srv.signalChan)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-srv.signalChan:
		Sugar.Infof("received %s, graceful shutting down HTTP server", sig)
	case <-ctx.Done():
		Sugar.Info("context cancelled, graceful shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
		return err
	}
	Sugar.Info("HTTP server shutdown success")
	return nil
}

// GraceServer starts an HTTP server with graceful shutdown.
func GraceServer(ctx context.Context, addr string, handler http.Handler) error {
	return NewServer(addr, handler, DefaultReadTimeout, DefaultWriteTimeout).Run(ctx)
}
