package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// shutdownTimeout bounds graceful shutdown after a signal.
const shutdownTimeout = 30 * time.Second

// Shutdown gracefully shuts down the server.
// If the server hasn't been started, this is a no-op.
func (s *Server) Shutdown(ctx context.Context) error {
	s.httpServerMu.RLock()
	hs := s.httpServer
	s.httpServerMu.RUnlock()

	if hs == nil {
		return nil
	}

	return hs.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
// Returns empty string if the server hasn't been started.
func (s *Server) Addr() string {
	s.httpServerMu.RLock()
	defer s.httpServerMu.RUnlock()
	return s.listenAddr
}

// ListenAndServeWithShutdown starts the server with graceful shutdown
// handling. It listens for SIGINT and SIGTERM and shuts down cleanly.
// Returns nil on successful shutdown, or an error if the server fails to
// start.
func (s *Server) ListenAndServeWithShutdown() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	// Create the listener first so we know the actual address (important
	// for port 0).
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	hs := &http.Server{Handler: s.Handler()}

	s.httpServerMu.Lock()
	s.httpServer = hs
	s.listenAddr = listener.Addr().String()
	s.httpServerMu.Unlock()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverDone := make(chan error, 1)

	go func() {
		if err := hs.Serve(listener); err != http.ErrServerClosed {
			serverDone <- err
			return
		}
		serverDone <- nil
	}()

	log.Printf("Server started on %s", listener.Addr().String())

	// Signal that the server is ready
	close(s.ready)

	select {
	case sig := <-shutdown:
		log.Printf("Received signal %v, initiating shutdown...", sig)
	case err := <-serverDone:
		// Server stopped on its own (error or Shutdown called)
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := hs.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
		return err
	}

	log.Println("Server shutdown complete")

	// Wait for Serve to return
	<-serverDone

	return nil
}
