package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// MetricsPath is where the Prometheus handler is mounted.
const MetricsPath = "/metrics"

// Server is the preview HTTP server: the site router plus metrics.
type Server struct {
	addr     string
	handler  http.Handler
	srv      *http.Server
	listener net.Listener
}

// NewServer builds a server for the site in fsys. reg may be nil to expose
// the default Prometheus registry.
func NewServer(addr string, fsys billy.Filesystem, reg *prometheus.Registry) *Server {
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, metrics.HTTPHandler(reg))
	mux.Handle("/", NewRouter(fsys))
	return &Server{addr: addr, handler: mux}
}

// Handler exposes the routing table, mainly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.listener = ln
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server stopped", logfields.Error(err))
		}
	}()
	slog.Info("Preview server listening", logfields.URL("http://"+s.Addr()))
	return nil
}

// Addr is the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("preview server shutdown: %w", err)
	}
	slog.Info("Preview server stopped")
	return nil
}
