package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/teemow/assistant/internal/instrumentation"
	"github.com/teemow/assistant/internal/logging"
)

// DefaultMetricsAddr keeps the listener on loopback unless told otherwise.
const DefaultMetricsAddr = "127.0.0.1:9090"

// Timeouts of the metrics listener.
const (
	DefaultMetricsReadTimeout  = 10 * time.Second
	DefaultMetricsWriteTimeout = 10 * time.Second
	DefaultMetricsIdleTimeout  = 60 * time.Second
	DefaultShutdownTimeout     = 30 * time.Second
)

// MetricsServerConfig configures a MetricsServer.
type MetricsServerConfig struct {
	// Addr defaults to DefaultMetricsAddr; port 0 picks a free port.
	Addr string
	// InstrumentationProvider must run the prometheus exporter.
	InstrumentationProvider *instrumentation.Provider
	// Health adds the probe endpoints. Nil serves only a bare /healthz.
	Health *HealthChecker
	Logger *slog.Logger
}

// MetricsServer serves /metrics and the health probes over HTTP while the
// MCP server itself talks on stdio.
type MetricsServer struct {
	addr    string
	metrics http.Handler
	health  *HealthChecker
	logger  *slog.Logger

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	closed   bool
}

// NewMetricsServer validates config. Nothing listens until Start.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	p := config.InstrumentationProvider
	switch {
	case p == nil:
		return nil, fmt.Errorf("instrumentation provider is required for metrics server")
	case !p.Enabled():
		return nil, fmt.Errorf("instrumentation provider is not enabled")
	case p.PrometheusHandler() == nil:
		return nil, fmt.Errorf("metrics exporter must be prometheus to serve metrics")
	}

	s := &MetricsServer{
		addr:    config.Addr,
		metrics: p.PrometheusHandler(),
		health:  config.Health,
		logger:  config.Logger,
	}
	if s.addr == "" {
		s.addr = DefaultMetricsAddr
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	return s, nil
}

// routes builds the handler tree.
func (s *MetricsServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics)
	if s.health != nil {
		s.health.RegisterHealthEndpoints(mux)
		return mux
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Start listens and serves until Shutdown. It blocks. After Shutdown it
// returns http.ErrServerClosed without listening.
func (s *MetricsServer) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return http.ErrServerClosed
	}
	s.mu.Unlock()

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	srv := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: DefaultMetricsReadTimeout,
		WriteTimeout:      DefaultMetricsWriteTimeout,
		IdleTimeout:       DefaultMetricsIdleTimeout,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ln.Close()
		return http.ErrServerClosed
	}
	s.srv, s.listener = srv, ln
	s.mu.Unlock()

	s.logger.Info("metrics server listening", logging.Operation("metrics.serve"), "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server and waits for in-flight scrapes. A server not
// started yet never starts.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info("metrics server stopping", logging.Operation("metrics.shutdown"))
	return srv.Shutdown(ctx)
}

// Addr returns the bound address once started, else the configured one.
func (s *MetricsServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}
