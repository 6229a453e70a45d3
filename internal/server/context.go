package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/assistant/internal/instrumentation"
	"github.com/teemow/assistant/internal/logging"
	"github.com/teemow/assistant/internal/scheduling"
	"github.com/teemow/assistant/internal/tasks"
)

// Dependencies are the services shared by all tool handlers.
type Dependencies struct {
	Scheduling *scheduling.Service
	Tasks      *tasks.Manager
	Metrics    *instrumentation.Metrics
	Logger     *slog.Logger
}

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx        context.Context
	cancel     context.CancelFunc
	scheduling *scheduling.Service
	tasks      *tasks.Manager
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
	mu         sync.RWMutex
	shutdown   bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, deps Dependencies) (*ServerContext, error) {
	if deps.Scheduling == nil {
		return nil, fmt.Errorf("scheduling service is required")
	}
	if deps.Tasks == nil {
		return nil, fmt.Errorf("task manager is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:        shutdownCtx,
		cancel:     cancel,
		scheduling: deps.Scheduling,
		tasks:      deps.Tasks,
		metrics:    deps.Metrics,
		logger:     logger,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Scheduling returns the scheduling service. Tool calls are headless, so
// the service carries no confirmer.
func (sc *ServerContext) Scheduling() *scheduling.Service {
	return sc.scheduling
}

// Tasks returns the task manager.
func (sc *ServerContext) Tasks() *tasks.Manager {
	return sc.tasks
}

// Metrics returns the metrics recorder. It may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Configured reports whether a default calendar is set.
func (sc *ServerContext) Configured() bool {
	return sc.scheduling.CalendarID() != ""
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
