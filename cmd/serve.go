package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/assistant/internal/logging"
	"github.com/teemow/assistant/internal/resources"
	"github.com/teemow/assistant/internal/server"
	"github.com/teemow/assistant/internal/tools/calendar_tools"
	"github.com/teemow/assistant/internal/tools/tasks_tools"
)

func newServeCmd() *cobra.Command {
	var (
		yolo        bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server on stdio to provide calendar
and task tools for AI assistants.

Safety Mode:
  By default, the server operates in read-only mode, providing only safe operations.
  Use --yolo to enable write operations (adding, moving and deleting events,
  changing preferences and tasks).

Tool calls never prompt. Adds that conflict with existing events, deletes and
reschedules return a report and need to be repeated with confirmed=true.

Resources:
  assistant://profile, assistant://preferences and assistant://tasks/summary
  expose the work profile, preference rules and task counts read-only.

Metrics:
  --metrics-addr serves Prometheus metrics and health probes on a separate
  HTTP listener, e.g. --metrics-addr 127.0.0.1:9090.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(yolo, metricsAddr)
		},
	}

	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	return cmd
}

func runServe(yolo bool, metricsAddr string) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var opts []appOption
	if metricsAddr != "" {
		opts = append(opts, withPrometheus())
	}
	a, err := newApp(shutdownCtx, opts...)
	if err != nil {
		return err
	}
	logger := logging.WithOperation(a.logger, "serve")
	defer func() {
		if err := a.provider.Shutdown(context.Background()); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	svc, err := a.schedulingService(shutdownCtx, nil)
	if err != nil {
		return err
	}
	serverContext, err := server.NewServerContext(shutdownCtx, server.Dependencies{
		Scheduling: svc,
		Tasks:      a.taskManager(nil),
		Metrics:    a.metrics(),
		Logger:     a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("server context shutdown failed", logging.Err(err))
		}
	}()

	if metricsAddr != "" {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsAddr,
			InstrumentationProvider: a.provider,
			Health:                  server.NewHealthChecker(serverContext),
			Logger:                  a.logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", logging.Err(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	mcpSrv := mcpserver.NewMCPServer("assistant", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)

	// readOnly is the inverse of yolo
	readOnly := !yolo
	logger.Info("starting MCP server", "transport", "stdio", "read_only", readOnly, "calendar", svc.CalendarID())

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}
	if err := resources.RegisterAssistantResources(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register resources: %w", err)
	}

	return runStdioServer(shutdownCtx, mcpSrv)
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return nil
	}
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Tasks",
			register: func() error {
				return tasks_tools.RegisterTasksTools(mcpSrv, ctx, readOnly)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}

	return nil
}
