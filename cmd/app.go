package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/assistant/internal/calendar"
	"github.com/teemow/assistant/internal/config"
	"github.com/teemow/assistant/internal/google"
	"github.com/teemow/assistant/internal/instrumentation"
	"github.com/teemow/assistant/internal/logging"
	"github.com/teemow/assistant/internal/preferences"
	"github.com/teemow/assistant/internal/scheduling"
	"github.com/teemow/assistant/internal/tasks"
	"github.com/teemow/assistant/internal/timeexpr"
)

// app holds what every command needs: the loaded config, the logger and
// the telemetry provider.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	provider *instrumentation.Provider
}

// appOption adjusts the loaded config before anything is built from it.
type appOption func(cfg *config.Config)

// withPrometheus turns on telemetry with the prometheus exporter.
func withPrometheus() appOption {
	return func(cfg *config.Config) {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.MetricsExporter = instrumentation.ExporterPrometheus
	}
}

func newApp(ctx context.Context, opts ...appOption) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(cfg)
	}
	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	ic := cfg.Instrumentation(version)
	ic.Logger = logger
	provider, err := instrumentation.NewProvider(ctx, ic)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	return &app{cfg: cfg, logger: logger, provider: provider}, nil
}

// runWithApp loads the app for one command run and flushes telemetry when
// fn returns.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.provider.Shutdown(context.Background()); err != nil {
			a.logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()
	return fn(ctx, a)
}

func (a *app) metrics() *instrumentation.Metrics {
	return a.provider.Metrics()
}

func (a *app) tokenProvider() (*google.FileTokenProvider, error) {
	path, err := google.FindCredentials(google.CandidateCredentialPaths(a.cfg.Paths.Credentials, a.cfg.Dir()))
	if err != nil {
		return nil, err
	}
	conf, err := google.LoadOAuthConfig(path)
	if err != nil {
		return nil, err
	}
	return google.NewFileTokenProvider(a.cfg.TokenPath(), conf), nil
}

// calendarClient returns an authenticated Google Calendar client.
func (a *app) calendarClient(ctx context.Context) (*calendar.Client, error) {
	tp, err := a.tokenProvider()
	if err != nil {
		return nil, err
	}
	if !tp.HasToken() {
		return nil, google.ErrNoToken
	}
	httpClient, err := tp.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.NewClient(ctx, httpClient,
		calendar.WithMetrics(a.metrics()),
		calendar.WithLogger(a.logger),
		calendar.WithLocation(a.location()),
	)
}

// schedulingService builds a Service over the Google calendar. A nil
// confirmer makes the service headless.
func (a *app) schedulingService(ctx context.Context, confirmer scheduling.Confirmer) (*scheduling.Service, error) {
	if !a.cfg.Configured() {
		return nil, scheduling.ErrNotConfigured
	}
	client, err := a.calendarClient(ctx)
	if err != nil {
		return nil, err
	}
	return a.newService(client, confirmer)
}

func (a *app) newService(store scheduling.CalendarStore, confirmer scheduling.Confirmer) (*scheduling.Service, error) {
	workDir, _ := os.Getwd()
	return scheduling.NewService(store, a.preferenceStore(), config.NewProfileStore(a.cfg), scheduling.Config{
		CalendarID: a.cfg.CalendarID,
		TimeZone:   a.cfg.TimeZone,
		Resolver:   timeexpr.NewResolver(timeexpr.NewWhenFallback()),
		Confirmer:  confirmer,
		Logger:     a.logger,
		Metrics:    a.metrics(),
		WorkDir:    workDir,
		SessionID:  a.cfg.SessionID,
	})
}

func (a *app) preferenceStore() *preferences.FileStore {
	return preferences.NewFileStore(a.cfg.PreferencesPath())
}

// location returns the configured zone, UTC when unset or invalid.
func (a *app) location() *time.Location {
	if a.cfg.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.cfg.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// prompt asks on the command's stdin and writes questions to stderr so
// stdout stays machine-readable.
func (a *app) prompt(cmd *cobra.Command) *terminalPrompt {
	return newTerminalPrompt(cmd.InOrStdin(), cmd.ErrOrStderr(), a.location())
}

// taskManager builds a Manager over the task file. "Today" follows the
// configured time zone.
func (a *app) taskManager(chooser tasks.Chooser) *tasks.Manager {
	return tasks.NewManager(tasks.NewFileStore(a.cfg.TasksPath()), tasks.Options{
		Location: a.location(),
		Chooser:  chooser,
		Logger:   a.logger,
	})
}
