package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemow/assistant/internal/instrumentation"
	"github.com/teemow/assistant/internal/logging"
	"github.com/teemow/assistant/internal/timeexpr"
)

// Default search windows, in days around now.
const (
	DefaultSearchDaysBack  = 90
	DefaultSearchDaysAhead = 90
	DefaultSearchMax       = 25
	DefaultListMax         = 50
)

// Config configures a Service.
type Config struct {
	// CalendarID is the calendar events are added to by default.
	CalendarID string
	// TimeZone is the IANA zone used for zone-less input and new events.
	// Empty means UTC.
	TimeZone string
	// Resolver parses user time expressions. Nil allows exact layouts only.
	Resolver *timeexpr.Resolver
	// Confirmer handles interactive decisions. Nil means headless.
	Confirmer Confirmer
	Logger    *slog.Logger
	Metrics   *instrumentation.Metrics
	// Now defaults to time.Now.
	Now func() time.Time
	// WorkDir and SessionID go into the footer of new event descriptions.
	WorkDir   string
	SessionID string
}

// Service runs scheduling requests against a CalendarStore.
type Service struct {
	store    CalendarStore
	prefs    PreferenceStore
	profiles ProfileStore

	calendarID string
	tzName     string
	loc        *time.Location
	resolver   *timeexpr.Resolver
	confirmer  Confirmer
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	now        func() time.Time
	workDir    string
	sessionID  string
}

// NewService creates a Service. It fails only on an unknown time zone.
func NewService(store CalendarStore, prefs PreferenceStore, profiles ProfileStore, cfg Config) (*Service, error) {
	tzName := cfg.TimeZone
	if tzName == "" {
		tzName = "UTC"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", tzName, err)
	}

	s := &Service{
		store:      store,
		prefs:      prefs,
		profiles:   profiles,
		calendarID: cfg.CalendarID,
		tzName:     tzName,
		loc:        loc,
		resolver:   cfg.Resolver,
		confirmer:  cfg.Confirmer,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		now:        cfg.Now,
		workDir:    cfg.WorkDir,
		sessionID:  cfg.SessionID,
	}
	if s.resolver == nil {
		s.resolver = timeexpr.NewResolver(nil)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// WithConfirmer returns a copy of s using c for interactive decisions.
func (s *Service) WithConfirmer(c Confirmer) *Service {
	cp := *s
	cp.confirmer = c
	return &cp
}

// CalendarID returns the configured default calendar.
func (s *Service) CalendarID() string { return s.calendarID }

// TimeZone returns the configured IANA zone name.
func (s *Service) TimeZone() string { return s.tzName }

// Location returns the configured zone.
func (s *Service) Location() *time.Location { return s.loc }

// Now returns the current time in the configured zone.
func (s *Service) Now() time.Time { return s.now().In(s.loc) }

// Resolve parses a time expression relative to now in the configured zone.
func (s *Service) Resolve(text string) (time.Time, error) {
	return s.resolver.Resolve(text, s.Now(), s.loc)
}

func (s *Service) requireCalendar() error {
	if s.calendarID == "" {
		return ErrNotConfigured
	}
	return nil
}

func (s *Service) confirm(ok bool, err error) error {
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

// record counts the outcome of a scheduling operation.
func (s *Service) record(ctx context.Context, op string, err error) {
	s.metrics.RecordSchedulingOperation(ctx, op, outcomeOf(err))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return instrumentation.OutcomeSuccess
	case errors.Is(err, ErrCancelled):
		return instrumentation.OutcomeCancelled
	case errors.Is(err, ErrConflict):
		return instrumentation.OutcomeConflict
	case errors.Is(err, ErrAmbiguousMatch):
		return instrumentation.OutcomeAmbiguous
	default:
		return instrumentation.OutcomeError
	}
}
