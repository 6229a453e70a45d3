package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	statusOK           = "ok"
	statusNotReady     = "not ready"
	statusShuttingDown = "shutting down"
)

// HealthChecker serves liveness and readiness probes for the MCP server.
// Readiness runs the dependency checks on every request, so a broken
// profile or an unreadable task file shows up without a restart.
type HealthChecker struct {
	ready   atomic.Bool
	sc      *ServerContext
	started time.Time
}

// NewHealthChecker creates a HealthChecker that starts out ready. sc may be
// nil, in which case only the ready flag is checked.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{sc: sc, started: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady marks the server ready or not.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the ready flag.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	Status   string            `json:"status"`
	Uptime   string            `json:"uptime"`
	Calendar string            `json:"calendar,omitempty"`
	TimeZone string            `json:"time_zone,omitempty"`
	Checks   map[string]string `json:"checks,omitempty"`
}

type dependencyCheck struct {
	name string
	run  func() error
}

var (
	errNotReady     = errors.New(statusNotReady)
	errShuttingDown = errors.New(statusShuttingDown)
	errNoCalendar   = errors.New("not configured")
)

func (h *HealthChecker) dependencyChecks() []dependencyCheck {
	checks := []dependencyCheck{
		{name: "ready", run: func() error {
			if !h.ready.Load() {
				return errNotReady
			}
			return nil
		}},
	}
	if h.sc == nil {
		return checks
	}
	return append(checks,
		dependencyCheck{name: "shutdown", run: func() error {
			if h.sc.IsShutdown() {
				return errShuttingDown
			}
			return nil
		}},
		dependencyCheck{name: "calendar", run: func() error {
			if !h.sc.Configured() {
				return errNoCalendar
			}
			return nil
		}},
		dependencyCheck{name: "profile", run: func() error {
			_, err := h.sc.Scheduling().Profile()
			return err
		}},
		dependencyCheck{name: "preferences", run: func() error {
			_, err := h.sc.Scheduling().Preferences()
			return err
		}},
		dependencyCheck{name: "tasks", run: func() error {
			_, err := h.sc.Tasks().Summary()
			return err
		}},
	)
}

// runChecks returns each check's outcome and whether all passed.
func (h *HealthChecker) runChecks() (map[string]string, bool) {
	results := make(map[string]string)
	ok := true
	for _, c := range h.dependencyChecks() {
		if err := c.run(); err != nil {
			results[c.name] = err.Error()
			ok = false
			continue
		}
		results[c.name] = statusOK
	}
	return results, ok
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// LivenessHandler serves /healthz. It only shows the process is up.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: statusOK})
	})
}

// ReadinessHandler serves /readyz. It fails while any dependency check
// fails, e.g. before setup has chosen a calendar.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks, ok := h.runChecks()
		if !ok {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: statusNotReady, Checks: checks})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: statusOK, Checks: checks})
	})
}

// DetailedHealthHandler serves /healthz/detailed with uptime, the active
// calendar and the dependency checks.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks, ok := h.runChecks()
		resp := DetailedHealthResponse{
			Status: statusOK,
			Uptime: time.Since(h.started).Truncate(time.Second).String(),
			Checks: checks,
		}
		if h.sc != nil {
			resp.Calendar = h.sc.Scheduling().CalendarID()
			resp.TimeZone = h.sc.Scheduling().TimeZone()
		}

		code := http.StatusOK
		switch {
		case checks["shutdown"] == statusShuttingDown:
			resp.Status = statusShuttingDown
			code = http.StatusServiceUnavailable
		case !ok:
			resp.Status = statusNotReady
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	})
}

// RegisterHealthEndpoints mounts the probes on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
