package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/assistant/internal/scheduling"
	"github.com/teemow/assistant/internal/tasks"
)

func allOK() map[string]string {
	return map[string]string{
		"ready": "ok", "shutdown": "ok", "calendar": "ok",
		"profile": "ok", "preferences": "ok", "tasks": "ok",
	}
}

func withCheck(name, value string) map[string]string {
	m := allOK()
	m[name] = value
	return m
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name       string
		calendar   string
		ready      bool
		shutdown   bool
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "ready",
			calendar:   "cal",
			ready:      true,
			wantStatus: http.StatusOK,
			wantChecks: allOK(),
		},
		{
			name:       "no calendar",
			ready:      true,
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: withCheck("calendar", "not configured"),
		},
		{
			name:       "shutting down",
			calendar:   "cal",
			ready:      true,
			shutdown:   true,
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: withCheck("shutdown", "shutting down"),
		},
		{
			name:       "not ready",
			calendar:   "cal",
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: withCheck("ready", "not ready"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestServerContext(t, tt.calendar)
			h := NewHealthChecker(sc)
			h.SetReady(tt.ready)
			if tt.shutdown {
				require.NoError(t, sc.Shutdown())
			}

			rec := httptest.NewRecorder()
			h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var resp HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantChecks, resp.Checks)
		})
	}
}

func TestReadinessHandler_BrokenTaskFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	svc, err := scheduling.NewService(scheduling.NewMemoryStore(), nil, nil, scheduling.Config{CalendarID: "cal"})
	require.NoError(t, err)
	sc, err := NewServerContext(context.Background(), Dependencies{
		Scheduling: svc,
		Tasks:      tasks.NewManager(tasks.NewFileStore(path), tasks.Options{}),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	rec := httptest.NewRecorder()
	NewHealthChecker(sc).ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEqual(t, "ok", resp.Checks["tasks"])
	assert.Equal(t, "ok", resp.Checks["calendar"])
}

func TestLivenessAndDetailed(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, "cal"))

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp DetailedHealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "cal", resp.Calendar)
	assert.Equal(t, "UTC", resp.TimeZone)
	assert.Equal(t, allOK(), resp.Checks)
}

func TestDetailedHealth_ShuttingDown(t *testing.T) {
	sc := newTestServerContext(t, "cal")
	require.NoError(t, sc.Shutdown())

	rec := httptest.NewRecorder()
	NewHealthChecker(sc).DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp DetailedHealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "shutting down", resp.Status)
}

func TestHealthChecker_NilContext(t *testing.T) {
	h := NewHealthChecker(nil)
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	h.SetReady(false)
	assert.False(t, h.IsReady())
	rec = httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
