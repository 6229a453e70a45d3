package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/assistant/internal/instrumentation"
	"github.com/teemow/assistant/internal/scheduling"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return NewClientWithService(svc, opts...)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_ListEvents(t *testing.T) {
	var requests int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/calendars/cal@group/events", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))
		assert.Equal(t, "startTime", r.URL.Query().Get("orderBy"))
		assert.Equal(t, "standup", r.URL.Query().Get("q"))
		assert.Equal(t, "2025-06-12T00:00:00Z", r.URL.Query().Get("timeMin"))

		if r.URL.Query().Get("pageToken") == "" {
			writeJSON(t, w, map[string]any{
				"nextPageToken": "p2",
				"items": []map[string]any{{
					"id":       "e1",
					"summary":  "Standup",
					"status":   "confirmed",
					"htmlLink": "https://calendar.google.com/e1",
					"start":    map[string]any{"dateTime": "2025-06-12T09:00:00+02:00", "timeZone": "Europe/Berlin"},
					"end":      map[string]any{"dateTime": "2025-06-12T09:15:00+02:00", "timeZone": "Europe/Berlin"},
				}},
			})
			return
		}
		writeJSON(t, w, map[string]any{
			"items": []map[string]any{{
				"id":      "e2",
				"summary": "Standup offsite",
				"start":   map[string]any{"date": "2025-06-13"},
				"end":     map[string]any{"date": "2025-06-14"},
			}},
		})
	})

	client := newTestClient(t, handler)
	events, err := client.ListEvents(context.Background(), "cal@group", scheduling.EventQuery{
		TimeMin: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		Text:    "standup",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	require.Len(t, events, 2)

	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, "Europe/Berlin", events[0].TimeZone)
	assert.True(t, events[0].Start.Equal(time.Date(2025, 6, 12, 7, 0, 0, 0, time.UTC)))
	assert.Equal(t, 15*time.Minute, events[0].Duration())
	assert.False(t, events[0].AllDay)

	assert.True(t, events[1].AllDay)
	assert.Equal(t, 24*time.Hour, events[1].Duration())
}

func TestClient_ListEvents_MaxResults(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"nextPageToken": "more",
			"items": []map[string]any{
				{"id": "a", "start": map[string]any{"dateTime": "2025-06-12T09:00:00Z"}, "end": map[string]any{"dateTime": "2025-06-12T10:00:00Z"}},
				{"id": "b", "start": map[string]any{"dateTime": "2025-06-12T11:00:00Z"}, "end": map[string]any{"dateTime": "2025-06-12T12:00:00Z"}},
			},
		})
	})

	events, err := newTestClient(t, handler).ListEvents(context.Background(), "primary", scheduling.EventQuery{MaxResults: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "a", events[0].ID)
}

func TestClient_InsertEvent(t *testing.T) {
	var body map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/cal/events", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("sendUpdates"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		body["id"] = "new1"
		body["htmlLink"] = "https://calendar.google.com/new1"
		writeJSON(t, w, body)
	})

	start := time.Date(2025, 6, 12, 8, 0, 0, 0, time.UTC)
	created, err := newTestClient(t, handler).InsertEvent(context.Background(), "cal", scheduling.Event{
		Title:           "Review",
		Start:           start,
		End:             start.Add(30 * time.Minute),
		TimeZone:        "Europe/Berlin",
		ColorID:         "9",
		ReminderMinutes: []int{10},
		Attendees:       []string{"a@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "new1", created.ID)
	assert.Equal(t, "https://calendar.google.com/new1", created.HTMLLink)
	assert.Equal(t, []int{10}, created.ReminderMinutes)
	assert.Equal(t, []string{"a@example.com"}, created.Attendees)

	startJSON := body["start"].(map[string]any)
	assert.Equal(t, "2025-06-12T10:00:00+02:00", startJSON["dateTime"])
	assert.Equal(t, "Europe/Berlin", startJSON["timeZone"])

	reminders := body["reminders"].(map[string]any)
	assert.Equal(t, false, reminders["useDefault"])
	overrides := reminders["overrides"].([]any)
	require.Len(t, overrides, 1)
	assert.Equal(t, "popup", overrides[0].(map[string]any)["method"])
}

func TestClient_PatchEvent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/calendars/cal/events/ev1", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "summary")
		body["id"] = "ev1"
		writeJSON(t, w, body)
	})

	start := time.Date(2025, 6, 12, 11, 0, 0, 0, time.UTC)
	updated, err := newTestClient(t, handler).PatchEvent(context.Background(), "cal", "ev1", scheduling.EventPatch{
		Start:    start,
		End:      start.Add(time.Hour),
		TimeZone: "UTC",
	})
	require.NoError(t, err)
	assert.True(t, updated.Start.Equal(start))
	assert.Equal(t, time.Hour, updated.Duration())
}

func TestClient_FreeBusy(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/freeBusy", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"calendars": map[string]any{
				"cal": map[string]any{
					"busy": []map[string]any{{"start": "2025-06-12T09:00:00Z", "end": "2025-06-12T10:30:00Z"}},
				},
				"primary": map[string]any{
					"busy": []map[string]any{},
				},
				"other": map[string]any{
					"errors": []map[string]any{{"domain": "global", "reason": "notFound"}},
				},
			},
		})
	})

	window := scheduling.TimeInterval{
		Start: time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 12, 18, 0, 0, 0, time.UTC),
	}
	busy, err := newTestClient(t, handler).FreeBusy(context.Background(), []string{"cal", "primary", "other"}, window)
	require.NoError(t, err)

	require.Len(t, busy["cal"], 1)
	assert.Equal(t, 90*time.Minute, busy["cal"][0].Duration())
	assert.Empty(t, busy["primary"])
	assert.NotContains(t, busy, "other")
}

func TestClient_RecordsStoreMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := instrumentation.NewMetrics(provider.Meter("test"))
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404,"message":"Not Found"}}`, http.StatusNotFound)
	})
	client := newTestClient(t, handler, WithMetrics(metrics))

	err = client.DeleteEvent(context.Background(), "cal", "missing")
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "calendar_store_operations_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			op, _ := sum.DataPoints[0].Attributes.Value("operation")
			status, _ := sum.DataPoints[0].Attributes.Value("status")
			assert.Equal(t, instrumentation.StoreOpDelete, op.AsString())
			assert.Equal(t, instrumentation.StatusError, status.AsString())
			found = true
		}
	}
	assert.True(t, found, "store operation counter not recorded")
}

func TestClient_CreateCalendarAndColor(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/calendars":
			writeJSON(t, w, map[string]any{"id": "assistant@group", "summary": "Assistant", "timeZone": "Europe/Berlin"})
		case r.Method == http.MethodPatch && r.URL.Path == "/users/me/calendarList/assistant@group":
			http.Error(w, `{"error":{"code":403,"message":"Forbidden"}}`, http.StatusForbidden)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	client := newTestClient(t, handler)

	info, err := client.CreateCalendar(context.Background(), "Assistant", "Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "assistant@group", info.ID)
	assert.Equal(t, "Europe/Berlin", info.TimeZone)

	assert.Error(t, client.SetCalendarColor(context.Background(), info.ID, "9"))
}

func TestClient_RescheduleDay_AllDayInCalendarZone(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name         string
		responseZone string
		opts         []Option
	}{
		{name: "zone from list response", responseZone: "America/New_York"},
		{name: "configured zone", opts: []Option{WithLocation(newYork)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patched map[string]any
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					assert.Equal(t, "2026-03-10T00:00:00-04:00", r.URL.Query().Get("timeMin"))
					resp := map[string]any{
						"items": []map[string]any{{
							"id":      "offsite",
							"summary": "Team offsite",
							"start":   map[string]any{"date": "2026-03-10"},
							"end":     map[string]any{"date": "2026-03-11"},
						}},
					}
					if tt.responseZone != "" {
						resp["timeZone"] = tt.responseZone
					}
					writeJSON(t, w, resp)
				case http.MethodPatch:
					assert.Equal(t, "/calendars/cal@group/events/offsite", r.URL.Path)
					require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
					patched["id"] = "offsite"
					writeJSON(t, w, patched)
				default:
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
			})

			svc, err := scheduling.NewService(newTestClient(t, handler, tt.opts...), nil, nil, scheduling.Config{
				CalendarID: "cal@group",
				TimeZone:   "America/New_York",
			})
			require.NoError(t, err)

			res, err := svc.RescheduleDay(context.Background(), scheduling.BulkRescheduleRequest{
				Date:      "2026-03-10",
				Shift:     "+1d",
				Confirmed: true,
			})
			require.NoError(t, err)
			require.Len(t, res.Items, 1)
			require.NoError(t, res.Items[0].Err)
			assert.NotNil(t, res.Items[0].Updated)

			require.NotNil(t, patched)
			assert.Equal(t, map[string]any{"date": "2026-03-11"}, patched["start"])
			assert.Equal(t, map[string]any{"date": "2026-03-12"}, patched["end"])
		})
	}
}
