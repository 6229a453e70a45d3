package cmd

import (
	"context"
	"path/filepath"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/assistant/internal/config"
	"github.com/teemow/assistant/internal/preferences"
	"github.com/teemow/assistant/internal/scheduling"
	"github.com/teemow/assistant/internal/server"
	"github.com/teemow/assistant/internal/tasks"
)

func TestParseCommaSeparatedList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "ana@example.com",
			expected: []string{"ana@example.com"},
		},
		{
			name:     "multiple values",
			input:    "ana@example.com,bo@example.com",
			expected: []string{"ana@example.com", "bo@example.com"},
		},
		{
			name:     "values with spaces around comma",
			input:    "ana@example.com, bo@example.com",
			expected: []string{"ana@example.com", "bo@example.com"},
		},
		{
			name:     "trailing comma",
			input:    "ana@example.com,bo@example.com,",
			expected: []string{"ana@example.com", "bo@example.com"},
		},
		{
			name:     "multiple consecutive commas",
			input:    "ana@example.com,,bo@example.com",
			expected: []string{"ana@example.com", "bo@example.com"},
		},
		{
			name:     "only commas and spaces",
			input:    ",  , , ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseCommaSeparatedList(tt.input))
		})
	}
}

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	dir := t.TempDir()
	svc, err := scheduling.NewService(
		scheduling.NewMemoryStore(),
		preferences.NewFileStore(filepath.Join(dir, "preferences.yaml")),
		config.NewProfileStore(&config.Config{}),
		scheduling.Config{CalendarID: "assistant@group.calendar.google.com", TimeZone: "Europe/Berlin"},
	)
	require.NoError(t, err)

	sc, err := server.NewServerContext(context.Background(), server.Dependencies{
		Scheduling: svc,
		Tasks:      tasks.NewManager(tasks.NewFileStore(filepath.Join(dir, "tasks.json")), tasks.Options{}),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestRegisterAllTools(t *testing.T) {
	readOnlyTools := []string{
		"calendar_free", "calendar_list", "calendar_match_prefs", "calendar_search", "tasks_list",
	}
	writeTools := []string{
		"calendar_add", "calendar_delete", "calendar_reschedule", "calendar_update_prefs",
		"tasks_add", "tasks_complete",
	}

	tests := []struct {
		name     string
		readOnly bool
		want     []string
	}{
		{name: "read-only", readOnly: true, want: readOnlyTools},
		{name: "yolo", readOnly: false, want: append(append([]string{}, readOnlyTools...), writeTools...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mcpserver.NewMCPServer("assistant", "test", mcpserver.WithToolCapabilities(true))
			require.NoError(t, registerAllTools(s, newTestServerContext(t), tt.readOnly))

			var names []string
			for name := range s.ListTools() {
				names = append(names, name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}
