package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug", "json")
	require.NoError(t, err)

	logger.Debug("hello", EventID("abc"), Stage("draft"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "abc", line[KeyEventID])
	assert.Equal(t, "draft", line[KeyStage])
}

func TestNew_TextFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "")
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "verbose", "text")
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	WithCalendar(WithTool(WithOperation(base, "calendar.add"), "calendar_add"), "cal-1").Info("x")
	out := buf.String()
	assert.Contains(t, out, "operation=calendar.add")
	assert.Contains(t, out, "tool=calendar_add")
	assert.Contains(t, out, "calendar=cal-1")
}

func TestAttrs(t *testing.T) {
	assert.Equal(t, KeyOperation, Operation("op").Key)
	assert.Equal(t, KeyCalendar, Calendar("c").Key)
	assert.Equal(t, KeyTool, Tool("t").Key)
	assert.Equal(t, "success", Status(StatusSuccess).Value.String())
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, "boom", attr.Value.String())

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("msg", Err(nil))
	assert.NotContains(t, buf.String(), KeyError)
}

func TestAnonymizeEmail(t *testing.T) {
	assert.Equal(t, "", AnonymizeEmail(""))

	a := AnonymizeEmail("sam@example.com")
	assert.True(t, strings.HasPrefix(a, "user:"))
	assert.Equal(t, a, AnonymizeEmail("Sam@Example.com"))
	assert.NotContains(t, a, "example")

	attr := Attendees([]string{"a@x.io", "b@x.io"})
	assert.Equal(t, "attendees", attr.Key)
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}
