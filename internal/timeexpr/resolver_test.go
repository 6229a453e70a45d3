package timeexpr

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFallback struct {
	t   time.Time
	ok  bool
	err error
}

func (s stubFallback) Parse(string, time.Time) (time.Time, bool, error) {
	return s.t, s.ok, s.err
}

func TestResolve_ExactLayouts(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	ref := time.Date(2026, 3, 1, 10, 0, 0, 0, berlin)

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"date and minutes", "2026-03-01T15:00", time.Date(2026, 3, 1, 15, 0, 0, 0, berlin)},
		{"date and seconds", "2026-03-01T15:00:30", time.Date(2026, 3, 1, 15, 0, 30, 0, berlin)},
		{"space separated", "2026-03-02 09:15", time.Date(2026, 3, 2, 9, 15, 0, 0, berlin)},
		{"space separated seconds", "2026-03-02 09:15:05", time.Date(2026, 3, 2, 9, 15, 5, 0, berlin)},
		{"date only", "2026-03-05", time.Date(2026, 3, 5, 0, 0, 0, 0, berlin)},
		{"surrounding whitespace", "  2026-03-01T15:00 ", time.Date(2026, 3, 1, 15, 0, 0, 0, berlin)},
		{"rfc3339 keeps its offset", "2026-03-01T15:00:00Z", time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)},
	}

	r := NewResolver(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.in, ref, berlin)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestResolve_WithoutFallback(t *testing.T) {
	r := NewResolver(nil)
	_, err := r.Resolve("tomorrow 3pm", time.Now(), time.UTC)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnparseableTime))

	var perr *UnparseableTimeError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "tomorrow 3pm", perr.Text)
	assert.Contains(t, perr.Hint, "ISO 8601")
}

func TestResolve_Empty(t *testing.T) {
	_, err := NewResolver(stubFallback{ok: true}).Resolve("   ", time.Now(), time.UTC)
	assert.ErrorIs(t, err, ErrUnparseableTime)
}

func TestResolve_FallbackMiss(t *testing.T) {
	r := NewResolver(stubFallback{ok: false})
	_, err := r.Resolve("banana", time.Now(), time.UTC)
	assert.ErrorIs(t, err, ErrUnparseableTime)

	r = NewResolver(stubFallback{err: errors.New("boom")})
	_, err = r.Resolve("banana", time.Now(), time.UTC)
	assert.ErrorIs(t, err, ErrUnparseableTime)
}

func TestResolve_PrefersFutureWeekday(t *testing.T) {
	// Wednesday
	ref := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	got, err := NewResolver(stubFallback{t: monday, ok: true}).Resolve("monday 9am", ref, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), got)

	got, err = NewResolver(stubFallback{t: monday, ok: true}).Resolve("last monday", ref, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, monday, got)
}

func TestResolve_WhenFallback(t *testing.T) {
	ref := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	got, err := NewResolver(NewWhenFallback()).Resolve("tomorrow", ref, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Day())
	assert.Equal(t, time.March, got.Month())
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 3, 4, 17, 45, 12, 99, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), StartOfDay(in))
}
