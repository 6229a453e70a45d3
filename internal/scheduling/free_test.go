package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFree(t *testing.T) {
	store := NewMemoryStore()
	store.Seed("cal", Event{Title: "Planning", Start: at(9, 0), End: at(10, 30)})
	store.Seed("primary", Event{Title: "Dentist", Start: at(13, 0), End: at(13, 30)})
	store.Seed("primary", Event{Title: "Dropped", Start: at(15, 0), End: at(16, 0), Status: "cancelled"})

	svc := newTestService(t, store, nil, nil, nil)
	res, err := svc.Free(context.Background(), FreeRequest{Date: "2025-06-12", MinDuration: 45 * time.Minute})
	require.NoError(t, err)

	assert.Equal(t, []string{"cal", "primary"}, res.Calendars)
	require.Len(t, res.Days, 1)
	assert.Equal(t, iv(9, 0, 18, 0), res.Days[0].Window)
	assert.Equal(t, []TimeInterval{iv(10, 30, 13, 0), iv(13, 30, 18, 0)}, res.Days[0].Slots)
}

func TestFree_SkipsNonWorkDays(t *testing.T) {
	svc := newTestService(t, NewMemoryStore(), nil, nil, nil)

	res, err := svc.Free(context.Background(), FreeRequest{Date: "this week"})
	require.NoError(t, err)
	require.Len(t, res.Days, 5)
	assert.Equal(t, time.Monday, res.Days[0].Day.Weekday())
	assert.Equal(t, DefaultMinSlot, res.MinDuration)

	res, err = svc.Free(context.Background(), FreeRequest{Date: "2025-06-14", Days: 3})
	require.NoError(t, err)
	require.Len(t, res.Days, 1, "Saturday and Sunday skipped")
	assert.Equal(t, time.Monday, res.Days[0].Day.Weekday())

	_, err = svc.Free(context.Background(), FreeRequest{Date: "2025-06-14", Days: -1})
	require.Error(t, err)
}
