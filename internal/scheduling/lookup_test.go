package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReviews(store *MemoryStore) (Event, Event) {
	a := store.Seed("cal", Event{ID: "abc123", Title: "Design review", Start: at(10, 0), End: at(11, 0)})
	b := store.Seed("cal", Event{ID: "abd456", Title: "Code review", Start: at(14, 0), End: at(15, 0)})
	store.Seed("cal", Event{ID: "zzz999", Title: "Lunch", Start: at(12, 0), End: at(13, 0)})
	return a, b
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name      string
		req       DeleteRequest
		confirmer *scriptedConfirmer
		wantID    string
		wantErr   error
	}{
		{name: "single match", req: DeleteRequest{Title: "lunch"}, wantID: "zzz999"},
		{name: "ambiguous without chooser", req: DeleteRequest{Title: "review"}, wantErr: ErrAmbiguousMatch},
		{name: "chooser picks second", req: DeleteRequest{Title: "review"}, confirmer: &scriptedConfirmer{choice: 1, del: true}, wantID: "abd456"},
		{name: "chooser cancels", req: DeleteRequest{Title: "review"}, confirmer: &scriptedConfirmer{choice: -1}, wantErr: ErrCancelled},
		{name: "declined", req: DeleteRequest{Title: "lunch"}, confirmer: &scriptedConfirmer{del: false}, wantErr: ErrCancelled},
		{name: "event id prefix narrows", req: DeleteRequest{Title: "review", EventID: "abd"}, wantID: "abd456"},
		{name: "event id alone", req: DeleteRequest{EventID: "abc"}, wantID: "abc123"},
		{name: "no match", req: DeleteRequest{Title: "retro"}, wantErr: ErrNoMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			seedReviews(store)

			var confirmer Confirmer
			if tt.confirmer != nil {
				confirmer = tt.confirmer
			}
			svc := newTestService(t, store, nil, nil, confirmer)

			ev, err := svc.Delete(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, store.Events("cal"), 3, "nothing deleted")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ev.ID)
			assert.Len(t, store.Events("cal"), 2)
		})
	}
}

func TestDelete_AmbiguousListsCandidates(t *testing.T) {
	store := NewMemoryStore()
	seedReviews(store)

	_, err := newTestService(t, store, nil, nil, nil).Delete(context.Background(), DeleteRequest{Title: "Review"})

	var ambiguous *AmbiguousMatchError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, "Review", ambiguous.Query)
	require.Len(t, ambiguous.Candidates, 2)
	assert.Equal(t, "abc123", ambiguous.Candidates[0].ID)
	assert.Equal(t, 0, store.Calls["DeleteEvent"])
}

func TestReschedule(t *testing.T) {
	tests := []struct {
		name    string
		req     RescheduleRequest
		wantTo  TimeInterval
		wantErr string
	}{
		{name: "shift", req: RescheduleRequest{Title: "lunch", Shift: "+90m"}, wantTo: iv(13, 30, 14, 30)},
		{name: "new start", req: RescheduleRequest{Title: "lunch", NewStart: "2025-06-13 12:30"}, wantTo: TimeInterval{Start: time.Date(2025, 6, 13, 12, 30, 0, 0, time.UTC), End: time.Date(2025, 6, 13, 13, 30, 0, 0, time.UTC)}},
		{name: "both", req: RescheduleRequest{Title: "lunch", Shift: "+1h", NewStart: "2025-06-13 12:30"}, wantErr: "exactly one"},
		{name: "neither", req: RescheduleRequest{Title: "lunch"}, wantErr: "exactly one"},
		{name: "bad shift", req: RescheduleRequest{Title: "lunch", Shift: "1.5h"}, wantErr: "invalid shift"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			seedReviews(store)
			svc := newTestService(t, store, nil, nil, nil)

			res, err := svc.Reschedule(context.Background(), tt.req)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, 0, store.Calls["ListEvents"], "validation precedes remote calls")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTo.Start, res.Updated.Start)
			assert.Equal(t, tt.wantTo.End, res.Updated.End)
			assert.Equal(t, "UTC", res.Updated.TimeZone)
		})
	}
}

func TestReschedule_Confirmation(t *testing.T) {
	store := NewMemoryStore()
	seedReviews(store)
	confirmer := &scriptedConfirmer{reschedule: false}

	_, err := newTestService(t, store, nil, nil, confirmer).
		Reschedule(context.Background(), RescheduleRequest{Title: "lunch", Shift: "+1h"})
	require.ErrorIs(t, err, ErrCancelled)
	require.Len(t, confirmer.moves, 1)
	assert.Equal(t, at(13, 0), confirmer.moves[0].To.Start)
	assert.Equal(t, 0, store.Calls["PatchEvent"])
}

func TestRescheduleDay(t *testing.T) {
	store := NewMemoryStore()
	store.Seed("cal", Event{ID: "e1", Title: "Standup", Start: at(9, 0), End: at(9, 15), TimeZone: "Europe/Berlin"})
	store.Seed("cal", Event{ID: "e2", Title: "Review", Start: at(11, 0), End: at(12, 0)})
	store.Seed("cal", Event{ID: "e3", Title: "1:1", Start: at(15, 0), End: at(15, 30)})
	store.Seed("cal", Event{ID: "prev", Title: "Overnight", Start: at(-2, 0), End: at(1, 0)})
	store.Seed("cal", Event{ID: "next", Title: "Tomorrow", Start: at(33, 0), End: at(34, 0)})
	store.FailPatch("e2", errors.New("rate limited"))

	confirmer := &scriptedConfirmer{reschedule: true}
	svc := newTestService(t, store, nil, nil, confirmer)

	res, err := svc.RescheduleDay(context.Background(), BulkRescheduleRequest{Date: "2025-06-12", Shift: "+1h"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), res.Day)
	require.Len(t, res.Items, 3)
	assert.Equal(t, 2, res.Succeeded())
	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "e2", failed[0].Move.Event.ID)
	require.ErrorIs(t, failed[0].Err, ErrRemoteStore)
	assert.Len(t, confirmer.moves, 3)

	byID := map[string]Event{}
	for _, ev := range store.Events("cal") {
		byID[ev.ID] = ev
	}
	assert.Equal(t, at(10, 0), byID["e1"].Start)
	assert.Equal(t, "Europe/Berlin", byID["e1"].TimeZone, "own zone kept")
	assert.Equal(t, at(11, 0), byID["e2"].Start, "failed patch left untouched")
	assert.Equal(t, at(16, 30), byID["e3"].End)
	assert.Equal(t, at(-2, 0), byID["prev"].Start, "events starting the day before are skipped")
	assert.Equal(t, at(33, 0), byID["next"].Start)
}

func TestRescheduleDay_Validation(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(t, store, nil, nil, nil)

	_, err := svc.RescheduleDay(context.Background(), BulkRescheduleRequest{Date: "2025-06-12"})
	require.ErrorIs(t, err, ErrShiftRequired)

	_, err = svc.RescheduleDay(context.Background(), BulkRescheduleRequest{Date: "2025-06-12", Shift: "soon"})
	require.Error(t, err)
	assert.Equal(t, 0, store.Calls["ListEvents"])
}

func TestRescheduleDay_AllDaySubDayShift(t *testing.T) {
	store := NewMemoryStore()
	store.Seed("cal", Event{ID: "holiday", Title: "Offsite", Start: at(0, 0), End: at(24, 0), AllDay: true})
	store.Seed("cal", Event{ID: "timed", Title: "Sync", Start: at(10, 0), End: at(10, 30)})

	res, err := newTestService(t, store, nil, nil, nil).
		RescheduleDay(context.Background(), BulkRescheduleRequest{Date: "2025-06-12", Shift: "-30m"})
	require.NoError(t, err)
	require.Len(t, res.Failed(), 1)
	assert.Equal(t, "holiday", res.Failed()[0].Move.Event.ID)
	require.ErrorIs(t, res.Failed()[0].Err, ErrAllDayShift)
	assert.Equal(t, 1, res.Succeeded())
	assert.Equal(t, 1, store.Calls["PatchEvent"])
}

func TestSearchAndList(t *testing.T) {
	store := NewMemoryStore()
	seedReviews(store)
	svc := newTestService(t, store, nil, nil, nil)

	found, err := svc.Search(context.Background(), SearchRequest{Query: "REVIEW"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = svc.Search(context.Background(), SearchRequest{Query: "  "})
	require.Error(t, err)

	listed, err := svc.List(context.Background(), ListRequest{DaysAhead: 2})
	require.NoError(t, err)
	assert.Equal(t, testNow, listed.From)
	assert.Len(t, listed.Events, 3)

	digest, err := svc.List(context.Background(), ListRequest{Digest: true})
	require.NoError(t, err)
	assert.False(t, digest.Weekly, "Wednesday digest covers one day")
	assert.Equal(t, testNow.AddDate(0, 0, 1), digest.To)

	_, err = svc.List(context.Background(), ListRequest{DaysBack: -1})
	require.Error(t, err)
}
