package scheduling

import (
	"context"
	"sort"
)

// MaxConflicts bounds the number of conflicts reported.
const MaxConflicts = 10

// FindConflicts returns the events on calendarID that strictly overlap iv,
// ordered by start and capped at MaxConflicts. Cancelled events and events
// that only touch iv are ignored.
func FindConflicts(ctx context.Context, store CalendarStore, calendarID string, iv TimeInterval) ([]Event, error) {
	events, err := store.ListEvents(ctx, calendarID, EventQuery{TimeMin: iv.Start, TimeMax: iv.End})
	if err != nil {
		return nil, remoteErr("list", err)
	}
	return filterConflicts(events, iv), nil
}

func filterConflicts(events []Event, iv TimeInterval) []Event {
	conflicts := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.Status == "cancelled" {
			continue
		}
		if iv.Overlaps(ev.Interval()) {
			conflicts = append(conflicts, ev)
		}
	}
	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].Start.Before(conflicts[j].Start)
	})
	if len(conflicts) > MaxConflicts {
		conflicts = conflicts[:MaxConflicts]
	}
	return conflicts
}
