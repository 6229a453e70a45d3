package scheduling

import (
	"sort"
	"time"
)

// FreeSlots returns the gaps of at least minDuration inside window that no
// busy interval covers. Busy intervals may overlap, repeat or extend past
// the window. Slots come back sorted and disjoint.
func FreeSlots(window TimeInterval, busy []TimeInterval, minDuration time.Duration) []TimeInterval {
	clipped := make([]TimeInterval, 0, len(busy))
	seen := make(map[[2]int64]bool, len(busy))
	for _, b := range busy {
		c, ok := b.Clip(window)
		if !ok {
			continue
		}
		key := [2]int64{c.Start.UnixNano(), c.End.UnixNano()}
		if seen[key] {
			continue
		}
		seen[key] = true
		clipped = append(clipped, c)
	}
	sort.Slice(clipped, func(i, j int) bool {
		if clipped[i].Start.Equal(clipped[j].Start) {
			return clipped[i].End.Before(clipped[j].End)
		}
		return clipped[i].Start.Before(clipped[j].Start)
	})

	var slots []TimeInterval
	cursor := window.Start
	for _, b := range clipped {
		if gap := b.Start.Sub(cursor); gap > 0 && gap >= minDuration {
			slots = append(slots, TimeInterval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if gap := window.End.Sub(cursor); gap > 0 && gap >= minDuration {
		slots = append(slots, TimeInterval{Start: cursor, End: window.End})
	}
	return slots
}
