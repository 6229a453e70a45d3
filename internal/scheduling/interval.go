package scheduling

import (
	"fmt"
	"time"
)

// TimeInterval is the half-open range [Start, End).
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewInterval returns [start, end), rejecting end before start.
func NewInterval(start, end time.Time) (TimeInterval, error) {
	if end.Before(start) {
		return TimeInterval{}, fmt.Errorf("interval end %s is before start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return TimeInterval{Start: start, End: end}, nil
}

// Duration returns End - Start.
func (iv TimeInterval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps reports a strict overlap. Intervals that only touch do not
// overlap.
func (iv TimeInterval) Overlaps(o TimeInterval) bool {
	return o.Start.Before(iv.End) && o.End.After(iv.Start)
}

// Clip restricts iv to window. ok is false when nothing remains.
func (iv TimeInterval) Clip(window TimeInterval) (TimeInterval, bool) {
	start, end := iv.Start, iv.End
	if start.Before(window.Start) {
		start = window.Start
	}
	if end.After(window.End) {
		end = window.End
	}
	if !start.Before(end) {
		return TimeInterval{}, false
	}
	return TimeInterval{Start: start, End: end}, true
}

// In returns iv with both ends converted to loc.
func (iv TimeInterval) In(loc *time.Location) TimeInterval {
	return TimeInterval{Start: iv.Start.In(loc), End: iv.End.In(loc)}
}

func (iv TimeInterval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
}
