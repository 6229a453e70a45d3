package timeexpr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnparseableTime is matched by every UnparseableTimeError.
	ErrUnparseableTime = errors.New("unparseable time expression")

	// ErrInvalidShiftFormat is returned for shift tokens outside [+-]N[hmd].
	ErrInvalidShiftFormat = errors.New("invalid shift format")
)

const (
	hintISO        = "use ISO 8601 (2026-03-01T15:00) or a phrase such as \"tomorrow 3pm\""
	hintNoFallback = "natural-language parsing is disabled; use ISO 8601 (2026-03-01T15:00)"
	hintEmpty      = "a time is required; use ISO 8601 (2026-03-01T15:00)"
)

// UnparseableTimeError reports text that no layout or fallback could resolve.
type UnparseableTimeError struct {
	Text string
	Hint string
}

func (e *UnparseableTimeError) Error() string {
	return fmt.Sprintf("cannot parse time %q: %s", e.Text, e.Hint)
}

// Is makes errors.Is(err, ErrUnparseableTime) work.
func (e *UnparseableTimeError) Is(target error) bool {
	return target == ErrUnparseableTime
}
