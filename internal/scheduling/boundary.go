package scheduling

import (
	"fmt"
	"time"

	"github.com/teemow/assistant/internal/profile"
)

// BoundaryKind tells which boundary a start time crosses.
type BoundaryKind string

const (
	BoundaryBefore BoundaryKind = "before"
	BoundaryAfter  BoundaryKind = "after"
)

// BoundaryWarning is advisory and never blocks an add.
type BoundaryWarning struct {
	Kind  BoundaryKind  `json:"kind"`
	Limit profile.Clock `json:"-"`
	Start time.Time     `json:"start"`
}

func (w BoundaryWarning) String() string {
	if w.Kind == BoundaryBefore {
		return fmt.Sprintf("this is before your usual start (%s)", w.Limit)
	}
	return fmt.Sprintf("this is after your preferred cutoff (%s)", w.Limit)
}

// MarshalText renders the warning for JSON output.
func (w BoundaryWarning) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// CheckBoundaries compares start's wall-clock time against the profile's
// earliest and latest start.
func CheckBoundaries(p profile.WorkProfile, start time.Time) []BoundaryWarning {
	var warnings []BoundaryWarning
	at := profile.Of(start)
	if limit := p.EarliestStart(); at.Before(limit) {
		warnings = append(warnings, BoundaryWarning{Kind: BoundaryBefore, Limit: limit, Start: start})
	}
	if limit := p.LatestStart(); at.After(limit) {
		warnings = append(warnings, BoundaryWarning{Kind: BoundaryAfter, Limit: limit, Start: start})
	}
	return warnings
}
