package timeexpr

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var shiftPattern = regexp.MustCompile(`^([+-]?)(\d+)([hmd])$`)

// ShiftUnit is the unit letter of a shift token.
type ShiftUnit string

const (
	UnitMinute ShiftUnit = "m"
	UnitHour   ShiftUnit = "h"
	UnitDay    ShiftUnit = "d"
)

func (u ShiftUnit) duration() time.Duration {
	switch u {
	case UnitMinute:
		return time.Minute
	case UnitHour:
		return time.Hour
	default:
		return 24 * time.Hour
	}
}

// ShiftDelta is a signed offset parsed from a token like "+2h" or "-30m".
// A day is a fixed 24 hours.
type ShiftDelta struct {
	Amount int64
	Unit   ShiftUnit
}

// ParseShift parses token against [+-]?<digits><h|m|d>. A missing sign
// means forward.
func ParseShift(token string) (ShiftDelta, error) {
	m := shiftPattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return ShiftDelta{}, fmt.Errorf("%w %q: use +2h, -30m or +1d", ErrInvalidShiftFormat, token)
	}
	unit := ShiftUnit(m[3])
	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil || n > math.MaxInt64/int64(unit.duration()) {
		return ShiftDelta{}, fmt.Errorf("%w %q: amount out of range", ErrInvalidShiftFormat, token)
	}
	if m[1] == "-" {
		n = -n
	}
	return ShiftDelta{Amount: n, Unit: unit}, nil
}

// Duration returns the delta as a time.Duration.
func (d ShiftDelta) Duration() time.Duration {
	return time.Duration(d.Amount) * d.Unit.duration()
}

// WholeDays reports whether the delta is a whole number of days.
func (d ShiftDelta) WholeDays() bool {
	return d.Duration()%(24*time.Hour) == 0
}

func (d ShiftDelta) String() string {
	if d.Amount < 0 {
		return fmt.Sprintf("%d%s", d.Amount, d.Unit)
	}
	return fmt.Sprintf("+%d%s", d.Amount, d.Unit)
}
