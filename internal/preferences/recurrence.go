package preferences

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const rrulePrefix = "RRULE:"

// ValidateRecurrence checks an RRULE value, with or without the "RRULE:"
// prefix.
func ValidateRecurrence(rule string) error {
	if _, err := rrule.StrToRRule(stripPrefix(rule)); err != nil {
		return fmt.Errorf("invalid recurrence %q: %w", rule, err)
	}
	return nil
}

// NormalizeRecurrence returns rule in the "RRULE:..." form calendar
// stores expect. Empty input yields an empty result.
func NormalizeRecurrence(rule string) string {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return ""
	}
	return rrulePrefix + stripPrefix(rule)
}

// NextOccurrences returns up to n occurrences of rule starting at start,
// looking at most two years ahead.
func NextOccurrences(rule string, start time.Time, n int) ([]time.Time, error) {
	r, err := rrule.StrToRRule(stripPrefix(rule))
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence %q: %w", rule, err)
	}
	r.DTStart(start)
	all := r.Between(start, start.AddDate(2, 0, 0), true)
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func stripPrefix(rule string) string {
	rule = strings.TrimSpace(rule)
	if len(rule) >= len(rrulePrefix) && strings.EqualFold(rule[:len(rrulePrefix)], rrulePrefix) {
		return rule[len(rrulePrefix):]
	}
	return rule
}
