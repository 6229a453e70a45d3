package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/teemow/assistant/internal/scheduling"
)

const (
	dayLayout   = "Mon Jan 2"
	clockLayout = "15:04"
	// idDisplayLength is how much of an event id is shown for --event-id.
	idDisplayLength = 8
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// formatWhen renders an event's span in loc. All-day events show their
// date only.
func formatWhen(ev scheduling.Event, loc *time.Location) string {
	if ev.AllDay {
		return ev.Start.Format(dayLayout) + " (all day)"
	}
	return formatSpan(ev.Start, ev.End, loc)
}

func formatSpan(start, end time.Time, loc *time.Location) string {
	start, end = start.In(loc), end.In(loc)
	if sameDay(start, end) {
		return fmt.Sprintf("%s %s-%s", start.Format(dayLayout), start.Format(clockLayout), end.Format(clockLayout))
	}
	return fmt.Sprintf("%s %s -> %s %s", start.Format(dayLayout), start.Format(clockLayout), end.Format(dayLayout), end.Format(clockLayout))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// pastMarker flags events that have already ended.
func pastMarker(ev scheduling.Event, now time.Time) string {
	if !ev.End.After(now) {
		return "✓ "
	}
	return "  "
}

func shortID(id string) string {
	if len(id) > idDisplayLength {
		return id[:idDisplayLength]
	}
	return id
}

// parseCommaSeparatedList parses a comma-separated string into a slice,
// trimming whitespace from each element and filtering out empty strings.
// Returns nil if the input is empty or contains only whitespace/commas.
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// parseIntList parses "0,1,2" into integers.
func parseIntList(s string) ([]int, error) {
	parts := parseCommaSeparatedList(s)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", p)
		}
		out = append(out, n)
	}
	return out, nil
}
