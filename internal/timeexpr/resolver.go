package timeexpr

import (
	"strings"
	"time"
)

// layouts are the exact forms accepted before falling back to natural
// language. They carry no zone and are read in the reference location.
var layouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Fallback resolves free-form text relative to ref. ok is false when the
// text holds no recognizable time.
type Fallback interface {
	Parse(text string, ref time.Time) (t time.Time, ok bool, err error)
}

// Resolver converts user time expressions to instants.
type Resolver struct {
	fallback Fallback
}

// NewResolver creates a Resolver. A nil fallback restricts input to the
// exact layouts.
func NewResolver(fallback Fallback) *Resolver {
	return &Resolver{fallback: fallback}
}

// HasFallback reports whether natural-language input is accepted.
func (r *Resolver) HasFallback() bool {
	return r != nil && r.fallback != nil
}

// Resolve parses text relative to ref. Zone-less input is interpreted in loc
// (ref's location when loc is nil). Relative phrases prefer future dates.
func (r *Resolver) Resolve(text string, ref time.Time, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, &UnparseableTimeError{Text: text, Hint: hintEmpty}
	}
	if loc == nil {
		loc = ref.Location()
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	if !r.HasFallback() {
		return time.Time{}, &UnparseableTimeError{Text: text, Hint: hintNoFallback}
	}

	local := ref.In(loc)
	t, ok, err := r.fallback.Parse(s, local)
	if err != nil || !ok {
		return time.Time{}, &UnparseableTimeError{Text: text, Hint: hintISO}
	}
	return preferFuture(s, t.In(loc), local), nil
}

var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"mon", "tue", "wed", "thu", "fri", "sat", "sun",
}

var pastMarkers = []string{"last", "ago", "yesterday", "past", "previous"}

// preferFuture pushes a bare weekday that landed before the reference day
// into the following week.
func preferFuture(text string, t, ref time.Time) time.Time {
	if !t.Before(StartOfDay(ref)) {
		return t
	}
	words := strings.Fields(strings.ToLower(text))
	if containsAny(words, pastMarkers) || !containsAny(words, weekdayNames) {
		return t
	}
	for t.Before(StartOfDay(ref)) {
		t = t.AddDate(0, 0, 7)
	}
	return t
}

func containsAny(words, candidates []string) bool {
	for _, w := range words {
		w = strings.Trim(w, ",.")
		for _, c := range candidates {
			if w == c {
				return true
			}
		}
	}
	return false
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
