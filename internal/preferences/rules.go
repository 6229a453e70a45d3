package preferences

import (
	"fmt"
	"strings"
)

// Document is the persisted preference model.
type Document struct {
	Rules    []Rule   `yaml:"patterns" json:"patterns"`
	Defaults Defaults `yaml:"defaults" json:"defaults"`
}

// NewDocument returns an empty rule list over the built-in defaults.
func NewDocument() Document {
	return Document{Rules: []Rule{}, Defaults: BuiltinDefaults()}
}

// Match resolves title and description against the document.
func (d Document) Match(title, description string) Resolved {
	return Match(title, description, d.Rules, d.Defaults)
}

// Update holds the fields to set on a rule. Nil/empty fields are left as is.
type Update struct {
	DurationMinutes *int
	Color           string
	ReminderMinutes *int
	CalendarName    string
	Recurrence      string
}

// Validate checks the color name, recurrence rule and numeric ranges.
func (u Update) Validate() error {
	if u.Color != "" && !ValidColor(u.Color) {
		return fmt.Errorf("unknown color %q, valid colors: %s", u.Color, strings.Join(ColorNames(), ", "))
	}
	if u.DurationMinutes != nil && *u.DurationMinutes <= 0 {
		return fmt.Errorf("duration must be positive, got %d", *u.DurationMinutes)
	}
	if u.ReminderMinutes != nil && *u.ReminderMinutes < 0 {
		return fmt.Errorf("reminder must not be negative, got %d", *u.ReminderMinutes)
	}
	if u.Recurrence != "" {
		if err := ValidateRecurrence(u.Recurrence); err != nil {
			return err
		}
	}
	return nil
}

// IndexOf returns the index of the first rule listing keyword
// (case-insensitive), or -1.
func (d Document) IndexOf(keyword string) int {
	kw := strings.ToLower(keyword)
	for i, rule := range d.Rules {
		for _, m := range rule.Match {
			if strings.ToLower(m) == kw {
				return i
			}
		}
	}
	return -1
}

// Upsert applies u to the rule owning keyword, or appends a new rule
// matching just keyword. Existing rules keep their position.
func (d *Document) Upsert(keyword string, u Update) (Rule, bool, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return Rule{}, false, fmt.Errorf("match keyword is required")
	}
	if err := u.Validate(); err != nil {
		return Rule{}, false, err
	}

	idx := d.IndexOf(keyword)
	created := idx < 0
	var rule Rule
	if created {
		rule = Rule{Match: []string{keyword}}
	} else {
		rule = d.Rules[idx]
	}

	if u.DurationMinutes != nil {
		v := *u.DurationMinutes
		rule.DurationMinutes = &v
	}
	if u.Color != "" {
		rule.Color = strings.ToLower(u.Color)
	}
	if u.ReminderMinutes != nil {
		v := *u.ReminderMinutes
		rule.ReminderMinutes = &v
	}
	if u.CalendarName != "" {
		rule.CalendarName = u.CalendarName
	}
	if u.Recurrence != "" {
		rule.Recurrence = u.Recurrence
	}

	if created {
		d.Rules = append(d.Rules, rule)
	} else {
		d.Rules[idx] = rule
	}
	return rule, created, nil
}
