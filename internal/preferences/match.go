package preferences

import "strings"

// Built-in defaults used when no preference file exists.
const (
	DefaultDurationMinutes = 30
	DefaultColor           = "bold_blue"
	DefaultReminderMinutes = 10
)

// Rule maps keywords to attribute overrides. Nil/empty fields do not
// override.
type Rule struct {
	Match           []string `yaml:"match" json:"match"`
	DurationMinutes *int     `yaml:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	Color           string   `yaml:"color,omitempty" json:"color,omitempty"`
	ReminderMinutes *int     `yaml:"reminder_minutes,omitempty" json:"reminder_minutes,omitempty"`
	CalendarName    string   `yaml:"calendar_name,omitempty" json:"calendar_name,omitempty"`
	Recurrence      string   `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
}

// Defaults is the base every resolution starts from.
type Defaults struct {
	DurationMinutes int    `yaml:"duration_minutes" json:"duration_minutes"`
	Color           string `yaml:"color" json:"color"`
	ReminderMinutes int    `yaml:"reminder_minutes" json:"reminder_minutes"`
}

// BuiltinDefaults returns 30 minutes, bold_blue and a 10 minute reminder.
func BuiltinDefaults() Defaults {
	return Defaults{
		DurationMinutes: DefaultDurationMinutes,
		Color:           DefaultColor,
		ReminderMinutes: DefaultReminderMinutes,
	}
}

// normalize fills a zero duration or empty color from the built-ins.
func (d Defaults) normalize() Defaults {
	if d.DurationMinutes <= 0 {
		d.DurationMinutes = DefaultDurationMinutes
	}
	if d.Color == "" {
		d.Color = DefaultColor
	}
	return d
}

// Resolved is the effective attribute set for one title/description.
type Resolved struct {
	DurationMinutes int    `json:"duration_minutes"`
	Color           string `json:"color"`
	ReminderMinutes int    `json:"reminder_minutes"`
	CalendarName    string `json:"calendar_name,omitempty"`
	Recurrence      string `json:"recurrence,omitempty"`
	// MatchedKeyword is nil when no rule matched.
	MatchedKeyword *string `json:"matched"`
}

// Matched returns the keyword that selected the rule, if any.
func (r Resolved) Matched() (string, bool) {
	if r.MatchedKeyword == nil {
		return "", false
	}
	return *r.MatchedKeyword, true
}

// Match resolves title and description against rules in order. It never
// fails: without a match the defaults are returned.
func Match(title, description string, rules []Rule, defaults Defaults) Resolved {
	haystack := strings.ToLower(title + " " + description)
	for _, rule := range rules {
		for _, kw := range rule.Match {
			if kw == "" || !strings.Contains(haystack, strings.ToLower(kw)) {
				continue
			}
			res := fromDefaults(defaults)
			rule.applyTo(&res)
			keyword := kw
			res.MatchedKeyword = &keyword
			return res
		}
	}
	return fromDefaults(defaults)
}

func fromDefaults(d Defaults) Resolved {
	return Resolved{
		DurationMinutes: d.DurationMinutes,
		Color:           d.Color,
		ReminderMinutes: d.ReminderMinutes,
	}
}

func (r Rule) applyTo(res *Resolved) {
	if r.DurationMinutes != nil {
		res.DurationMinutes = *r.DurationMinutes
	}
	if r.Color != "" {
		res.Color = r.Color
	}
	if r.ReminderMinutes != nil {
		res.ReminderMinutes = *r.ReminderMinutes
	}
	if r.CalendarName != "" {
		res.CalendarName = r.CalendarName
	}
	if r.Recurrence != "" {
		res.Recurrence = r.Recurrence
	}
}
