package tasks

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the due date format.
const DateLayout = "2006-01-02"

// ShortIDLength is the number of id characters shown to users.
const ShortIDLength = 8

// Priority ranks tasks.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority validates a priority name. Empty means medium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	default:
		return "", fmt.Errorf("invalid priority %q, must be one of: high, medium, low", s)
	}
}

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Task is one entry of the task list.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	DueDate     string     `json:"due_date"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// ShortID returns the id prefix shown to users.
func (t Task) ShortID() string {
	if len(t.ID) <= ShortIDLength {
		return t.ID
	}
	return t.ID[:ShortIDLength]
}

// Due parses the due date in loc. ok is false for undated or malformed dates.
func (t Task) Due(loc *time.Location) (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DateLayout, t.DueDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// DaysUntilDue counts calendar days from today to the due date; negative
// values mean overdue.
func (t Task) DaysUntilDue(today time.Time) (int, bool) {
	due, ok := t.Due(today.Location())
	if !ok {
		return 0, false
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return int(due.Sub(start).Round(time.Hour).Hours() / 24), true
}

// NewTask holds the fields of a task to add.
type NewTask struct {
	Title    string
	Priority string
	Category string
	Due      string
	Notes    string
}

// CategoryGroup is the pending tasks of one category.
type CategoryGroup struct {
	Category string `json:"category"`
	Tasks    []Task `json:"tasks"`
}

// Summary counts pending tasks.
type Summary struct {
	Pending      int `json:"pending"`
	Overdue      int `json:"overdue"`
	DueToday     int `json:"due_today"`
	HighPriority int `json:"high_priority"`
}

func (s Summary) String() string {
	parts := []string{fmt.Sprintf("%d pending", s.Pending)}
	if s.Overdue > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue", s.Overdue))
	}
	if s.DueToday > 0 {
		parts = append(parts, fmt.Sprintf("%d due today", s.DueToday))
	}
	if s.HighPriority > 0 {
		parts = append(parts, fmt.Sprintf("%d high-priority", s.HighPriority))
	}
	return "Tasks: " + strings.Join(parts, " | ")
}
