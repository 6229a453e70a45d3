package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/assistant/internal/logging"
	"github.com/teemow/assistant/internal/scheduling"
)

const uncategorized = "uncategorized"

var (
	// ErrNoMatch is returned when no task matches a query.
	ErrNoMatch = errors.New("no matching task")

	// ErrAmbiguousMatch is matched by AmbiguousMatchError.
	ErrAmbiguousMatch = errors.New("ambiguous task match")
)

// AmbiguousMatchError lists the tasks a query matched.
type AmbiguousMatchError struct {
	Query      string
	Candidates []Task
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%d tasks match %q, pass a task id to choose one", len(e.Candidates), e.Query)
}

func (e *AmbiguousMatchError) Is(target error) bool {
	return target == ErrAmbiguousMatch || target == scheduling.ErrAmbiguousMatch
}

// Chooser resolves ambiguous matches and confirms deletes. A false answer
// or an out-of-range index cancels with scheduling.ErrCancelled.
type Chooser interface {
	ChooseTask(ctx context.Context, query string, candidates []Task) (int, error)
	ConfirmTaskDelete(ctx context.Context, task Task) (bool, error)
}

// Options configures a Manager.
type Options struct {
	// Location decides what "today" is. Nil means time.Local.
	Location *time.Location
	// Now defaults to time.Now.
	Now     func() time.Time
	Chooser Chooser
	Logger  *slog.Logger
}

// Manager answers task queries and applies changes to a Store.
type Manager struct {
	store   Store
	loc     *time.Location
	now     func() time.Time
	chooser Chooser
	logger  *slog.Logger
}

// NewManager creates a Manager over store.
func NewManager(store Store, opts Options) *Manager {
	m := &Manager{
		store:   store,
		loc:     opts.Location,
		now:     opts.Now,
		chooser: opts.Chooser,
		logger:  opts.Logger,
	}
	if m.loc == nil {
		m.loc = time.Local
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	return m
}

// WithChooser returns a copy of m using c for interactive decisions.
func (m *Manager) WithChooser(c Chooser) *Manager {
	cp := *m
	cp.chooser = c
	return &cp
}

// Today returns midnight of the current day in the configured zone.
func (m *Manager) Today() time.Time {
	now := m.now().In(m.loc)
	y, mo, d := now.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, m.loc)
}

// Add validates and appends a new pending task.
func (m *Manager) Add(nt NewTask) (Task, error) {
	title := strings.TrimSpace(nt.Title)
	if title == "" {
		return Task{}, fmt.Errorf("task title is required")
	}
	prio, err := ParsePriority(nt.Priority)
	if err != nil {
		return Task{}, err
	}
	due := strings.TrimSpace(nt.Due)
	if due != "" {
		if _, err := time.Parse(DateLayout, due); err != nil {
			return Task{}, fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", nt.Due)
		}
	}

	all, err := m.store.Load()
	if err != nil {
		return Task{}, err
	}
	task := Task{
		ID:        uuid.NewString(),
		Title:     title,
		Priority:  prio,
		Category:  strings.TrimSpace(nt.Category),
		DueDate:   due,
		Notes:     nt.Notes,
		CreatedAt: m.now().UTC(),
	}
	if err := m.store.Save(append(all, task)); err != nil {
		return Task{}, err
	}
	m.logger.Info("task added", logging.Operation("tasks.add"), "task_id", task.ShortID(), "priority", string(prio))
	return task, nil
}

// Pending returns open tasks ordered by priority, then due date with
// undated tasks last.
func (m *Manager) Pending() ([]Task, error) {
	all, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	out := pending(all)
	sort.SliceStable(out, func(i, j int) bool {
		if ri, rj := out[i].Priority.rank(), out[j].Priority.rank(); ri != rj {
			return ri < rj
		}
		return dueKey(out[i]) < dueKey(out[j])
	})
	return out, nil
}

// Completed returns finished tasks, most recently completed first. limit <= 0
// means all.
func (m *Manager) Completed(limit int) ([]Task, error) {
	all, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	var out []Task
	for _, t := range all {
		if t.Completed {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return completedAt(out[i]).After(completedAt(out[j]))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// TodayTasks returns tasks due today and undated high-priority tasks.
func (m *Manager) TodayTasks() (due []Task, urgent []Task, err error) {
	all, err := m.store.Load()
	if err != nil {
		return nil, nil, err
	}
	today := m.Today().Format(DateLayout)
	for _, t := range pending(all) {
		switch {
		case t.DueDate == today:
			due = append(due, t)
		case t.DueDate == "" && t.Priority == PriorityHigh:
			urgent = append(urgent, t)
		}
	}
	return due, urgent, nil
}

// Week returns tasks due from today through the next seven days, ordered
// by due date.
func (m *Manager) Week() ([]Task, error) {
	return m.dueWithin(func(days int) bool { return days >= 0 && days <= 7 })
}

// Overdue returns tasks whose due date has passed, oldest first.
func (m *Manager) Overdue() ([]Task, error) {
	return m.dueWithin(func(days int) bool { return days < 0 })
}

func (m *Manager) dueWithin(keep func(days int) bool) ([]Task, error) {
	all, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	today := m.Today()
	var out []Task
	for _, t := range pending(all) {
		if days, ok := t.DaysUntilDue(today); ok && keep(days) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate < out[j].DueDate })
	return out, nil
}

// ByCategory groups pending tasks by category, sorted by name. A non-empty
// filter keeps only the matching category, case-insensitively.
func (m *Manager) ByCategory(filter string) ([]CategoryGroup, error) {
	list, err := m.Pending()
	if err != nil {
		return nil, err
	}
	groups := map[string][]Task{}
	for _, t := range list {
		cat := t.Category
		if cat == "" {
			cat = uncategorized
		}
		if filter != "" && !strings.EqualFold(cat, filter) {
			continue
		}
		groups[cat] = append(groups[cat], t)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]CategoryGroup, 0, len(names))
	for _, name := range names {
		out = append(out, CategoryGroup{Category: name, Tasks: groups[name]})
	}
	return out, nil
}

// Summary counts pending, overdue, due-today and high-priority tasks.
func (m *Manager) Summary() (Summary, error) {
	all, err := m.store.Load()
	if err != nil {
		return Summary{}, err
	}
	today := m.Today()
	var s Summary
	for _, t := range pending(all) {
		s.Pending++
		if days, ok := t.DaysUntilDue(today); ok {
			if days < 0 {
				s.Overdue++
			} else if days == 0 {
				s.DueToday++
			}
		}
		if t.Priority == PriorityHigh {
			s.HighPriority++
		}
	}
	return s, nil
}

// Complete marks the pending task matching query as done.
func (m *Manager) Complete(ctx context.Context, query string) (Task, error) {
	all, err := m.store.Load()
	if err != nil {
		return Task{}, err
	}
	idx, err := m.find(ctx, all, query, true)
	if err != nil {
		return Task{}, err
	}
	now := m.now().UTC()
	all[idx].Completed = true
	all[idx].CompletedAt = &now
	if err := m.store.Save(all); err != nil {
		return Task{}, err
	}
	m.logger.Info("task completed", logging.Operation("tasks.complete"), "task_id", all[idx].ShortID())
	return all[idx], nil
}

// Delete removes the task matching query. With a Chooser the delete is
// confirmed first; confirmed skips that step.
func (m *Manager) Delete(ctx context.Context, query string, confirmed bool) (Task, error) {
	all, err := m.store.Load()
	if err != nil {
		return Task{}, err
	}
	idx, err := m.find(ctx, all, query, false)
	if err != nil {
		return Task{}, err
	}
	task := all[idx]
	if m.chooser != nil && !confirmed {
		ok, err := m.chooser.ConfirmTaskDelete(ctx, task)
		if err != nil {
			return Task{}, fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return Task{}, scheduling.ErrCancelled
		}
	}
	all = append(all[:idx], all[idx+1:]...)
	if err := m.store.Save(all); err != nil {
		return Task{}, err
	}
	m.logger.Info("task deleted", logging.Operation("tasks.delete"), "task_id", task.ShortID())
	return task, nil
}

// find returns the index of the single task matching query by id prefix or
// title substring.
func (m *Manager) find(ctx context.Context, all []Task, query string, pendingOnly bool) (int, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return -1, fmt.Errorf("a task id or title is required")
	}
	var idx []int
	for i, t := range all {
		if pendingOnly && t.Completed {
			continue
		}
		if strings.HasPrefix(strings.ToLower(t.ID), q) || strings.Contains(strings.ToLower(t.Title), q) {
			idx = append(idx, i)
		}
	}
	switch len(idx) {
	case 0:
		return -1, fmt.Errorf("%w: %q", ErrNoMatch, query)
	case 1:
		return idx[0], nil
	}

	candidates := make([]Task, len(idx))
	for i, j := range idx {
		candidates[i] = all[j]
	}
	if m.chooser == nil {
		return -1, &AmbiguousMatchError{Query: query, Candidates: candidates}
	}
	choice, err := m.chooser.ChooseTask(ctx, query, candidates)
	if err != nil {
		return -1, fmt.Errorf("selection failed: %w", err)
	}
	if choice < 0 || choice >= len(idx) {
		return -1, scheduling.ErrCancelled
	}
	return idx[choice], nil
}

func pending(all []Task) []Task {
	out := make([]Task, 0, len(all))
	for _, t := range all {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// dueKey sorts undated tasks after every date.
func dueKey(t Task) string {
	if t.DueDate == "" {
		return "zzz"
	}
	return t.DueDate
}

func completedAt(t Task) time.Time {
	if t.CompletedAt == nil {
		return time.Time{}
	}
	return *t.CompletedAt
}
