package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/assistant/internal/scheduling"
)

// memStore keeps tasks in memory.
type memStore struct {
	tasks   []Task
	saveErr error
	saves   int
}

func (s *memStore) Load() ([]Task, error) {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *memStore) Save(tasks []Task) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.tasks = append([]Task(nil), tasks...)
	return nil
}

type scriptedChooser struct {
	choice  int
	confirm bool
	asked   []Task
}

func (c *scriptedChooser) ChooseTask(_ context.Context, _ string, candidates []Task) (int, error) {
	c.asked = candidates
	return c.choice, nil
}

func (c *scriptedChooser) ConfirmTaskDelete(context.Context, Task) (bool, error) {
	return c.confirm, nil
}

// testNow is Thursday 2025-06-12 10:00 UTC.
var testNow = time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)

func newTestManager(tasks ...Task) (*Manager, *memStore) {
	store := &memStore{tasks: tasks}
	return NewManager(store, Options{
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	}), store
}

func fixture() []Task {
	return []Task{
		{ID: "aaaa1111-0000", Title: "Low undated", Priority: PriorityLow},
		{ID: "bbbb2222-0000", Title: "Medium tomorrow", Priority: PriorityMedium, DueDate: "2025-06-13", Category: "work"},
		{ID: "cccc3333-0000", Title: "High today", Priority: PriorityHigh, DueDate: "2025-06-12", Category: "work"},
		{ID: "dddd4444-0000", Title: "High undated", Priority: PriorityHigh, Category: "home"},
		{ID: "eeee5555-0000", Title: "Medium overdue", Priority: PriorityMedium, DueDate: "2025-06-01"},
		{ID: "ffff6666-0000", Title: "Done task", Priority: PriorityHigh, DueDate: "2025-06-12", Completed: true},
		{ID: "abab7777-0000", Title: "Low next month", Priority: PriorityLow, DueDate: "2025-07-20"},
		{ID: "acac8888-0000", Title: "Medium in a week", Priority: PriorityMedium, DueDate: "2025-06-19"},
	}
}

func titles(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestManager_Add(t *testing.T) {
	tests := []struct {
		name    string
		in      NewTask
		want    Priority
		wantErr string
	}{
		{name: "default priority", in: NewTask{Title: "  Buy milk  "}, want: PriorityMedium},
		{name: "explicit priority", in: NewTask{Title: "Ship", Priority: "HIGH", Due: "2025-06-20"}, want: PriorityHigh},
		{name: "empty title", in: NewTask{Title: " "}, wantErr: "title is required"},
		{name: "bad priority", in: NewTask{Title: "x", Priority: "urgent"}, wantErr: "invalid priority"},
		{name: "bad due date", in: NewTask{Title: "x", Due: "tomorrow"}, wantErr: "invalid due date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store := newTestManager()
			task, err := m.Add(tt.in)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.Zero(t, store.saves)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, task.Priority)
			assert.NotEmpty(t, task.ID)
			assert.Len(t, task.ShortID(), ShortIDLength)
			assert.Equal(t, testNow, task.CreatedAt)
			require.Len(t, store.tasks, 1)
			assert.Equal(t, task.ID, store.tasks[0].ID)
		})
	}
}

func TestManager_Pending(t *testing.T) {
	m, _ := newTestManager(fixture()...)
	got, err := m.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"High today", "High undated",
		"Medium overdue", "Medium tomorrow", "Medium in a week",
		"Low next month", "Low undated",
	}, titles(got))
}

func TestManager_TodayTasks(t *testing.T) {
	m, _ := newTestManager(fixture()...)
	due, urgent, err := m.TodayTasks()
	require.NoError(t, err)
	assert.Equal(t, []string{"High today"}, titles(due))
	assert.Equal(t, []string{"High undated"}, titles(urgent))
}

func TestManager_WeekAndOverdue(t *testing.T) {
	m, _ := newTestManager(fixture()...)

	week, err := m.Week()
	require.NoError(t, err)
	assert.Equal(t, []string{"High today", "Medium tomorrow", "Medium in a week"}, titles(week))

	overdue, err := m.Overdue()
	require.NoError(t, err)
	assert.Equal(t, []string{"Medium overdue"}, titles(overdue))
}

func TestManager_TodayFollowsLocation(t *testing.T) {
	loc := time.FixedZone("UTC-12", -12*3600)
	store := &memStore{tasks: []Task{{ID: "1", Title: "Due 11th", Priority: PriorityMedium, DueDate: "2025-06-11"}}}
	m := NewManager(store, Options{Location: loc, Now: func() time.Time { return testNow }})

	assert.Equal(t, "2025-06-11", m.Today().Format(DateLayout))
	due, _, err := m.TodayTasks()
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestManager_ByCategory(t *testing.T) {
	m, _ := newTestManager(fixture()...)

	groups, err := m.ByCategory("")
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "home", groups[0].Category)
	assert.Equal(t, "uncategorized", groups[1].Category)
	assert.Equal(t, "work", groups[2].Category)
	assert.Equal(t, []string{"High today", "Medium tomorrow"}, titles(groups[2].Tasks))

	filtered, err := m.ByCategory("WORK")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "work", filtered[0].Category)
}

func TestManager_Summary(t *testing.T) {
	m, _ := newTestManager(fixture()...)
	s, err := m.Summary()
	require.NoError(t, err)
	assert.Equal(t, Summary{Pending: 7, Overdue: 1, DueToday: 1, HighPriority: 2}, s)
	assert.Equal(t, "Tasks: 7 pending | 1 overdue | 1 due today | 2 high-priority", s.String())
	assert.Equal(t, "Tasks: 0 pending", Summary{}.String())
}

func TestManager_Complete(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantTitle string
		wantErr   error
	}{
		{name: "id prefix", query: "bbbb", wantTitle: "Medium tomorrow"},
		{name: "title substring", query: "overdue", wantTitle: "Medium overdue"},
		{name: "completed tasks are skipped", query: "done task", wantErr: ErrNoMatch},
		{name: "no match", query: "nothing", wantErr: ErrNoMatch},
		{name: "ambiguous", query: "high", wantErr: ErrAmbiguousMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store := newTestManager(fixture()...)
			got, err := m.Complete(context.Background(), tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, store.saves)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.True(t, got.Completed)
			require.NotNil(t, got.CompletedAt)
			assert.Equal(t, testNow, *got.CompletedAt)
		})
	}
}

func TestManager_AmbiguousCandidates(t *testing.T) {
	m, _ := newTestManager(fixture()...)
	_, err := m.Complete(context.Background(), "high")

	var amb *AmbiguousMatchError
	require.True(t, errors.As(err, &amb))
	assert.Equal(t, []string{"High today", "High undated"}, titles(amb.Candidates))
	assert.ErrorIs(t, err, scheduling.ErrAmbiguousMatch)
}

func TestManager_ChooserPicks(t *testing.T) {
	m, store := newTestManager(fixture()...)
	chooser := &scriptedChooser{choice: 1}
	got, err := m.WithChooser(chooser).Complete(context.Background(), "high")
	require.NoError(t, err)
	assert.Len(t, chooser.asked, 2)
	assert.Equal(t, "High undated", got.Title)
	assert.Equal(t, 1, store.saves)

	_, err = m.WithChooser(&scriptedChooser{choice: -1}).Complete(context.Background(), "high")
	assert.ErrorIs(t, err, scheduling.ErrCancelled)
}

func TestManager_Delete(t *testing.T) {
	t.Run("includes completed tasks", func(t *testing.T) {
		m, store := newTestManager(fixture()...)
		got, err := m.Delete(context.Background(), "done task", false)
		require.NoError(t, err)
		assert.Equal(t, "ffff6666-0000", got.ID)
		assert.Len(t, store.tasks, len(fixture())-1)
	})

	t.Run("declined", func(t *testing.T) {
		m, store := newTestManager(fixture()...)
		_, err := m.WithChooser(&scriptedChooser{confirm: false}).Delete(context.Background(), "bbbb", false)
		assert.ErrorIs(t, err, scheduling.ErrCancelled)
		assert.Zero(t, store.saves)
	})

	t.Run("pre-confirmed skips prompt", func(t *testing.T) {
		m, store := newTestManager(fixture()...)
		_, err := m.WithChooser(&scriptedChooser{confirm: false}).Delete(context.Background(), "bbbb", true)
		require.NoError(t, err)
		assert.Equal(t, 1, store.saves)
	})

	t.Run("save failure", func(t *testing.T) {
		m, store := newTestManager(fixture()...)
		store.saveErr = errors.New("disk full")
		_, err := m.Delete(context.Background(), "bbbb", true)
		assert.ErrorContains(t, err, "disk full")
	})
}

func TestTask_DaysUntilDue(t *testing.T) {
	today := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		due    string
		want   int
		wantOK bool
	}{
		{due: "2025-06-12", want: 0, wantOK: true},
		{due: "2025-06-19", want: 7, wantOK: true},
		{due: "2025-06-10", want: -2, wantOK: true},
		{due: "", wantOK: false},
		{due: "junk", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.due, func(t *testing.T) {
			got, ok := Task{DueDate: tt.due}.DaysUntilDue(today)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
