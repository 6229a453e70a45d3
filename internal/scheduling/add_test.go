package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/teemow/assistant/internal/logging"
	"github.com/teemow/assistant/internal/preferences"
	"github.com/teemow/assistant/internal/profile"
)

func intPtr(v int) *int { return &v }

type addMocks struct {
	store    *MockCalendarStore
	prefs    *MockPreferenceStore
	profiles *MockProfileStore
}

func newAddMocks(t *testing.T) addMocks {
	ctrl := gomock.NewController(t)
	return addMocks{
		store:    NewMockCalendarStore(ctrl),
		prefs:    NewMockPreferenceStore(ctrl),
		profiles: NewMockProfileStore(ctrl),
	}
}

func (m addMocks) service(t *testing.T, confirmer Confirmer) *Service {
	return newTestService(t, m.store, m.prefs, m.profiles, confirmer)
}

func (m addMocks) expectLoads(doc preferences.Document) {
	m.prefs.EXPECT().Load().Return(doc, nil)
	m.profiles.EXPECT().Load().Return(profile.Default(), nil)
}

func TestAdd_HeadlessConflictAborts(t *testing.T) {
	m := newAddMocks(t)
	m.expectLoads(preferences.NewDocument())
	m.store.EXPECT().
		ListEvents(gomock.Any(), "cal", EventQuery{TimeMin: at(10, 0), TimeMax: at(10, 30)}).
		Return([]Event{{ID: "x", Title: "Standup", Start: at(9, 45), End: at(10, 15)}}, nil)

	_, err := m.service(t, nil).Add(context.Background(), AddRequest{Title: "Review", Start: "2025-06-12 10:00"})
	require.ErrorIs(t, err, ErrConflict)

	var conflictErr *ConflictError
	require.True(t, errors.As(err, &conflictErr))
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, "Standup", conflictErr.Conflicts[0].Title)
}

func TestAdd_ConfirmedInsertsWithDefaults(t *testing.T) {
	m := newAddMocks(t)
	m.expectLoads(preferences.NewDocument())
	m.store.EXPECT().ListEvents(gomock.Any(), "cal", gomock.Any()).
		Return([]Event{{ID: "x", Title: "Standup", Start: at(9, 45), End: at(10, 15)}}, nil)

	var inserted Event
	m.store.EXPECT().InsertEvent(gomock.Any(), "cal", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ev Event) (Event, error) {
			inserted = ev
			ev.ID = "new1"
			return ev, nil
		})

	res, err := m.service(t, nil).Add(context.Background(), AddRequest{
		Title:       "  Review  ",
		Start:       "2025-06-12 10:00",
		Description: "Quarterly numbers",
		Attendees:   []string{"a@example.com, b@example.com", " "},
		Confirmed:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "new1", res.Event.ID)
	assert.Equal(t, "Review", inserted.Title)
	assert.Equal(t, at(10, 0), inserted.Start)
	assert.Equal(t, at(10, 30), inserted.End)
	assert.Equal(t, "UTC", inserted.TimeZone)
	assert.Equal(t, "9", inserted.ColorID)
	assert.Equal(t, []int{10}, inserted.ReminderMinutes)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, inserted.Attendees)
	assert.True(t, strings.HasPrefix(inserted.Description, "Quarterly numbers\n"))
	assert.Contains(t, inserted.Description, "Directory: /work")
	assert.Contains(t, inserted.Description, "Session: sess-1")
	assert.Len(t, res.Preview.Conflicts, 1)
	assert.Nil(t, res.Prep)
}

func TestAdd_PreferencesAndOverrides(t *testing.T) {
	doc := preferences.NewDocument()
	doc.Rules = []preferences.Rule{
		{Match: []string{"standup"}, DurationMinutes: intPtr(15), Color: "green", CalendarName: "Team", Recurrence: "FREQ=WEEKLY;BYDAY=TH"},
	}

	m := newAddMocks(t)
	m.expectLoads(doc)
	m.store.EXPECT().ListCalendars(gomock.Any()).
		Return([]CalendarInfo{{ID: "primary-id", Summary: "Me"}, {ID: "team@group.calendar", Summary: "team"}}, nil)
	m.store.EXPECT().ListEvents(gomock.Any(), "team@group.calendar", EventQuery{TimeMin: at(10, 0), TimeMax: at(10, 15)}).
		Return(nil, nil)

	var inserted Event
	m.store.EXPECT().InsertEvent(gomock.Any(), "team@group.calendar", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ev Event) (Event, error) {
			inserted = ev
			return ev, nil
		})

	res, err := m.service(t, nil).Add(context.Background(), AddRequest{
		Title:           "Daily Standup",
		Start:           "2025-06-12 10:00",
		Color:           "Red",
		ReminderMinutes: intPtr(0),
	})
	require.NoError(t, err)

	keyword, ok := res.Preview.Preference.Matched()
	require.True(t, ok)
	assert.Equal(t, "standup", keyword)
	assert.Equal(t, "4", inserted.ColorID, "explicit color overrides the rule")
	assert.Equal(t, []int{0}, inserted.ReminderMinutes)
	assert.Equal(t, at(10, 15), inserted.End, "duration from the rule")
	assert.Equal(t, []string{"RRULE:FREQ=WEEKLY;BYDAY=TH"}, inserted.Recurrence)
	assert.Len(t, res.Preview.Occurrences, 3)
	assert.Equal(t, "team@group.calendar", res.Preview.CalendarID)
}

func TestAdd_ValidationFailsBeforeRemoteCalls(t *testing.T) {
	tests := []struct {
		name      string
		req       AddRequest
		loadPrefs bool
		wantErr   string
	}{
		{name: "empty title", req: AddRequest{Title: " ", Start: "2025-06-12 10:00"}, wantErr: "title is required"},
		{name: "unparseable start", req: AddRequest{Title: "x", Start: "someday maybe"}, wantErr: "someday maybe"},
		{name: "negative prep", req: AddRequest{Title: "x", Start: "2025-06-12 10:00", PrepMinutes: -5}, wantErr: "prep minutes"},
		{name: "unknown zone", req: AddRequest{Title: "x", Start: "2025-06-12 10:00", TimeZone: "Nowhere/City"}, wantErr: "unknown time zone"},
		{name: "unknown color", req: AddRequest{Title: "x", Start: "2025-06-12 10:00", Color: "mauve"}, loadPrefs: true, wantErr: "unknown color"},
		{name: "end before start", req: AddRequest{Title: "x", Start: "2025-06-12 10:00", End: "2025-06-12 09:00"}, loadPrefs: true, wantErr: "before start"},
		{name: "bad recurrence", req: AddRequest{Title: "x", Start: "2025-06-12 10:00", Recurrence: "FREQ=SOMETIMES"}, loadPrefs: true, wantErr: "recurrence"},
		{name: "zero duration", req: AddRequest{Title: "x", Start: "2025-06-12 10:00", DurationMinutes: intPtr(0)}, loadPrefs: true, wantErr: "duration must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newAddMocks(t)
			if tt.loadPrefs {
				m.prefs.EXPECT().Load().Return(preferences.NewDocument(), nil)
			}
			_, err := m.service(t, autoConfirm{}).Add(context.Background(), tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAdd_ConfirmerFlow(t *testing.T) {
	conflict := Event{ID: "x", Title: "Lunch", Start: at(10, 0), End: at(11, 0)}

	tests := []struct {
		name      string
		confirmer *scriptedConfirmer
		wantErr   error
		wantCalls []string
	}{
		{
			name:      "declined conflicts",
			confirmer: &scriptedConfirmer{conflicts: false, add: true},
			wantErr:   ErrCancelled,
			wantCalls: []string{"conflicts"},
		},
		{
			name:      "declined final confirmation",
			confirmer: &scriptedConfirmer{conflicts: true, add: false},
			wantErr:   ErrCancelled,
			wantCalls: []string{"conflicts", "add"},
		},
		{
			name:      "accepted",
			confirmer: &scriptedConfirmer{conflicts: true, add: true},
			wantCalls: []string{"conflicts", "add"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newAddMocks(t)
			m.expectLoads(preferences.NewDocument())
			m.store.EXPECT().ListEvents(gomock.Any(), "cal", gomock.Any()).Return([]Event{conflict}, nil)
			if tt.wantErr == nil {
				m.store.EXPECT().InsertEvent(gomock.Any(), "cal", gomock.Any()).Return(Event{ID: "ok"}, nil)
			}

			_, err := m.service(t, tt.confirmer).Add(context.Background(), AddRequest{Title: "Review", Start: "2025-06-12 10:00"})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, tt.confirmer.calls)
		})
	}
}

func TestAdd_PrepBlock(t *testing.T) {
	t.Run("inserted before the event", func(t *testing.T) {
		m := newAddMocks(t)
		m.expectLoads(preferences.NewDocument())
		m.store.EXPECT().ListEvents(gomock.Any(), "cal", gomock.Any()).Return(nil, nil)

		var prep Event
		gomock.InOrder(
			m.store.EXPECT().InsertEvent(gomock.Any(), "cal", gomock.Any()).Return(Event{ID: "main"}, nil),
			m.store.EXPECT().InsertEvent(gomock.Any(), "cal", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, ev Event) (Event, error) {
					prep = ev
					ev.ID = "prep"
					return ev, nil
				}),
		)

		res, err := m.service(t, nil).Add(context.Background(), AddRequest{Title: "Demo", Start: "2025-06-12 10:00", PrepMinutes: 20})
		require.NoError(t, err)
		require.NotNil(t, res.Prep)
		assert.Equal(t, "prep", res.Prep.ID)
		assert.Equal(t, "Prep: Demo", prep.Title)
		assert.Equal(t, at(9, 40), prep.Start)
		assert.Equal(t, at(10, 0), prep.End)
		assert.Equal(t, preferences.ColorID(PrepColor), prep.ColorID)
		assert.Empty(t, prep.ReminderMinutes)
		assert.NotNil(t, prep.ReminderMinutes)
	})

	t.Run("failure keeps the main event", func(t *testing.T) {
		m := newAddMocks(t)
		m.expectLoads(preferences.NewDocument())
		m.store.EXPECT().ListEvents(gomock.Any(), "cal", gomock.Any()).Return(nil, nil)
		gomock.InOrder(
			m.store.EXPECT().InsertEvent(gomock.Any(), "cal", gomock.Any()).Return(Event{ID: "main"}, nil),
			m.store.EXPECT().InsertEvent(gomock.Any(), "cal", gomock.Any()).Return(Event{}, errors.New("quota exceeded")),
		)

		res, err := m.service(t, nil).Add(context.Background(), AddRequest{Title: "Demo", Start: "2025-06-12 10:00", PrepMinutes: 20})
		require.NoError(t, err)
		assert.Equal(t, "main", res.Event.ID)
		assert.Nil(t, res.Prep)
		require.ErrorIs(t, res.PrepErr, ErrRemoteStore)
	})
}

func TestAdd_InsertFailureIsRemoteError(t *testing.T) {
	m := newAddMocks(t)
	m.expectLoads(preferences.NewDocument())
	m.store.EXPECT().ListEvents(gomock.Any(), "cal", gomock.Any()).Return(nil, nil)
	m.store.EXPECT().InsertEvent(gomock.Any(), "cal", gomock.Any()).Return(Event{}, errors.New("boom"))

	_, err := m.service(t, nil).Add(context.Background(), AddRequest{Title: "Demo", Start: "2025-06-12 10:00"})
	require.ErrorIs(t, err, ErrRemoteStore)

	var remote *RemoteStoreError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "insert", remote.Op)
}

func TestAdd_BoundaryWarningsDoNotBlock(t *testing.T) {
	m := newAddMocks(t)
	m.expectLoads(preferences.NewDocument())
	m.store.EXPECT().ListEvents(gomock.Any(), "cal", gomock.Any()).Return(nil, nil)
	m.store.EXPECT().InsertEvent(gomock.Any(), "cal", gomock.Any()).Return(Event{ID: "late"}, nil)

	res, err := m.service(t, nil).Add(context.Background(), AddRequest{Title: "Deploy", Start: "2025-06-12 19:30"})
	require.NoError(t, err)
	require.Len(t, res.Preview.Warnings, 1)
	assert.Equal(t, BoundaryAfter, res.Preview.Warnings[0].Kind)
}

func TestAdd_StagesRunInOrder(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "debug", "json")
	require.NoError(t, err)

	store := NewMemoryStore()
	svc, err := NewService(store, &staticPrefs{doc: preferences.NewDocument()}, staticProfile{p: profile.Default()}, Config{
		CalendarID: "cal",
		Logger:     logger,
		Now:        func() time.Time { return testNow },
	})
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), AddRequest{Title: "Demo", Start: "2025-06-12 10:00"})
	require.NoError(t, err)

	var stages []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if st, ok := entry[logging.KeyStage].(string); ok {
			stages = append(stages, st)
		}
	}
	assert.Equal(t, []string{
		StageDraft.String(),
		StagePreferenceResolved.String(),
		StageBoundaryChecked.String(),
		StageConflictChecked.String(),
		StageConfirmed.String(),
		StageCommitted.String(),
	}, stages)
	assert.Len(t, store.Events("cal"), 1)
}
