package assistant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caltide/caltide/server/service/calendar"
)

// fakeCalendar is an in-memory calendar collaborator for dispatcher tests.
type fakeCalendar struct {
	events []*calendar.Event

	createErr error
	listErr   error
	updateErr error
	deleteErr map[string]error

	created []*calendar.CreateEventRequest
	updated map[string]*calendar.UpdateEventRequest
	deleted []string
}

func (f *fakeCalendar) ListEvents(_ context.Context, start, end time.Time) ([]*calendar.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]*calendar.Event, 0)
	for _, event := range f.events {
		if event.Start.Before(end) && event.End.After(start) {
			result = append(result, event)
		}
	}
	return result, nil
}

func (f *fakeCalendar) CreateEvent(_ context.Context, create *calendar.CreateEventRequest) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, create)
	return fmt.Sprintf("evt-%d", len(f.created)), nil
}

func (f *fakeCalendar) UpdateEvent(_ context.Context, id string, update *calendar.UpdateEventRequest) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updated == nil {
		f.updated = make(map[string]*calendar.UpdateEventRequest)
	}
	f.updated[id] = update
	return nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, id string) error {
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// stubClassifier returns a canned intent or error without a live model.
type stubClassifier struct {
	intent *Intent
	err    error
	calls  int
}

func (s *stubClassifier) Classify(context.Context, string) (*Intent, error) {
	s.calls++
	return s.intent, s.err
}

func newTestAssistant(cal *fakeCalendar, cls Classifier) *Assistant {
	return New(cal, cls,
		WithTimezone(newYork),
		WithClock(func() time.Time { return referenceNow }),
	)
}

func TestProcessQueryHelpBypassesClassifier(t *testing.T) {
	cls := &stubClassifier{}
	a := newTestAssistant(&fakeCalendar{}, cls)

	for _, input := range []string{"help", "HELP", "?", " help "} {
		response := a.ProcessQuery(context.Background(), input)
		assert.Contains(t, response, "Schedule events")
	}
	assert.Zero(t, cls.calls, "help must not invoke the classifier")
}

func TestProcessQueryBulkIntercept(t *testing.T) {
	tomorrow := time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{
		events: []*calendar.Event{
			{ID: "a", Title: "Standup", Start: tomorrow, End: tomorrow.Add(time.Hour)},
			{ID: "b", Title: "Review", Start: tomorrow.Add(2 * time.Hour), End: tomorrow.Add(3 * time.Hour)},
		},
	}
	cls := &stubClassifier{}
	a := newTestAssistant(cal, cls)

	response := a.ProcessQuery(context.Background(), "remove all events tomorrow")
	assert.Contains(t, response, "deleted 2 events")
	assert.ElementsMatch(t, []string{"a", "b"}, cal.deleted)
	assert.Zero(t, cls.calls, "bulk intercept must bypass the classifier")
}

func TestProcessQueryBulkDeleteBestEffort(t *testing.T) {
	tomorrow := time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{
		events: []*calendar.Event{
			{ID: "a", Title: "Standup", Start: tomorrow, End: tomorrow.Add(time.Hour)},
			{ID: "b", Title: "Review", Start: tomorrow.Add(2 * time.Hour), End: tomorrow.Add(3 * time.Hour)},
			{ID: "c", Title: "1:1", Start: tomorrow.Add(4 * time.Hour), End: tomorrow.Add(5 * time.Hour)},
		},
		deleteErr: map[string]error{"b": fmt.Errorf("backend unavailable")},
	}
	a := newTestAssistant(cal, &stubClassifier{})

	response := a.ProcessQuery(context.Background(), "clear all events tomorrow")
	assert.Contains(t, response, "deleted 2 events", "per-item failures must not abort the loop")
	assert.ElementsMatch(t, []string{"a", "c"}, cal.deleted)
}

func TestProcessQueryBulkDeleteEmptyRange(t *testing.T) {
	a := newTestAssistant(&fakeCalendar{}, &stubClassifier{})
	response := a.ProcessQuery(context.Background(), "delete all events today")
	assert.Contains(t, response, "No events found")
}

func TestDispatchScheduleEvent(t *testing.T) {
	cal := &fakeCalendar{}
	a := newTestAssistant(cal, nil)

	response := a.Dispatch(context.Background(), &Intent{
		Kind: IntentScheduleEvent,
		ScheduleEvent: &ScheduleEventArgs{
			Title:           "Team Meeting",
			StartTime:       "tomorrow at 2 PM",
			DurationMinutes: 45,
		},
	})

	assert.Contains(t, response, "Successfully scheduled: Team Meeting")
	assert.Contains(t, response, "45 minutes")
	assert.Contains(t, response, "Event ID: evt-1")
	assert.NotContains(t, response, "in the past")

	require.Len(t, cal.created, 1)
	created := cal.created[0]
	// 2 PM Jan 16 New York is 19:00 UTC.
	assert.Equal(t, "2024-01-16T19:00:00.000Z", FormatInstant(created.Start))
	assert.Equal(t, 45, created.DurationMinutes)
}

func TestDispatchScheduleEventPastFlagged(t *testing.T) {
	a := newTestAssistant(&fakeCalendar{}, nil)

	// 3 AM today is in the past at the 5 PM reference time; the event is
	// still created, but the confirmation flags it.
	response := a.Dispatch(context.Background(), &Intent{
		Kind: IntentScheduleEvent,
		ScheduleEvent: &ScheduleEventArgs{
			Title:           "Backdated",
			StartTime:       "today at 3 AM",
			DurationMinutes: 30,
		},
	})
	assert.Contains(t, response, "Successfully scheduled")
	assert.Contains(t, response, "in the past")
}

func TestDispatchScheduleEventFailures(t *testing.T) {
	cal := &fakeCalendar{createErr: fmt.Errorf("quota exceeded")}
	a := newTestAssistant(cal, nil)

	response := a.Dispatch(context.Background(), &Intent{
		Kind: IntentScheduleEvent,
		ScheduleEvent: &ScheduleEventArgs{
			Title:           "Doomed",
			StartTime:       "tomorrow at 10 AM",
			DurationMinutes: 60,
		},
	})
	assert.Equal(t, "Failed to schedule event. Please try again.", response)

	// Unparseable start time surfaces as a clarification request.
	response = a.Dispatch(context.Background(), &Intent{
		Kind: IntentScheduleEvent,
		ScheduleEvent: &ScheduleEventArgs{
			Title:           "Vague",
			StartTime:       "sometime nice",
			DurationMinutes: 60,
		},
	})
	assert.Contains(t, response, "could not parse date")
	assert.Contains(t, response, "sometime nice")
}

func TestDispatchShowEventsClampsToNow(t *testing.T) {
	// referenceNow is 2024-01-15 22:00 UTC. One event before, one after.
	past := time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC)
	future := time.Date(2024, 1, 16, 1, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{
		events: []*calendar.Event{
			{ID: "p", Title: "Morning Sync", Start: past, End: past.Add(time.Hour)},
			{ID: "f", Title: "Evening Review", Start: future, End: future.Add(time.Hour)},
		},
	}
	a := newTestAssistant(cal, nil)

	// "today" resolves to a window straddling now: start clamps forward.
	response := a.Dispatch(context.Background(), &Intent{
		Kind:       IntentShowEvents,
		ShowEvents: &ShowEventsArgs{StartTime: "today at 12 AM", EndTime: "tomorrow at 12 AM"},
	})
	assert.Contains(t, response, "showing only upcoming events")
	assert.Contains(t, response, "Evening Review")
	assert.NotContains(t, response, "Morning Sync")
}

func TestDispatchShowEventsPastWindowUnclamped(t *testing.T) {
	past := time.Date(2024, 1, 14, 15, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{
		events: []*calendar.Event{
			{ID: "p", Title: "Yesterday Standup", Start: past, End: past.Add(time.Hour)},
		},
	}
	a := newTestAssistant(cal, nil)

	// Both bounds in the past is an explicit request for past events.
	response := a.Dispatch(context.Background(), &Intent{
		Kind:       IntentShowEvents,
		ShowEvents: &ShowEventsArgs{StartTime: "2024-01-14", EndTime: "2024-01-15"},
	})
	assert.NotContains(t, response, "showing only upcoming events")
	assert.Contains(t, response, "Yesterday Standup")
}

func TestDispatchShowEventsEmptyAndError(t *testing.T) {
	a := newTestAssistant(&fakeCalendar{}, nil)
	response := a.Dispatch(context.Background(), &Intent{
		Kind:       IntentShowEvents,
		ShowEvents: &ShowEventsArgs{StartTime: "tomorrow at 8 AM", EndTime: "tomorrow at 9 AM"},
	})
	assert.Contains(t, response, "No events found")

	failing := &fakeCalendar{listErr: fmt.Errorf("connection reset")}
	a = newTestAssistant(failing, nil)
	response = a.Dispatch(context.Background(), &Intent{
		Kind:       IntentShowEvents,
		ShowEvents: &ShowEventsArgs{StartTime: "today", EndTime: "tomorrow"},
	})
	assert.Contains(t, response, "trouble retrieving your events")
}

func TestDispatchFindSlots(t *testing.T) {
	// Busy 10:00-11:00 UTC on the target day.
	busyStart := time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{
		events: []*calendar.Event{
			{ID: "x", Title: "Busy", Start: busyStart, End: busyStart.Add(time.Hour)},
		},
	}
	a := newTestAssistant(cal, nil)

	response := a.Dispatch(context.Background(), &Intent{
		Kind:      IntentFindSlots,
		FindSlots: &FindSlotsArgs{Date: "tomorrow", DurationMinutes: 60},
	})
	assert.Contains(t, response, "Available 60-minute slots for 2024-01-16:")
	// 12 slots remain; 5 are listed, 7 summarized.
	assert.Contains(t, response, "... and 7 more slots available")
}

func TestDispatchFindSlotsNoneAvailable(t *testing.T) {
	dayStart := time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{
		events: []*calendar.Event{
			{ID: "x", Title: "Offsite", Start: dayStart, End: dayStart.Add(10 * time.Hour)},
		},
	}
	a := newTestAssistant(cal, nil)

	response := a.Dispatch(context.Background(), &Intent{
		Kind:      IntentFindSlots,
		FindSlots: &FindSlotsArgs{Date: "2024-01-16", DurationMinutes: 30},
	})
	assert.Equal(t, "No available 30-minute slots found for 2024-01-16.", response)
}

func TestDispatchUpdateEvent(t *testing.T) {
	cal := &fakeCalendar{}
	a := newTestAssistant(cal, nil)

	response := a.Dispatch(context.Background(), &Intent{
		Kind: IntentUpdateEvent,
		UpdateEvent: &UpdateEventArgs{
			EventID:   "evt-9",
			Title:     "Renamed",
			StartTime: "tomorrow at 3 PM",
		},
	})
	assert.Equal(t, "✓ Event updated successfully", response)

	update := cal.updated["evt-9"]
	require.NotNil(t, update)
	require.NotNil(t, update.Title)
	assert.Equal(t, "Renamed", *update.Title)
	require.NotNil(t, update.Start)
	assert.Equal(t, "2024-01-16T20:00:00.000Z", FormatInstant(*update.Start))
	assert.Nil(t, update.Description)
}

func TestDispatchUpdateDeleteFailures(t *testing.T) {
	cal := &fakeCalendar{
		updateErr: fmt.Errorf("not found"),
		deleteErr: map[string]error{"gone": fmt.Errorf("not found")},
	}
	a := newTestAssistant(cal, nil)

	response := a.Dispatch(context.Background(), &Intent{
		Kind:        IntentUpdateEvent,
		UpdateEvent: &UpdateEventArgs{EventID: "missing", Title: "X"},
	})
	assert.Contains(t, response, "check the event ID")

	response = a.Dispatch(context.Background(), &Intent{
		Kind:        IntentDeleteEvent,
		DeleteEvent: &DeleteEventArgs{EventID: "gone"},
	})
	assert.Contains(t, response, "check the event ID")

	// Missing identifiers never reach the collaborator.
	response = a.Dispatch(context.Background(), &Intent{
		Kind:        IntentDeleteEvent,
		DeleteEvent: &DeleteEventArgs{},
	})
	assert.Contains(t, response, "specify the event ID")
}

func TestDispatchDeleteEvent(t *testing.T) {
	cal := &fakeCalendar{}
	a := newTestAssistant(cal, nil)

	response := a.Dispatch(context.Background(), &Intent{
		Kind:        IntentDeleteEvent,
		DeleteEvent: &DeleteEventArgs{EventID: "evt-3"},
	})
	assert.Equal(t, "✓ Event deleted successfully", response)
	assert.Equal(t, []string{"evt-3"}, cal.deleted)
}

func TestDispatchUnknownAndReply(t *testing.T) {
	a := newTestAssistant(&fakeCalendar{}, nil)

	assert.Equal(t, unknownText, a.Dispatch(context.Background(), &Intent{Kind: IntentUnknown}))
	assert.Equal(t, unknownText, a.Dispatch(context.Background(), nil))
	assert.Equal(t, "Sure, anything else?", a.Dispatch(context.Background(), &Intent{
		Kind:  IntentReply,
		Reply: "Sure, anything else?",
	}))
	assert.Contains(t, a.Dispatch(context.Background(), &Intent{Kind: IntentHelp}), "Schedule events")
}

func TestProcessQueryClassifierFailureDoesNotPropagate(t *testing.T) {
	cls := &stubClassifier{err: fmt.Errorf("model unavailable")}
	a := newTestAssistant(&fakeCalendar{}, cls)

	assert.NotPanics(t, func() {
		response := a.ProcessQuery(context.Background(), "schedule something")
		assert.Contains(t, response, "trouble understanding")
	})
}

func TestProcessQueryCalendarFailureDoesNotPropagate(t *testing.T) {
	cls := &stubClassifier{intent: &Intent{
		Kind: IntentScheduleEvent,
		ScheduleEvent: &ScheduleEventArgs{
			Title:           "Meeting",
			StartTime:       "tomorrow at 2 PM",
			DurationMinutes: 60,
		},
	}}
	cal := &fakeCalendar{createErr: fmt.Errorf("backend down")}
	a := newTestAssistant(cal, cls)

	assert.NotPanics(t, func() {
		response := a.ProcessQuery(context.Background(), "schedule a meeting tomorrow at 2pm")
		assert.Equal(t, "Failed to schedule event. Please try again.", response)
	})
}
