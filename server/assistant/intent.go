// Package assistant implements the natural-language calendar assistant core:
// intent classification, temporal normalization, bulk-delete interception,
// availability search, and the operation dispatch state machine.
package assistant

import "time"

// IntentKind identifies the classified user goal.
type IntentKind string

const (
	IntentScheduleEvent   IntentKind = "schedule_event"
	IntentShowEvents      IntentKind = "show_events"
	IntentFindSlots       IntentKind = "find_slots"
	IntentUpdateEvent     IntentKind = "update_event"
	IntentDeleteEvent     IntentKind = "delete_event"
	IntentBulkDeleteEvents IntentKind = "bulk_delete_events"
	IntentHelp            IntentKind = "help"
	IntentReply           IntentKind = "reply"
	IntentUnknown         IntentKind = "unknown"
)

// Intent is the classified user goal plus its structured arguments.
// Exactly one argument payload is set, matching Kind. Intents are created by
// the classifier or the bulk intercept and consumed once by Dispatch.
type Intent struct {
	Kind IntentKind

	ScheduleEvent *ScheduleEventArgs
	ShowEvents    *ShowEventsArgs
	FindSlots     *FindSlotsArgs
	UpdateEvent   *UpdateEventArgs
	DeleteEvent   *DeleteEventArgs
	BulkDelete    *BulkDeleteArgs

	// Reply carries the model's free-form text when no function was called.
	Reply string
}

// ScheduleEventArgs carries the arguments for creating an event. StartTime is
// the user's literal phrasing ("tomorrow at 2 PM"), not a normalized instant.
type ScheduleEventArgs struct {
	Title           string `json:"title"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Description     string `json:"description,omitempty"`
}

// ShowEventsArgs carries the raw start/end expressions of a listing request.
type ShowEventsArgs struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// FindSlotsArgs carries the date expression and desired slot length.
type FindSlotsArgs struct {
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
}

// UpdateEventArgs carries a partial update. Empty fields are left untouched.
type UpdateEventArgs struct {
	EventID     string `json:"event_id"`
	Title       string `json:"title,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	Description string `json:"description,omitempty"`
}

// DeleteEventArgs identifies a single event to remove.
type DeleteEventArgs struct {
	EventID string `json:"event_id"`
}

// BulkDeleteArgs bounds a mass deletion. Both instants are already resolved
// to UTC by the bulk intercept; they never pass through the resolver again.
type BulkDeleteArgs struct {
	Start time.Time
	End   time.Time
}
