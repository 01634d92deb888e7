package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caltide/caltide/server/service/calendar"
	"github.com/caltide/caltide/server/timezone"
)

const (
	// maxSlotsShown caps the slot listing; the remainder is summarized.
	maxSlotsShown = 5

	// defaultDurationMinutes applies when the classifier omits a duration.
	defaultDurationMinutes = 60
)

// Assistant is the operation dispatcher: it turns raw user text into exactly
// one calendar operation and one human-readable response. It holds no
// mutable state between calls; a single instance may serve any number of
// sequential conversations.
type Assistant struct {
	calendar   calendar.Service
	classifier Classifier
	loc        *time.Location
	hours      WorkingHours

	// now is injectable for deterministic tests.
	now func() time.Time
}

// Option customizes an Assistant.
type Option func(*Assistant)

// WithTimezone sets the local timezone used for temporal resolution and
// display formatting.
func WithTimezone(loc *time.Location) Option {
	return func(a *Assistant) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// WithWorkingHours sets the availability-search window.
func WithWorkingHours(hours WorkingHours) Option {
	return func(a *Assistant) { a.hours = hours }
}

// WithClock overrides the reference-now source.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Assistant over the given calendar and classifier
// collaborators.
func New(cal calendar.Service, cls Classifier, opts ...Option) *Assistant {
	a := &Assistant{
		calendar:   cal,
		classifier: cls,
		loc:        time.Local,
		hours:      DefaultWorkingHours,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ProcessQuery processes one user message to completion and returns the
// response text. It never returns an error: temporal, classifier, and
// calendar failures are all converted into user-facing messages at this
// boundary and logged with detail for operators.
func (a *Assistant) ProcessQuery(ctx context.Context, text string) string {
	trimmed := strings.TrimSpace(text)
	if lower := strings.ToLower(trimmed); lower == "help" || lower == "?" {
		return helpText
	}

	// Destructive bulk operations are recognized deterministically before
	// any model involvement.
	if intent := InterceptBulkDelete(trimmed, a.now(), a.loc); intent != nil {
		slog.Info("bulk delete intercepted",
			"input", truncateForLog(trimmed, 100),
			"start", FormatInstant(intent.BulkDelete.Start),
			"end", FormatInstant(intent.BulkDelete.End))
		return a.Dispatch(ctx, intent)
	}

	intent, err := a.classifier.Classify(ctx, trimmed)
	if err != nil {
		slog.Error("classifier call failed",
			"input", truncateForLog(trimmed, 100),
			"error", err)
		return "I'm having trouble understanding your request. Please try again or type 'help' for examples."
	}

	return a.Dispatch(ctx, intent)
}

// Dispatch routes one intent to its terminal state. Every intent yields
// exactly one response string; collaborator failures are absorbed here.
func (a *Assistant) Dispatch(ctx context.Context, intent *Intent) string {
	if intent == nil {
		return unknownText
	}

	switch intent.Kind {
	case IntentScheduleEvent:
		return a.handleSchedule(ctx, intent.ScheduleEvent)
	case IntentShowEvents:
		return a.handleShow(ctx, intent.ShowEvents)
	case IntentFindSlots:
		return a.handleFindSlots(ctx, intent.FindSlots)
	case IntentUpdateEvent:
		return a.handleUpdate(ctx, intent.UpdateEvent)
	case IntentDeleteEvent:
		return a.handleDelete(ctx, intent.DeleteEvent)
	case IntentBulkDeleteEvents:
		return a.handleBulkDelete(ctx, intent.BulkDelete)
	case IntentHelp:
		return helpText
	case IntentReply:
		if intent.Reply != "" {
			return intent.Reply
		}
		return unknownText
	default:
		return unknownText
	}
}

func (a *Assistant) handleSchedule(ctx context.Context, args *ScheduleEventArgs) string {
	if args == nil || args.Title == "" || args.StartTime == "" {
		return "Please provide an event title and start time. Example: \"Schedule a team meeting tomorrow at 2 PM\"."
	}
	duration := args.DurationMinutes
	if duration < 1 {
		duration = defaultDurationMinutes
	}

	now := a.now()
	start, err := ResolveTime(args.StartTime, now, a.loc)
	if err != nil {
		return err.Error()
	}

	id, err := a.calendar.CreateEvent(ctx, &calendar.CreateEventRequest{
		Title:           args.Title,
		Start:           start,
		DurationMinutes: duration,
		Description:     args.Description,
	})
	if err != nil {
		slog.Error("schedule event failed",
			"title", truncateForLog(args.Title, 50),
			"start", FormatInstant(start),
			"error", err)
		return "Failed to schedule event. Please try again."
	}

	slog.Info("event scheduled",
		"event_id", id,
		"title", truncateForLog(args.Title, 50),
		"start", FormatInstant(start),
		"duration_minutes", duration)

	var b strings.Builder
	fmt.Fprintf(&b, "✓ Successfully scheduled: %s\n", args.Title)
	fmt.Fprintf(&b, "Start: %s\n", timezone.FormatDisplayTime(start, a.loc))
	fmt.Fprintf(&b, "Duration: %d minutes\n", duration)
	fmt.Fprintf(&b, "Event ID: %s", id)
	if start.Before(now) {
		b.WriteString("\nNote: this event is in the past.")
	}
	return b.String()
}

func (a *Assistant) handleShow(ctx context.Context, args *ShowEventsArgs) string {
	if args == nil || args.StartTime == "" {
		return "Please specify a time period. Example: \"What's on my calendar today?\""
	}

	now := a.now()
	start, err := ResolveTime(args.StartTime, now, a.loc)
	if err != nil {
		return err.Error()
	}

	var end time.Time
	if args.EndTime != "" {
		end, err = ResolveTime(args.EndTime, now, a.loc)
		if err != nil {
			return err.Error()
		}
	} else {
		end = start.Add(24 * time.Hour)
	}

	// Show only upcoming events when the window straddles now. A window
	// entirely in the past is an explicit request for past events and is
	// left untouched.
	annotation := ""
	if start.Before(now) && end.After(now) {
		start = now
		annotation = " (showing only upcoming events)"
	}

	events, err := a.calendar.ListEvents(ctx, start, end)
	if err != nil {
		slog.Error("list events failed",
			"start", FormatInstant(start),
			"end", FormatInstant(end),
			"error", err)
		return "Sorry, I had trouble retrieving your events. Please try again."
	}

	startDisplay := timezone.FormatDisplayTime(start, a.loc)
	endDisplay := timezone.FormatDisplayTime(end, a.loc)
	if len(events) == 0 {
		return fmt.Sprintf("No events found between %s and %s.", startDisplay, endDisplay)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are your events between %s and %s%s:", startDisplay, endDisplay, annotation)
	for _, event := range events {
		b.WriteByte('\n')
		b.WriteString(timezone.FormatEventLine(event.Start, event.Title, event.Location, a.loc))
		if event.Description != "" {
			fmt.Fprintf(&b, "\n  Description: %s", event.Description)
		}
	}
	return b.String()
}

func (a *Assistant) handleFindSlots(ctx context.Context, args *FindSlotsArgs) string {
	if args == nil || args.Date == "" {
		return "Please specify a date. Example: \"When am I free tomorrow?\""
	}
	duration := args.DurationMinutes
	if duration < 1 {
		duration = defaultDurationMinutes
	}

	day, dateLabel, err := a.resolveDay(args.Date)
	if err != nil {
		return err.Error()
	}
	dayEnd := day.Add(24*time.Hour - time.Second)

	events, err := a.calendar.ListEvents(ctx, day, dayEnd)
	if err != nil {
		slog.Error("list events for availability failed",
			"date", dateLabel,
			"error", err)
		return "Sorry, I had trouble finding available slots. Please try again."
	}

	busy := make([]Slot, 0, len(events))
	for _, event := range events {
		busy = append(busy, Slot{Start: event.Start, End: event.End, AllDay: event.AllDay})
	}

	slots := FindSlots(day, duration, a.hours, busy)
	if len(slots) == 0 {
		return fmt.Sprintf("No available %d-minute slots found for %s.", duration, dateLabel)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available %d-minute slots for %s:", duration, dateLabel)
	shown := slots
	if len(shown) > maxSlotsShown {
		shown = shown[:maxSlotsShown]
	}
	for _, slot := range shown {
		fmt.Fprintf(&b, "\n- %s to %s",
			timezone.FormatDisplayTime(slot.Start, a.loc),
			timezone.FormatDisplayTime(slot.End, a.loc))
	}
	if remaining := len(slots) - len(shown); remaining > 0 {
		fmt.Fprintf(&b, "\n... and %d more slots available", remaining)
	}
	return b.String()
}

func (a *Assistant) handleUpdate(ctx context.Context, args *UpdateEventArgs) string {
	if args == nil || args.EventID == "" {
		return "Please specify the event ID. Example: \"Update event abc123 title to 'New Title'\"."
	}

	update := &calendar.UpdateEventRequest{}
	if args.Title != "" {
		update.Title = &args.Title
	}
	if args.Description != "" {
		update.Description = &args.Description
	}
	if args.StartTime != "" {
		start, err := ResolveTime(args.StartTime, a.now(), a.loc)
		if err != nil {
			return err.Error()
		}
		update.Start = &start
	}

	if err := a.calendar.UpdateEvent(ctx, args.EventID, update); err != nil {
		slog.Error("update event failed", "event_id", args.EventID, "error", err)
		return "Failed to update event. Please check the event ID and try again."
	}
	return "✓ Event updated successfully"
}

func (a *Assistant) handleDelete(ctx context.Context, args *DeleteEventArgs) string {
	if args == nil || args.EventID == "" {
		return "Please specify the event ID. Example: \"Delete event abc123\"."
	}

	if err := a.calendar.DeleteEvent(ctx, args.EventID); err != nil {
		slog.Error("delete event failed", "event_id", args.EventID, "error", err)
		return "Failed to delete event. Please check the event ID and try again."
	}
	slog.Info("event deleted", "event_id", args.EventID)
	return "✓ Event deleted successfully"
}

// handleBulkDelete lists the bounded range and deletes events one at a time.
// A failure on one event does not abort the remainder; the report carries
// the best-effort count of successes.
func (a *Assistant) handleBulkDelete(ctx context.Context, args *BulkDeleteArgs) string {
	if args == nil {
		return unknownText
	}

	events, err := a.calendar.ListEvents(ctx, args.Start, args.End)
	if err != nil {
		slog.Error("bulk delete listing failed",
			"start", FormatInstant(args.Start),
			"end", FormatInstant(args.End),
			"error", err)
		return "Sorry, I had trouble retrieving your events. Please try again."
	}
	if len(events) == 0 {
		return "No events found in the specified time period."
	}

	deleted := 0
	for _, event := range events {
		if err := a.calendar.DeleteEvent(ctx, event.ID); err != nil {
			slog.Warn("bulk delete item failed", "event_id", event.ID, "error", err)
			continue
		}
		deleted++
	}

	slog.Info("bulk delete completed",
		"found", len(events),
		"deleted", deleted,
		"start", FormatInstant(args.Start),
		"end", FormatInstant(args.End))

	if deleted == 0 {
		return "Failed to delete events. Please try again."
	}
	plural := ""
	if deleted > 1 {
		plural = "s"
	}
	return fmt.Sprintf("✓ Successfully deleted %d event%s", deleted, plural)
}

// resolveDay maps a date expression ("today", "tomorrow", "2024-01-20") to
// midnight UTC of the local calendar date, plus its YYYY-MM-DD label. The
// availability window is anchored to the UTC day of that date, matching the
// bulk-delete day bounds.
func (a *Assistant) resolveDay(expr string) (time.Time, string, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	var local time.Time
	switch {
	case strings.Contains(s, "tomorrow"):
		local = a.now().In(a.loc).AddDate(0, 0, 1)
	case strings.Contains(s, "today"):
		local = a.now().In(a.loc)
	default:
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, "", &UnparseableTimeError{Expression: expr}
		}
		local = parsed
	}
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return day, day.Format("2006-01-02"), nil
}
