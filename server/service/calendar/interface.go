// Package calendar defines the calendar collaborator consumed by the
// assistant core, plus the store-backed and Google-backed implementations.
package calendar

import (
	"context"
	"time"
)

// Event is the collaborator-owned entity as seen by the core: identifier,
// title, time bounds, and the optional display attributes. Start and End are
// always UTC; all-day events carry the date with AllDay set.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
}

// CreateEventRequest carries the fields for a new event. Start must be UTC;
// DurationMinutes must be at least 1.
type CreateEventRequest struct {
	Title           string
	Start           time.Time
	DurationMinutes int
	Description     string
	Location        string
	Attendees       []string
}

// UpdateEventRequest is a partial update. Nil fields are left untouched.
type UpdateEventRequest struct {
	Title       *string
	Start       *time.Time
	Description *string
	Location    *string
}

// Service is the calendar collaborator interface. Every time argument
// crossing this boundary is UTC; implementations that talk to a remote
// calendar encode instants with millisecond precision and a literal "Z"
// marker on the wire.
type Service interface {
	// ListEvents returns the events overlapping [start, end), ordered by
	// ascending start time.
	ListEvents(ctx context.Context, start, end time.Time) ([]*Event, error)

	// CreateEvent creates an event and returns its identifier.
	CreateEvent(ctx context.Context, create *CreateEventRequest) (string, error)

	// UpdateEvent applies a partial update to the identified event.
	UpdateEvent(ctx context.Context, id string, update *UpdateEventRequest) error

	// DeleteEvent removes the identified event.
	DeleteEvent(ctx context.Context, id string) error
}
