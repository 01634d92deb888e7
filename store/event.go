package store

import (
	"context"
	"time"
)

// Event is the persisted representation of a calendar event. Timestamps are
// Unix seconds in UTC; Timezone records the zone the event was entered in
// for display purposes only.
type Event struct {
	ID          int32
	UID         string
	CreatedTs   int64
	UpdatedTs   int64
	Title       string
	Description string
	Location    string
	StartTs     int64
	EndTs       int64
	AllDay      bool
	Timezone    string
}

// FindEvent is the find condition for events.
type FindEvent struct {
	ID  *int32
	UID *string

	// Overlap window: events with StartTs < RangeEnd and EndTs > RangeStart.
	RangeStart *int64
	RangeEnd   *int64

	Limit  *int
	Offset *int
}

// UpdateEvent is the update request for an event. Nil fields are untouched.
type UpdateEvent struct {
	ID          int32
	Title       *string
	Description *string
	Location    *string
	StartTs     *int64
	EndTs       *int64
	AllDay      *bool
	Timezone    *string
}

// DeleteEvent is the delete request for an event.
type DeleteEvent struct {
	ID int32
}

// CreateEvent creates a new event.
func (s *Store) CreateEvent(ctx context.Context, create *Event) (*Event, error) {
	event, err := s.driver.CreateEvent(ctx, create)
	if err != nil {
		return nil, err
	}
	s.eventCache.Set(event.UID, event)
	return event, nil
}

// ListEvents lists events with filter, ordered by start time ascending.
func (s *Store) ListEvents(ctx context.Context, find *FindEvent) ([]*Event, error) {
	return s.driver.ListEvents(ctx, find)
}

// GetEvent gets a single event, or nil when no event matches.
func (s *Store) GetEvent(ctx context.Context, find *FindEvent) (*Event, error) {
	if find.UID != nil && find.ID == nil {
		if cached, ok := s.eventCache.Get(*find.UID); ok {
			return cached.(*Event), nil
		}
	}
	list, err := s.driver.ListEvents(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	event := list[0]
	s.eventCache.Set(event.UID, event)
	return event, nil
}

// UpdateEvent updates an event.
func (s *Store) UpdateEvent(ctx context.Context, update *UpdateEvent) error {
	if err := s.driver.UpdateEvent(ctx, update); err != nil {
		return err
	}
	// The cache is keyed by UID and the update carries only the ID, so the
	// whole cache is purged. Single-user scale makes this cheap.
	s.eventCache.Purge()
	return nil
}

// DeleteEvent deletes an event.
func (s *Store) DeleteEvent(ctx context.Context, delete *DeleteEvent) error {
	if err := s.driver.DeleteEvent(ctx, delete); err != nil {
		return err
	}
	s.eventCache.Purge()
	return nil
}

// StartTime returns the event start as time.Time in UTC.
func (e *Event) StartTime() time.Time {
	return time.Unix(e.StartTs, 0).UTC()
}

// EndTime returns the event end as time.Time in UTC.
func (e *Event) EndTime() time.Time {
	return time.Unix(e.EndTs, 0).UTC()
}

// OverlapsRange reports whether the event intersects the half-open range
// [startTs, endTs).
func (e *Event) OverlapsRange(startTs, endTs int64) bool {
	return e.StartTs < endTs && e.EndTs > startTs
}
