package calendar

import (
	"context"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/caltide/caltide/store"
)

// Store is the interface for store operations needed by the calendar service.
type Store interface {
	CreateEvent(ctx context.Context, create *store.Event) (*store.Event, error)
	ListEvents(ctx context.Context, find *store.FindEvent) ([]*store.Event, error)
	GetEvent(ctx context.Context, find *store.FindEvent) (*store.Event, error)
	UpdateEvent(ctx context.Context, update *store.UpdateEvent) error
	DeleteEvent(ctx context.Context, delete *store.DeleteEvent) error
}

// LocalService persists events in the local database. It is the default
// backend.
type LocalService struct {
	store    Store
	timezone *time.Location
}

// NewLocalService creates a calendar service over the local store.
func NewLocalService(store Store, timezone *time.Location) *LocalService {
	if timezone == nil {
		timezone = time.UTC
	}
	return &LocalService{store: store, timezone: timezone}
}

// ListEvents returns events overlapping the half-open range [start, end),
// ordered by start time.
func (s *LocalService) ListEvents(ctx context.Context, start, end time.Time) ([]*Event, error) {
	if !end.After(start) {
		return []*Event{}, nil
	}

	startTs := start.Unix()
	endTs := end.Unix()
	list, err := s.store.ListEvents(ctx, &store.FindEvent{
		RangeStart: &startTs,
		RangeEnd:   &endTs,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list events")
	}

	events := make([]*Event, 0, len(list))
	for _, raw := range list {
		events = append(events, fromStoreEvent(raw))
	}
	return events, nil
}

// CreateEvent validates and persists a new event, returning its ID.
func (s *LocalService) CreateEvent(ctx context.Context, create *CreateEventRequest) (string, error) {
	if create.Title == "" {
		return "", errors.New("event title is required")
	}
	if create.Start.IsZero() {
		return "", errors.New("event start time is required")
	}
	duration := create.DurationMinutes
	if duration < 1 {
		return "", errors.Errorf("invalid duration: %d minutes", create.DurationMinutes)
	}

	start := create.Start.UTC()
	end := start.Add(time.Duration(duration) * time.Minute)

	event, err := s.store.CreateEvent(ctx, &store.Event{
		UID:         shortuuid.New(),
		Title:       create.Title,
		Description: create.Description,
		Location:    create.Location,
		StartTs:     start.Unix(),
		EndTs:       end.Unix(),
		Timezone:    s.timezone.String(),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to create event")
	}

	slog.Debug("event created", "uid", event.UID, "start_ts", event.StartTs)
	return event.UID, nil
}

// UpdateEvent applies the non-nil fields of update to the event named by id.
func (s *LocalService) UpdateEvent(ctx context.Context, id string, update *UpdateEventRequest) error {
	event, err := s.store.GetEvent(ctx, &store.FindEvent{UID: &id})
	if err != nil {
		return errors.Wrap(err, "failed to find event")
	}
	if event == nil {
		return errors.Errorf("event %s not found", id)
	}

	storeUpdate := &store.UpdateEvent{ID: event.ID}
	if update.Title != nil {
		storeUpdate.Title = update.Title
	}
	if update.Description != nil {
		storeUpdate.Description = update.Description
	}
	if update.Location != nil {
		storeUpdate.Location = update.Location
	}
	if update.Start != nil {
		// Moving the start preserves the original duration.
		duration := event.EndTs - event.StartTs
		startTs := update.Start.UTC().Unix()
		endTs := startTs + duration
		storeUpdate.StartTs = &startTs
		storeUpdate.EndTs = &endTs
	}

	if err := s.store.UpdateEvent(ctx, storeUpdate); err != nil {
		return errors.Wrapf(err, "failed to update event %s", id)
	}
	return nil
}

// DeleteEvent removes the event named by id.
func (s *LocalService) DeleteEvent(ctx context.Context, id string) error {
	event, err := s.store.GetEvent(ctx, &store.FindEvent{UID: &id})
	if err != nil {
		return errors.Wrap(err, "failed to find event")
	}
	if event == nil {
		return errors.Errorf("event %s not found", id)
	}
	if err := s.store.DeleteEvent(ctx, &store.DeleteEvent{ID: event.ID}); err != nil {
		return errors.Wrapf(err, "failed to delete event %s", id)
	}
	return nil
}

func fromStoreEvent(raw *store.Event) *Event {
	return &Event{
		ID:          raw.UID,
		Title:       raw.Title,
		Description: raw.Description,
		Location:    raw.Location,
		Start:       raw.StartTime(),
		End:         raw.EndTime(),
		AllDay:      raw.AllDay,
	}
}
