package calendar

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caltide/caltide/store"
)

// fakeStore implements the Store interface in memory.
type fakeStore struct {
	events []*store.Event
	nextID int32

	createErr error
	listErr   error
}

func (f *fakeStore) CreateEvent(_ context.Context, create *store.Event) (*store.Event, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	create.ID = f.nextID
	create.CreatedTs = time.Now().Unix()
	create.UpdatedTs = create.CreatedTs
	f.events = append(f.events, create)
	return create, nil
}

func (f *fakeStore) ListEvents(_ context.Context, find *store.FindEvent) ([]*store.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	list := make([]*store.Event, 0)
	for _, event := range f.events {
		if find.ID != nil && event.ID != *find.ID {
			continue
		}
		if find.UID != nil && event.UID != *find.UID {
			continue
		}
		if find.RangeStart != nil && find.RangeEnd != nil && !event.OverlapsRange(*find.RangeStart, *find.RangeEnd) {
			continue
		}
		list = append(list, event)
	}
	return list, nil
}

func (f *fakeStore) GetEvent(ctx context.Context, find *store.FindEvent) (*store.Event, error) {
	list, err := f.ListEvents(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (f *fakeStore) UpdateEvent(_ context.Context, update *store.UpdateEvent) error {
	for _, event := range f.events {
		if event.ID != update.ID {
			continue
		}
		if update.Title != nil {
			event.Title = *update.Title
		}
		if update.Description != nil {
			event.Description = *update.Description
		}
		if update.StartTs != nil {
			event.StartTs = *update.StartTs
		}
		if update.EndTs != nil {
			event.EndTs = *update.EndTs
		}
		return nil
	}
	return fmt.Errorf("event not found")
}

func (f *fakeStore) DeleteEvent(_ context.Context, delete *store.DeleteEvent) error {
	for i, event := range f.events {
		if event.ID == delete.ID {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("event not found")
}

func TestLocalServiceCreateEvent(t *testing.T) {
	ctx := context.Background()
	fs := &fakeStore{}
	service := NewLocalService(fs, time.UTC)

	start := time.Date(2024, 1, 16, 19, 0, 0, 0, time.UTC)
	id, err := service.CreateEvent(ctx, &CreateEventRequest{
		Title:           "Team Meeting",
		Start:           start,
		DurationMinutes: 45,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Len(t, fs.events, 1)
	stored := fs.events[0]
	assert.Equal(t, id, stored.UID)
	assert.Equal(t, start.Unix(), stored.StartTs)
	assert.Equal(t, start.Add(45*time.Minute).Unix(), stored.EndTs)
}

func TestLocalServiceCreateEventValidation(t *testing.T) {
	ctx := context.Background()
	service := NewLocalService(&fakeStore{}, time.UTC)
	start := time.Date(2024, 1, 16, 19, 0, 0, 0, time.UTC)

	_, err := service.CreateEvent(ctx, &CreateEventRequest{Start: start, DurationMinutes: 30})
	assert.Error(t, err, "title is required")

	_, err = service.CreateEvent(ctx, &CreateEventRequest{Title: "X", DurationMinutes: 30})
	assert.Error(t, err, "start is required")

	_, err = service.CreateEvent(ctx, &CreateEventRequest{Title: "X", Start: start, DurationMinutes: 0})
	assert.Error(t, err, "duration must be positive")
}

func TestLocalServiceListEvents(t *testing.T) {
	ctx := context.Background()
	fs := &fakeStore{}
	service := NewLocalService(fs, time.UTC)

	base := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	for i, title := range []string{"One", "Two", "Three"} {
		_, err := service.CreateEvent(ctx, &CreateEventRequest{
			Title:           title,
			Start:           base.Add(time.Duration(i*3) * time.Hour),
			DurationMinutes: 60,
		})
		require.NoError(t, err)
	}

	// Window covering the first two events only.
	events, err := service.ListEvents(ctx, base, base.Add(4*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "One", events[0].Title)
	assert.Equal(t, "Two", events[1].Title)
	assert.True(t, events[0].Start.Equal(base))

	// Inverted window yields nothing rather than an error.
	events, err = service.ListEvents(ctx, base.Add(time.Hour), base)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestLocalServiceUpdatePreservesDuration(t *testing.T) {
	ctx := context.Background()
	fs := &fakeStore{}
	service := NewLocalService(fs, time.UTC)

	start := time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)
	id, err := service.CreateEvent(ctx, &CreateEventRequest{
		Title:           "Movable",
		Start:           start,
		DurationMinutes: 90,
	})
	require.NoError(t, err)

	newStart := start.Add(5 * time.Hour)
	err = service.UpdateEvent(ctx, id, &UpdateEventRequest{Start: &newStart})
	require.NoError(t, err)

	stored := fs.events[0]
	assert.Equal(t, newStart.Unix(), stored.StartTs)
	assert.Equal(t, newStart.Add(90*time.Minute).Unix(), stored.EndTs)
}

func TestLocalServiceUpdateDeleteMissing(t *testing.T) {
	ctx := context.Background()
	service := NewLocalService(&fakeStore{}, time.UTC)

	title := "nope"
	err := service.UpdateEvent(ctx, "missing", &UpdateEventRequest{Title: &title})
	assert.Error(t, err)

	err = service.DeleteEvent(ctx, "missing")
	assert.Error(t, err)
}

func TestExportSnapshot(t *testing.T) {
	ctx := context.Background()
	fs := &fakeStore{}
	service := NewLocalService(fs, time.UTC)

	start := time.Date(2024, 1, 16, 19, 0, 0, 0, time.UTC)
	id, err := service.CreateEvent(ctx, &CreateEventRequest{
		Title:           "Exported",
		Start:           start,
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	snapshot, err := ExportSnapshot(ctx, service, start.Add(-time.Hour), start.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, snapshot.Events, 1)
	assert.Equal(t, id, snapshot.Events[0].ID)
	assert.Equal(t, "2024-01-16T19:00:00.000Z", snapshot.Events[0].Start)
	assert.Equal(t, "2024-01-16T20:00:00.000Z", snapshot.Events[0].End)
}
