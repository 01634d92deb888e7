package calendar

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Snapshot is a point-in-time JSON export of a calendar range.
type Snapshot struct {
	ExportedAt time.Time        `json:"exported_at"`
	RangeStart time.Time        `json:"range_start"`
	RangeEnd   time.Time        `json:"range_end"`
	Events     []*SnapshotEvent `json:"events"`
}

// SnapshotEvent is the export representation of one event. Instants are
// rendered in the canonical wire form.
type SnapshotEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	AllDay      bool   `json:"all_day,omitempty"`
}

// ExportSnapshot captures the events overlapping [start, end) into a
// Snapshot.
func ExportSnapshot(ctx context.Context, service Service, start, end time.Time) (*Snapshot, error) {
	events, err := service.ListEvents(ctx, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list events for snapshot")
	}

	snapshot := &Snapshot{
		ExportedAt: time.Now().UTC(),
		RangeStart: start.UTC(),
		RangeEnd:   end.UTC(),
		Events:     make([]*SnapshotEvent, 0, len(events)),
	}
	for _, event := range events {
		snapshot.Events = append(snapshot.Events, &SnapshotEvent{
			ID:          event.ID,
			Title:       event.Title,
			Description: event.Description,
			Location:    event.Location,
			Start:       event.Start.UTC().Format(wireInstantLayout),
			End:         event.End.UTC().Format(wireInstantLayout),
			AllDay:      event.AllDay,
		})
	}
	return snapshot, nil
}

// WriteSnapshotFile exports the range and writes it as indented JSON to
// path, creating parent directories as needed.
func WriteSnapshotFile(ctx context.Context, service Service, start, end time.Time, path string) error {
	snapshot, err := ExportSnapshot(ctx, service, start, end)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create snapshot directory %s", dir)
		}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write snapshot file %s", path)
	}
	return nil
}
