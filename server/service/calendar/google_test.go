package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcalendar "google.golang.org/api/calendar/v3"
)

func TestFromGoogleEventTimed(t *testing.T) {
	event, err := fromGoogleEvent(&gcalendar.Event{
		Id:          "abc",
		Summary:     "Design Review",
		Description: "weekly",
		Location:    "Room 4",
		Start:       &gcalendar.EventDateTime{DateTime: "2024-01-16T14:00:00-05:00"},
		End:         &gcalendar.EventDateTime{DateTime: "2024-01-16T15:00:00-05:00"},
	})
	require.NoError(t, err)

	assert.Equal(t, "abc", event.ID)
	assert.Equal(t, "Design Review", event.Title)
	assert.False(t, event.AllDay)
	// Offsets normalize to UTC.
	assert.Equal(t, time.Date(2024, 1, 16, 19, 0, 0, 0, time.UTC), event.Start)
	assert.Equal(t, time.Date(2024, 1, 16, 20, 0, 0, 0, time.UTC), event.End)
}

func TestFromGoogleEventAllDay(t *testing.T) {
	event, err := fromGoogleEvent(&gcalendar.Event{
		Id:    "holiday",
		Start: &gcalendar.EventDateTime{Date: "2024-01-16"},
		End:   &gcalendar.EventDateTime{Date: "2024-01-17"},
	})
	require.NoError(t, err)

	assert.True(t, event.AllDay)
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), event.Start)
	assert.Equal(t, time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC), event.End)
}

func TestFromGoogleEventMissingBounds(t *testing.T) {
	_, err := fromGoogleEvent(&gcalendar.Event{Id: "broken"})
	assert.Error(t, err)
}

func TestWireInstantLayout(t *testing.T) {
	instant := time.Date(2024, 1, 16, 19, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-16T19:30:00.000Z", instant.Format(wireInstantLayout))
}
