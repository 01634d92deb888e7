package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var searchDay = time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 20, hour, minute, 0, 0, time.UTC)
}

func TestFindSlotsEmptyCalendar(t *testing.T) {
	slots := FindSlots(searchDay, 60, DefaultWorkingHours, nil)

	// Every 30-minute start from 09:00 through 16:00 inclusive fits a
	// 60-minute slot before the 17:00 boundary.
	require.Len(t, slots, 16)
	assert.True(t, slots[0].Start.Equal(at(9, 0)))
	assert.True(t, slots[0].End.Equal(at(10, 0)))
	assert.True(t, slots[15].Start.Equal(at(16, 0)))
	assert.True(t, slots[15].End.Equal(at(17, 0)))

	// Ascending start order.
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].Start.Before(slots[i].Start))
	}
}

func TestFindSlotsExcludesOverlaps(t *testing.T) {
	busy := []Slot{{Start: at(10, 0), End: at(11, 0)}}
	slots := FindSlots(searchDay, 60, DefaultWorkingHours, busy)

	starts := make(map[time.Time]bool, len(slots))
	for _, slot := range slots {
		starts[slot.Start] = true
	}

	// A candidate starting 09:30 ends 10:30 and strictly overlaps the busy
	// interval; 10:00 and 10:30 likewise.
	assert.False(t, starts[at(9, 30)])
	assert.False(t, starts[at(10, 0)])
	assert.False(t, starts[at(10, 30)])

	// Touching endpoints do not conflict: a slot ending exactly 10:00 and
	// one starting exactly 11:00 are both free.
	assert.True(t, starts[at(9, 0)])
	assert.True(t, starts[at(11, 0)])

	require.Len(t, slots, 13)
}

func TestFindSlotsIgnoresAllDayEvents(t *testing.T) {
	busy := []Slot{{Start: searchDay, End: searchDay.Add(24 * time.Hour), AllDay: true}}
	slots := FindSlots(searchDay, 60, DefaultWorkingHours, busy)
	assert.Len(t, slots, 16, "all-day intervals must not block timed slots")
}

func TestFindSlotsNoRoom(t *testing.T) {
	// A duration longer than the working window yields an empty, valid result.
	slots := FindSlots(searchDay, 9*60, DefaultWorkingHours, nil)
	assert.Empty(t, slots)

	// A fully booked day likewise.
	busy := []Slot{{Start: at(8, 0), End: at(18, 0)}}
	slots = FindSlots(searchDay, 30, DefaultWorkingHours, busy)
	assert.Empty(t, slots)
}

func TestFindSlotsDurationFillsWindow(t *testing.T) {
	// An 8-hour slot fits exactly once: 09:00-17:00.
	slots := FindSlots(searchDay, 8*60, DefaultWorkingHours, nil)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].Start.Equal(at(9, 0)))
	assert.True(t, slots[0].End.Equal(at(17, 0)))
}

func TestFindSlotsCustomWorkingHours(t *testing.T) {
	slots := FindSlots(searchDay, 60, WorkingHours{Start: 8, End: 22}, nil)
	require.NotEmpty(t, slots)
	assert.True(t, slots[0].Start.Equal(at(8, 0)))
	assert.True(t, slots[len(slots)-1].End.Equal(at(22, 0)))
}
