package assistant

import "time"

// slotGranularity is the candidate start-time step. Thirty minutes matches
// common scheduling convention and bounds the scan to a small constant
// number of candidates per day.
const slotGranularity = 30 * time.Minute

// WorkingHours is the daily window searched for free slots.
type WorkingHours struct {
	Start int // first candidate hour, inclusive
	End   int // no slot may end after this hour
}

// DefaultWorkingHours is the 9:00-17:00 window.
var DefaultWorkingHours = WorkingHours{Start: 9, End: 17}

// Slot is a half-open time interval [Start, End). It represents either a
// busy interval derived from an existing event or a candidate free interval.
type Slot struct {
	Start time.Time
	End   time.Time
	// AllDay marks busy intervals backed by all-day events; such intervals
	// do not block timed slots.
	AllDay bool
}

// Overlaps reports whether two half-open intervals strictly overlap.
// Touching endpoints do not conflict.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start.Before(other.End) && s.End.After(other.Start)
}

// FindSlots computes the conflict-free candidate slots of the given duration
// within working hours on the day that contains dayStart (expected at
// midnight of the target date). Candidates are generated at 30-minute
// granularity from hours.Start:00 through the last start for which
// start+duration <= hours.End:00, so the result preserves ascending start
// order. An empty result is a valid outcome, not an error.
func FindSlots(dayStart time.Time, durationMinutes int, hours WorkingHours, busy []Slot) []Slot {
	if durationMinutes < 1 {
		return nil
	}
	duration := time.Duration(durationMinutes) * time.Minute

	windowStart := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), hours.Start, 0, 0, 0, dayStart.Location())
	windowEnd := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), hours.End, 0, 0, 0, dayStart.Location())

	// All-day events do not participate in conflict checks.
	timed := make([]Slot, 0, len(busy))
	for _, b := range busy {
		if !b.AllDay {
			timed = append(timed, b)
		}
	}

	var free []Slot
	for start := windowStart; !start.Add(duration).After(windowEnd); start = start.Add(slotGranularity) {
		candidate := Slot{Start: start, End: start.Add(duration)}
		available := true
		for _, b := range timed {
			if b.Overlaps(candidate) {
				available = false
				break
			}
		}
		if available {
			free = append(free, candidate)
		}
	}
	return free
}
