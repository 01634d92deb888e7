package assistant

import (
	"strings"
	"time"
)

// bulkDeletePhrases is the fixed phrase set that triggers the deterministic
// bulk-delete path. Model-based routing of a destructive bulk operation is
// not reliable enough, so these phrasings never reach the classifier.
var bulkDeletePhrases = []string{
	"remove all events",
	"delete all events",
	"clear all events",
	"cancel all events",
}

// InterceptBulkDelete scans raw user text for a mass-deletion phrase bounded
// by a day keyword and, on a match, returns a BulkDeleteEvents intent
// covering the full UTC day of the resolved local calendar date
// (00:00:00Z through 23:59:59Z). It returns nil when the text should
// proceed to classification, including when a bulk phrase appears without a
// recognizable day keyword.
func InterceptBulkDelete(raw string, now time.Time, loc *time.Location) *Intent {
	if loc == nil {
		loc = time.UTC
	}
	lower := strings.ToLower(raw)

	matched := false
	for _, phrase := range bulkDeletePhrases {
		if strings.Contains(lower, phrase) {
			matched = true
			break
		}
	}
	if !matched {
		return nil
	}

	var day time.Time
	switch {
	case strings.Contains(lower, "tomorrow"):
		day = now.In(loc).AddDate(0, 0, 1)
	case strings.Contains(lower, "today"):
		day = now.In(loc)
	default:
		return nil
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)

	return &Intent{
		Kind:       IntentBulkDeleteEvents,
		BulkDelete: &BulkDeleteArgs{Start: start, End: end},
	}
}
