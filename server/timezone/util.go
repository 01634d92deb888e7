// Package timezone provides timezone utilities for caltide.
//
// The assistant resolves every user expression against one configured local
// timezone; this package centralizes parsing, day boundaries, and display
// formatting so time handling stays consistent across the application.
package timezone

import (
	"fmt"
	"time"
)

// DisplayLayout is the human-facing time format used in assistant responses.
const DisplayLayout = "January 2, 2006 at 3:04 PM"

// ParseTimezone parses an IANA timezone identifier (e.g., "Asia/Shanghai").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// MustParseTimezone parses a timezone or panics if invalid.
// Use this for constants that are known to be valid at compile time.
func MustParseTimezone(tz string) *time.Location {
	loc, err := ParseTimezone(tz)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	if tz == "" || tz == "UTC" {
		return true
	}

	_, err := time.LoadLocation(tz)
	return err == nil
}

// FormatDisplayTime renders an instant for user-facing messages in the given
// timezone, e.g. "January 21, 2026 at 2:00 PM".
func FormatDisplayTime(t time.Time, tz *time.Location) string {
	if tz == nil {
		tz = time.UTC
	}
	return t.In(tz).Format(DisplayLayout)
}

// FormatEventLine formats one event for a listing response.
// Shape: "- Title at January 21, 2026 at 2:00 PM (Room A)".
func FormatEventLine(start time.Time, title, location string, tz *time.Location) string {
	line := fmt.Sprintf("- %s at %s", title, FormatDisplayTime(start, tz))
	if location != "" {
		line += fmt.Sprintf(" (%s)", location)
	}
	return line
}

// StartOfDay returns the start of the day (00:00:00) in the given timezone.
func StartOfDay(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = time.UTC
	}
	local := t.In(tz)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in the given timezone.
func EndOfDay(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = time.UTC
	}
	local := t.In(tz)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, tz)
}

// NowInTimezone returns the current time in the given timezone.
func NowInTimezone(tz *time.Location) time.Time {
	if tz == nil {
		tz = time.UTC
	}
	return time.Now().In(tz)
}
