package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// InstantLayout is the canonical form of a resolved instant: UTC,
// millisecond precision, literal "Z" marker. Every time value sent to the
// calendar collaborator's remote wire uses this layout.
const InstantLayout = "2006-01-02T15:04:05.000Z"

// FormatInstant renders t in the canonical UTC instant form.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// ParseInstant parses a canonical or RFC3339 instant string.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &UnparseableTimeError{Expression: s}
	}
	return t.UTC(), nil
}

// clockClauseRe captures the clock-time clause introduced by the token "at",
// e.g. "tomorrow at 2 pm" -> "2 pm".
var clockClauseRe = regexp.MustCompile(`\bat\s+(.+)$`)

// isoLayouts are the zone-less forms accepted for absolute expressions,
// interpreted in the configured local timezone.
var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ResolveTime converts a natural-language date-time expression into an
// absolute UTC instant, evaluated against the reference time now in the
// local timezone loc.
//
// Recognized forms, in priority order:
//  1. "tomorrow"/"today" (case-insensitive substring), optionally followed
//     by a clock clause after the token "at" (12-hour with am/pm, or
//     24-hour hour with optional minutes).
//  2. Keyword with no clock clause borrows the current local hour and
//     minute, preserving "roughly now, that day" semantics.
//  3. ISO-8601-like strings: local time when zone-less, RFC3339 otherwise.
//
// Failures of every branch collapse into a single *UnparseableTimeError
// carrying the original expression.
func ResolveTime(expr string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return time.Time{}, &UnparseableTimeError{Expression: expr}
	}
	nowLocal := now.In(loc)

	var base time.Time
	switch {
	case strings.Contains(s, "tomorrow"):
		base = nowLocal.AddDate(0, 0, 1)
	case strings.Contains(s, "today"):
		base = nowLocal
	default:
		t, err := resolveAbsolute(s, expr, loc)
		if err != nil {
			return time.Time{}, err
		}
		return t.UTC(), nil
	}

	hour, minute := nowLocal.Hour(), nowLocal.Minute()
	if m := clockClauseRe.FindStringSubmatch(s); m != nil {
		h, min, err := parseClock(m[1])
		if err != nil {
			return time.Time{}, &UnparseableTimeError{Expression: expr}
		}
		hour, minute = h, min
	}

	resolved := time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, loc)
	return resolved.UTC(), nil
}

// resolveAbsolute handles ISO-8601-like expressions: zone-less strings are
// local time; strings that fail local parsing are retried as RFC3339, which
// accepts a trailing "Z" or explicit offset.
func resolveAbsolute(s, original string, loc *time.Location) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	// RFC3339 expects upper-case markers; the expression was lower-cased for
	// keyword matching.
	if t, err := time.Parse(time.RFC3339, strings.ToUpper(s)); err == nil {
		return t, nil
	}
	return time.Time{}, &UnparseableTimeError{Expression: original}
}

// parseClock parses a clock clause: "2 pm", "2:30pm", "12 am", "14", "9:15".
// Minutes default to 0 when only an hour is given.
func parseClock(clause string) (int, int, error) {
	clause = strings.TrimSpace(clause)

	meridiem := ""
	for _, suffix := range []string{"pm", "am"} {
		if strings.HasSuffix(clause, suffix) {
			meridiem = suffix
			clause = strings.TrimSpace(strings.TrimSuffix(clause, suffix))
			break
		}
	}

	hourPart, minutePart, hasMinutes := strings.Cut(clause, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return 0, 0, err
	}
	minute := 0
	if hasMinutes {
		minute, err = strconv.Atoi(strings.TrimSpace(minutePart))
		if err != nil {
			return 0, 0, err
		}
	}

	switch meridiem {
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, 0, &UnparseableTimeError{Expression: clause}
		}
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour < 1 || hour > 12 {
			return 0, 0, &UnparseableTimeError{Expression: clause}
		}
		if hour == 12 {
			hour = 0
		}
	default:
		if hour < 0 || hour > 23 {
			return 0, 0, &UnparseableTimeError{Expression: clause}
		}
	}
	if minute < 0 || minute > 59 {
		return 0, 0, &UnparseableTimeError{Expression: clause}
	}
	return hour, minute, nil
}
