package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caltide/caltide/server/timezone"
)

var newYork = timezone.MustParseTimezone("America/New_York")

// referenceNow is 5:00 PM on Jan 15, 2024 in New York (EST, UTC-5).
var referenceNow = time.Date(2024, 1, 15, 17, 0, 0, 0, newYork)

func TestResolveTimeTomorrowWithClock(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want time.Time
	}{
		{
			name: "tomorrow at 2 pm",
			expr: "tomorrow at 2 PM",
			want: time.Date(2024, 1, 16, 14, 0, 0, 0, newYork),
		},
		{
			name: "tomorrow at 2:30 pm",
			expr: "tomorrow at 2:30 pm",
			want: time.Date(2024, 1, 16, 14, 30, 0, 0, newYork),
		},
		{
			name: "tomorrow at 12 pm stays noon",
			expr: "tomorrow at 12 pm",
			want: time.Date(2024, 1, 16, 12, 0, 0, 0, newYork),
		},
		{
			name: "tomorrow at 12 am maps to midnight",
			expr: "tomorrow at 12 am",
			want: time.Date(2024, 1, 16, 0, 0, 0, 0, newYork),
		},
		{
			name: "tomorrow at 9 am",
			expr: "Tomorrow at 9am",
			want: time.Date(2024, 1, 16, 9, 0, 0, 0, newYork),
		},
		{
			name: "bare 24-hour hour",
			expr: "tomorrow at 14",
			want: time.Date(2024, 1, 16, 14, 0, 0, 0, newYork),
		},
		{
			name: "24-hour with minutes",
			expr: "today at 9:15",
			want: time.Date(2024, 1, 15, 9, 15, 0, 0, newYork),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveTime(tc.expr, referenceNow, newYork)
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.want), "got %s, want %s", got, tc.want)
			assert.Equal(t, time.UTC, got.Location(), "resolved instant must be UTC")
		})
	}
}

func TestResolveTimeKeywordBorrowsCurrentClock(t *testing.T) {
	// "today" with no clock clause keeps the reference hour and minute.
	got, err := ResolveTime("today", referenceNow, newYork)
	require.NoError(t, err)

	local := got.In(newYork)
	assert.Equal(t, referenceNow.Hour(), local.Hour())
	assert.Equal(t, referenceNow.Minute(), local.Minute())
	assert.Equal(t, referenceNow.Day(), local.Day())

	// "tomorrow" advances exactly one calendar day.
	got, err = ResolveTime("tomorrow", referenceNow, newYork)
	require.NoError(t, err)
	local = got.In(newYork)
	assert.Equal(t, referenceNow.AddDate(0, 0, 1).Day(), local.Day())
	assert.Equal(t, referenceNow.Hour(), local.Hour())
}

func TestResolveTimeAbsolute(t *testing.T) {
	// Zone-less strings are local time.
	got, err := ResolveTime("2024-01-25 10:00", referenceNow, newYork)
	require.NoError(t, err)
	want := time.Date(2024, 1, 25, 10, 0, 0, 0, newYork)
	assert.True(t, got.Equal(want))

	got, err = ResolveTime("2024-01-25T10:00:00", referenceNow, newYork)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	// Date-only resolves to local midnight.
	got, err = ResolveTime("2024-01-25", referenceNow, newYork)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 25, 0, 0, 0, 0, newYork)))

	// A trailing Z keeps the instant as UTC.
	got, err = ResolveTime("2024-01-25T10:00:00Z", referenceNow, newYork)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 25, 10, 0, 0, 0, time.UTC)))
}

func TestResolveTimeUnparseable(t *testing.T) {
	for _, expr := range []string{"", "next blue moon", "tomorrow at 25", "tomorrow at 13 pm", "soonish"} {
		_, err := ResolveTime(expr, referenceNow, newYork)
		require.Error(t, err, "expression %q", expr)

		var unparseable *UnparseableTimeError
		require.ErrorAs(t, err, &unparseable)
	}
}

func TestFormatInstant(t *testing.T) {
	instant := time.Date(2024, 1, 16, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-16T19:00:00.000Z", FormatInstant(instant))

	// Local inputs are converted, never emitted as local time.
	local := time.Date(2024, 1, 16, 14, 0, 0, 0, newYork)
	assert.Equal(t, "2024-01-16T19:00:00.000Z", FormatInstant(local))
}

func TestParseInstantRoundTrip(t *testing.T) {
	instant := time.Date(2024, 1, 16, 19, 0, 0, 0, time.UTC)
	parsed, err := ParseInstant(FormatInstant(instant))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(instant))

	_, err = ParseInstant("not a time")
	var unparseable *UnparseableTimeError
	require.ErrorAs(t, err, &unparseable)
}
