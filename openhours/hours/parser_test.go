//go:build unit

package hours

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekdayEntries(intervals []HourInterval, days ...time.Weekday) Schedule {
	schedule := make(Schedule, 0, len(days))
	for _, day := range days {
		schedule = append(schedule, DayEntry{Day: day, Intervals: intervals})
	}

	return schedule
}

func TestParse_Fixtures(t *testing.T) {
	t.Parallel()

	officeHours := []HourInterval{{From: 480, To: 1080}}
	allDay := []HourInterval{{From: 0, To: 1440}}

	tests := []struct {
		text     string
		expected Schedule
	}{
		{openOnWeekdays, weekdayEntries(officeHours, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)},
		{openOnMondaysAndWednesdays, weekdayEntries(officeHours, time.Monday, time.Wednesday)},
		{
			multipleOpeningIntervals,
			weekdayEntries(
				[]HourInterval{{From: 480, To: 750}, {From: 810, To: 1080}},
				time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
			),
		},
		{openOnWeekends, weekdayEntries(officeHours, time.Saturday, time.Sunday)},
		{openFridayToTuesday, weekdayEntries(officeHours, time.Friday, time.Saturday, time.Sunday, time.Monday, time.Tuesday)},
		{openNonStop, weekdayEntries(allDay, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday)},
		{openNonStopOnWeekends, weekdayEntries(allDay, time.Saturday, time.Sunday)},
		{unspecifiedClosingTime, weekdayEntries([]HourInterval{{From: 600, OpenEnded: true}}, time.Saturday)},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			schedule, err := Parse(tt.text)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, schedule)
		})
	}
}

func TestParse_AbsentText(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", " ", "\t\n"} {
		schedule, err := Parse(text)

		require.NoError(t, err)
		assert.Nil(t, schedule)
		assert.True(t, schedule.IsAbsent())
	}
}

func TestParse_IsDeterministic(t *testing.T) {
	t.Parallel()

	first, err := Parse("Fr-Tu 08:00-12:00,13:00-26:00; We 10:00-")
	require.NoError(t, err)

	second, err := Parse("Fr-Tu 08:00-12:00,13:00-26:00; We 10:00-")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_KeepsSourceOrderAndDoesNotMerge(t *testing.T) {
	t.Parallel()

	schedule, err := Parse("We 14:00-18:00; Mo-We 08:00-12:00")
	require.NoError(t, err)

	days := make([]time.Weekday, 0, len(schedule))
	for _, entry := range schedule {
		days = append(days, entry.Day)
	}

	assert.Equal(t, []time.Weekday{time.Wednesday, time.Monday, time.Tuesday, time.Wednesday}, days)
	assert.Len(t, schedule.Entries(time.Wednesday), 2)
}

func TestParse_ExpandedDaysOwnTheirIntervals(t *testing.T) {
	t.Parallel()

	schedule, err := Parse("Mo-We 08:00-12:00")
	require.NoError(t, err)
	require.Len(t, schedule, 3)

	schedule[0].Intervals[0].From = 0

	assert.Equal(t, 480, schedule[1].Intervals[0].From)
	assert.Equal(t, 480, schedule[2].Intervals[0].From)
}

func TestParse_SingleDayRange(t *testing.T) {
	t.Parallel()

	schedule, err := Parse("Th-Th 08:00-12:00")
	require.NoError(t, err)

	assert.Equal(t, weekdayEntries([]HourInterval{{From: 480, To: 720}}, time.Thursday), schedule)
}

func TestParse_MixedListAndRange(t *testing.T) {
	t.Parallel()

	schedule, err := Parse("Sa-Su,We 10:00-11:00")
	require.NoError(t, err)

	assert.Equal(t, weekdayEntries([]HourInterval{{From: 600, To: 660}}, time.Saturday, time.Sunday, time.Wednesday), schedule)
}

func TestParse_ToleratesWhitespace(t *testing.T) {
	t.Parallel()

	spaced, err := Parse("  Mo - Fr 08:00 - 12:30 , 13:30-18:00 ;Sa 10:00- ")
	require.NoError(t, err)

	compact, err := Parse("Mo-Fr 08:00-12:30,13:30-18:00; Sa 10:00-")
	require.NoError(t, err)

	assert.Equal(t, compact, spaced)
}

func TestParse_KeepsOpeningTokenAsWritten(t *testing.T) {
	t.Parallel()

	schedule, err := Parse("Mo 9:00-18:00, 09:30-10:00")
	require.NoError(t, err)
	require.Len(t, schedule, 1)

	intervals := schedule[0].Intervals
	assert.Equal(t, 540, intervals[0].From)
	assert.Equal(t, "9:00", intervals[0].OpeningClock())
	assert.Equal(t, "09:30", intervals[1].OpeningClock())
	assert.Equal(t, "Mo 9:00-18:00,09:30-10:00", schedule.String())
}

func TestParse_OvernightValues(t *testing.T) {
	t.Parallel()

	schedule, err := Parse("Fr 20:00-26:30; Sa 00:00-48:00")
	require.NoError(t, err)

	assert.Equal(t, Schedule{
		{Day: time.Friday, Intervals: []HourInterval{{From: 1200, To: 1590}}},
		{Day: time.Saturday, Intervals: []HourInterval{{From: 0, To: 2880}}},
	}, schedule)
}

func TestParse_StringRoundTrip(t *testing.T) {
	t.Parallel()

	schedule, err := Parse("Fr-Su 9:00-12:00,13:00-26:30; We 10:00-")
	require.NoError(t, err)

	rendered := schedule.String()
	assert.Equal(t, "Fr 9:00-12:00,13:00-26:30; Sa 9:00-12:00,13:00-26:30; Su 9:00-12:00,13:00-26:30; We 10:00-", rendered)

	reparsed, err := Parse(rendered)
	require.NoError(t, err)
	assert.Equal(t, schedule, reparsed)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		clause string
	}{
		{"unknown weekday", "Mo-Fx 08:00-18:00", "Mo-Fx 08:00-18:00"},
		{"lowercase weekday", "mo 08:00-18:00", "mo 08:00-18:00"},
		{"minute out of range", "Mo 08:00-18:61", "Mo 08:00-18:61"},
		{"hour out of range", "Mo 08:00-49:00", "Mo 08:00-49:00"},
		{"past 48:00", "Mo 08:00-48:30", "Mo 08:00-48:30"},
		{"opening at 48:00", "Mo 48:00-", "Mo 48:00-"},
		{"missing intervals", "Mo-Fr", "Mo-Fr"},
		{"missing weekdays", "08:00-18:00", "08:00-18:00"},
		{"no separating space", "Mo08:00-18:00", "Mo08:00-18:00"},
		{"interval without dash", "Mo 08:00", "Mo 08:00"},
		{"empty interval", "Mo 08:00-12:00,", "Mo 08:00-12:00,"},
		{"empty weekday", "Mo,,Tu 08:00-12:00", "Mo,,Tu 08:00-12:00"},
		{"malformed clock", "Mo 8-12", "Mo 8-12"},
		{"one-digit minute", "Mo 08:0-12:00", "Mo 08:0-12:00"},
		{"empty clause", "Mo 08:00-12:00;", ""},
		{"second clause fails", "Mo 08:00-12:00; Tu 25:99-", "Tu 25:99-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			schedule, err := Parse(tt.text)

			require.Error(t, err)
			assert.Nil(t, schedule)
			assert.ErrorIs(t, err, ErrInvalidSchedule)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.clause, parseErr.Clause)
			assert.Contains(t, parseErr.Error(), "clause")
		})
	}
}

func TestParseError_NilReceiver(t *testing.T) {
	t.Parallel()

	var parseErr *ParseError

	assert.Equal(t, ErrInvalidSchedule.Error(), parseErr.Error())
	assert.ErrorIs(t, parseErr.Unwrap(), ErrInvalidSchedule)
}
