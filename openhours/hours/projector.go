package hours

import (
	"context"
	"time"

	"github.com/LerianStudio/lib-openhours/openhours/assert"
)

// Opening is the next moment a schedule opens.
type Opening struct {
	// At is the opening instant, in the location of the queried instant.
	At time.Time
	// Day is the weekday of the entry the opening came from.
	Day time.Weekday
	// From is the opening clock time of that entry, in minutes since midnight.
	From int

	fromText string
}

// Label renders the opening as "<Weekday> <clock>" with the clock as written
// in the schedule, e.g. "Mo 09:00" or "Mo 9:00".
func (opening Opening) Label() string {
	clock := opening.fromText
	if clock == "" {
		clock = FormatClock(opening.From)
	}

	return WeekdayName(opening.Day) + " " + clock
}

// NextOpenAt returns the next opening strictly after at.
//
// It returns nil when nothing needs projecting: the schedule is already open
// at that instant, its state is unknown, or the schedule is absent. Today's
// later intervals win, then the nearest following weekday, and as a last
// resort today's earliest interval one week ahead.
func (schedule Schedule) NextOpenAt(at time.Time) (*Opening, error) {
	status, err := schedule.StatusAt(at)
	if err != nil {
		return nil, err
	}

	if status != StatusClosed {
		return nil, nil
	}

	buckets := bucketByDistance(schedule, at.Weekday())
	minutes := MinutesOfDay(at)

	if interval, ok := earliestUpcoming(Flatten(buckets[0]), minutes); ok {
		return newOpening(at, 0, interval), nil
	}

	for distance := 1; distance < daysPerWeek; distance++ {
		if interval, ok := earliestStart(Flatten(buckets[distance])); ok {
			return newOpening(at, distance, interval), nil
		}
	}

	if interval, ok := earliestStart(Flatten(buckets[0])); ok {
		return newOpening(at, daysPerWeek, interval), nil
	}

	ctx := context.Background()
	asserter := assert.New(ctx, nil, "hours", "NextOpenAt")

	return nil, asserter.Never(ctx, "closed schedule has no opening candidate",
		"schedule", schedule.String(),
		"at", at.Format(time.RFC3339),
	)
}

// bucketByDistance groups entries by how many days ahead of today they fall.
func bucketByDistance(schedule Schedule, today time.Weekday) [daysPerWeek][]DayEntry {
	var buckets [daysPerWeek][]DayEntry

	for _, entry := range schedule {
		distance := DayDistance(today, entry.Day)
		buckets[distance] = append(buckets[distance], entry)
	}

	return buckets
}

// earliestUpcoming picks the interval opening soonest after minutes; intervals
// that already started are skipped.
func earliestUpcoming(intervals []HourInterval, minutes int) (HourInterval, bool) {
	var (
		best  HourInterval
		found bool
	)

	for _, interval := range intervals {
		if interval.From-minutes <= 0 {
			continue
		}

		if !found || interval.From < best.From {
			best, found = interval, true
		}
	}

	return best, found
}

func earliestStart(intervals []HourInterval) (HourInterval, bool) {
	var (
		best  HourInterval
		found bool
	)

	for _, interval := range intervals {
		if !found || interval.From < best.From {
			best, found = interval, true
		}
	}

	return best, found
}

// newOpening advances the calendar date first and then sets the clock, so the
// result stays on the wall-clock time across month ends and DST changes.
func newOpening(at time.Time, days int, interval HourInterval) *Opening {
	date := at.AddDate(0, 0, days)

	return &Opening{
		At:       time.Date(date.Year(), date.Month(), date.Day(), 0, interval.From, 0, 0, at.Location()),
		Day:      time.Weekday((int(at.Weekday()) + days) % daysPerWeek),
		From:     interval.From,
		fromText: interval.fromText,
	}
}
