package hours

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock boundary constants.
const (
	daysPerWeek    = 7
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
	maxClockHour   = 48 // overnight notation reaches into the following day
	maxClockMinute = 59
	maxMinuteValue = maxClockHour * minutesPerHour
)

var weekdayNames = [daysPerWeek]string{
	time.Sunday:    "Su",
	time.Monday:    "Mo",
	time.Tuesday:   "Tu",
	time.Wednesday: "We",
	time.Thursday:  "Th",
	time.Friday:    "Fr",
	time.Saturday:  "Sa",
}

var weekdaysByName = func() map[string]time.Weekday {
	byName := make(map[string]time.Weekday, daysPerWeek)
	for day, name := range weekdayNames {
		byName[name] = time.Weekday(day)
	}

	return byName
}()

// WeekdayName returns the two-letter name used by the schedule language.
// Out-of-range weekdays yield an empty string.
func WeekdayName(day time.Weekday) string {
	if day < time.Sunday || day > time.Saturday {
		return ""
	}

	return weekdayNames[day]
}

// ParseWeekday resolves a two-letter weekday name. The match is exact and case-sensitive.
func ParseWeekday(name string) (time.Weekday, bool) {
	day, ok := weekdaysByName[name]

	return day, ok
}

// DayDistance returns how many days forward from reaches to, in [0, 6].
func DayDistance(from, to time.Weekday) int {
	return (daysPerWeek + (int(to) - int(from))) % daysPerWeek
}

// MinutesOfDay returns the minutes elapsed since midnight for t, in [0, 1440).
func MinutesOfDay(t time.Time) int {
	return t.Hour()*minutesPerHour + t.Minute()
}

// ParseClock converts an "HH:MM" token into minutes since midnight.
// Hours up to 48 are accepted to express intervals running past midnight.
func ParseClock(clock string) (int, error) {
	hourPart, minutePart, found := strings.Cut(clock, ":")
	if !found {
		return 0, fmt.Errorf("%w: clock %q is not HH:MM", ErrInvalidSchedule, clock)
	}

	if !isDigits(hourPart) || len(hourPart) > 2 || !isDigits(minutePart) || len(minutePart) != 2 {
		return 0, fmt.Errorf("%w: clock %q is not HH:MM", ErrInvalidSchedule, clock)
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid hour %q", ErrInvalidSchedule, hourPart)
	}

	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid minute %q", ErrInvalidSchedule, minutePart)
	}

	if hour > maxClockHour {
		return 0, fmt.Errorf("%w: hour %d out of bounds [0, %d]", ErrInvalidSchedule, hour, maxClockHour)
	}

	if minute > maxClockMinute {
		return 0, fmt.Errorf("%w: minute %d out of bounds [0, %d]", ErrInvalidSchedule, minute, maxClockMinute)
	}

	total := hour*minutesPerHour + minute
	if total > maxMinuteValue {
		return 0, fmt.Errorf("%w: clock %q is past 48:00", ErrInvalidSchedule, clock)
	}

	return total, nil
}

// FormatClock renders minutes since midnight as "HH:MM", keeping overnight hours (e.g. "26:30").
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/minutesPerHour, minutes%minutesPerHour)
}

// Flatten concatenates the intervals of entries in order.
func Flatten(entries []DayEntry) []HourInterval {
	var total int
	for _, entry := range entries {
		total += len(entry.Intervals)
	}

	intervals := make([]HourInterval, 0, total)
	for _, entry := range entries {
		intervals = append(intervals, entry.Intervals...)
	}

	return intervals
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
