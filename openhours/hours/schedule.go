package hours

import (
	"strings"
	"time"
)

// HourInterval is a single open period within a day, in minutes since midnight.
// From and To may exceed 1440 when the period spills into the next calendar day.
// OpenEnded marks an interval whose closing time was not given; To is zero then.
type HourInterval struct {
	From      int  `json:"from"`
	To        int  `json:"to,omitempty"`
	OpenEnded bool `json:"openEnded,omitempty"`

	// fromText holds the opening token as written when it is not canonical HH:MM.
	fromText string
}

// OpeningClock returns the opening time as written in the source text, e.g. "9:00".
func (interval HourInterval) OpeningClock() string {
	if interval.fromText != "" {
		return interval.fromText
	}

	return FormatClock(interval.From)
}

// String renders the interval in schedule-language notation.
func (interval HourInterval) String() string {
	if interval.OpenEnded {
		return interval.OpeningClock() + "-"
	}

	return interval.OpeningClock() + "-" + FormatClock(interval.To)
}

// DayEntry holds the intervals one clause assigned to one weekday.
type DayEntry struct {
	Day       time.Weekday   `json:"day"`
	Intervals []HourInterval `json:"intervals"`
}

// Schedule is a parsed opening-hours description. Entries keep the order in
// which the source produced them; several entries may share a weekday.
// A nil or empty Schedule stands for an absent description.
type Schedule []DayEntry

// IsAbsent reports whether the schedule carries no information at all.
func (schedule Schedule) IsAbsent() bool {
	return len(schedule) == 0
}

// Entries returns the entries for day in source order.
func (schedule Schedule) Entries(day time.Weekday) []DayEntry {
	var entries []DayEntry

	for _, entry := range schedule {
		if entry.Day == day {
			entries = append(entries, entry)
		}
	}

	return entries
}

// String renders the schedule back into the schedule language, one clause per entry.
// Parsing the result yields an equal Schedule.
func (schedule Schedule) String() string {
	clauses := make([]string, 0, len(schedule))

	for _, entry := range schedule {
		intervals := make([]string, 0, len(entry.Intervals))
		for _, interval := range entry.Intervals {
			intervals = append(intervals, interval.String())
		}

		clauses = append(clauses, WeekdayName(entry.Day)+" "+strings.Join(intervals, ","))
	}

	return strings.Join(clauses, "; ")
}

// Status is the three-valued answer to "is it open now?".
type Status int

const (
	// StatusClosed means no interval covers the instant.
	StatusClosed Status = iota
	// StatusOpen means a closed interval covers the instant.
	StatusOpen
	// StatusUnknown means nothing proves the place open or closed: either the
	// schedule is absent or an open-ended interval has already begun.
	StatusUnknown
)

// String returns the lowercase status name.
func (status Status) String() string {
	switch status {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Bool maps the status onto an optional boolean; nil means unknown.
func (status Status) Bool() *bool {
	switch status {
	case StatusOpen:
		open := true
		return &open
	case StatusClosed:
		open := false
		return &open
	default:
		return nil
	}
}

// MarshalJSON encodes the status as true, false or null.
func (status Status) MarshalJSON() ([]byte, error) {
	switch status {
	case StatusOpen:
		return []byte("true"), nil
	case StatusClosed:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}
