package hours

import (
	"slices"
	"strings"
	"time"
	"unicode"
)

// Grammar separators.
const (
	clauseSeparator   = ";"
	listSeparator     = ","
	rangeSeparator    = "-"
	splitParts        = 2
	openEndedInterval = ""
)

// Parse turns opening-hours text such as "Mo-Fr 09:00-12:00,13:00-18:00; Sa 10:00-"
// into a Schedule.
//
// Empty or whitespace-only text yields a nil Schedule and no error: the
// description is absent, not malformed. Malformed text yields a *ParseError
// naming the offending clause; errors.Is(err, ErrInvalidSchedule) holds for it.
func Parse(text string) (Schedule, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var schedule Schedule

	for _, clause := range strings.Split(text, clauseSeparator) {
		entries, err := parseClause(strings.TrimSpace(clause))
		if err != nil {
			return nil, err
		}

		schedule = append(schedule, entries...)
	}

	return schedule, nil
}

// parseClause parses "<day-spec> <interval>(,<interval>)*" into one entry per covered day.
func parseClause(clause string) ([]DayEntry, error) {
	if clause == "" {
		return nil, newParseError(clause, "empty clause")
	}

	split := strings.IndexFunc(clause, unicode.IsDigit)
	if split < 0 {
		return nil, newParseError(clause, "missing opening intervals")
	}

	if split == 0 || !unicode.IsSpace(rune(clause[split-1])) {
		return nil, newParseError(clause, "weekdays and intervals must be separated by a space")
	}

	days, err := parseDaySpec(stripSpaces(clause[:split]))
	if err != nil {
		return nil, &ParseError{Clause: clause, Err: err}
	}

	intervals, err := parseIntervals(stripSpaces(clause[split:]))
	if err != nil {
		return nil, &ParseError{Clause: clause, Err: err}
	}

	entries := make([]DayEntry, 0, len(days))
	for _, day := range days {
		entries = append(entries, DayEntry{Day: day, Intervals: slices.Clone(intervals)})
	}

	return entries, nil
}

// parseDaySpec expands a name, a comma list or a circular range into weekdays.
func parseDaySpec(spec string) ([]time.Weekday, error) {
	if spec == "" {
		return nil, wrapInvalid("missing weekdays")
	}

	var days []time.Weekday

	for _, part := range strings.Split(spec, listSeparator) {
		expanded, err := parseDayPart(part)
		if err != nil {
			return nil, err
		}

		days = append(days, expanded...)
	}

	return days, nil
}

func parseDayPart(part string) ([]time.Weekday, error) {
	if part == "" {
		return nil, wrapInvalid("empty weekday in list")
	}

	bounds := strings.SplitN(part, rangeSeparator, splitParts)
	if len(bounds) == 1 {
		day, ok := ParseWeekday(part)
		if !ok {
			return nil, wrapInvalid("unknown weekday %q", part)
		}

		return []time.Weekday{day}, nil
	}

	from, ok := ParseWeekday(bounds[0])
	if !ok {
		return nil, wrapInvalid("unknown weekday %q", bounds[0])
	}

	to, ok := ParseWeekday(bounds[1])
	if !ok {
		return nil, wrapInvalid("unknown weekday %q", bounds[1])
	}

	return expandDayRange(from, to), nil
}

// expandDayRange walks forward from from to to, wrapping past Saturday.
func expandDayRange(from, to time.Weekday) []time.Weekday {
	days := make([]time.Weekday, 0, DayDistance(from, to)+1)

	for day := from; ; day = (day + 1) % daysPerWeek {
		days = append(days, day)

		if day == to {
			return days
		}
	}
}

func parseIntervals(spec string) ([]HourInterval, error) {
	tokens := strings.Split(spec, listSeparator)
	intervals := make([]HourInterval, 0, len(tokens))

	for _, token := range tokens {
		interval, err := parseInterval(token)
		if err != nil {
			return nil, err
		}

		intervals = append(intervals, interval)
	}

	return intervals, nil
}

// parseInterval parses "HH:MM-HH:MM" or the open-ended "HH:MM-".
func parseInterval(token string) (HourInterval, error) {
	if token == "" {
		return HourInterval{}, wrapInvalid("empty interval")
	}

	fromPart, toPart, found := strings.Cut(token, rangeSeparator)
	if !found {
		return HourInterval{}, wrapInvalid("interval %q has no '-'", token)
	}

	from, err := ParseClock(fromPart)
	if err != nil {
		return HourInterval{}, err
	}

	if from >= maxMinuteValue {
		return HourInterval{}, wrapInvalid("interval %q cannot open at 48:00", token)
	}

	interval := HourInterval{From: from}
	if fromPart != FormatClock(from) {
		interval.fromText = fromPart
	}

	if toPart == openEndedInterval {
		interval.OpenEnded = true

		return interval, nil
	}

	interval.To, err = ParseClock(toPart)
	if err != nil {
		return HourInterval{}, err
	}

	return interval, nil
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)
}
