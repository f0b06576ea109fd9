package hours

import "time"

// IsOpenAt parses text and evaluates it at the given instant.
// Absent text yields StatusUnknown; malformed text yields a *ParseError.
func IsOpenAt(text string, at time.Time) (Status, error) {
	schedule, err := Parse(text)
	if err != nil {
		return StatusUnknown, err
	}

	return schedule.StatusAt(at)
}

// NextOpenAt parses text and returns the next opening instant after at.
// The boolean is false when there is nothing to project.
func NextOpenAt(text string, at time.Time) (time.Time, bool, error) {
	opening, err := nextOpening(text, at)
	if err != nil || opening == nil {
		return time.Time{}, false, err
	}

	return opening.At, true, nil
}

// NextOpenLabel is NextOpenAt rendered as "<Weekday> <HH:MM>".
func NextOpenLabel(text string, at time.Time) (string, bool, error) {
	opening, err := nextOpening(text, at)
	if err != nil || opening == nil {
		return "", false, err
	}

	return opening.Label(), true, nil
}

func nextOpening(text string, at time.Time) (*Opening, error) {
	schedule, err := Parse(text)
	if err != nil {
		return nil, err
	}

	return schedule.NextOpenAt(at)
}
