package hours

import "time"

// StatusAt reports whether the schedule is open at the given instant. The
// instant is read in its own location; no timezone conversion happens.
//
// An absent schedule is StatusUnknown. A weekday the schedule never mentions
// is StatusClosed. An open-ended interval that has already begun, with no
// closed interval covering the instant, is StatusUnknown. A zero instant
// returns ErrMissingInstant.
func (schedule Schedule) StatusAt(at time.Time) (Status, error) {
	if at.IsZero() {
		return StatusUnknown, ErrMissingInstant
	}

	if schedule.IsAbsent() {
		return StatusUnknown, nil
	}

	intervals := Flatten(schedule.Entries(at.Weekday()))

	return statusAt(intervals, MinutesOfDay(at)), nil
}

func statusAt(intervals []HourInterval, minutes int) Status {
	for _, interval := range intervals {
		if !interval.OpenEnded && interval.covers(minutes) {
			return StatusOpen
		}
	}

	for _, interval := range intervals {
		if interval.OpenEnded && interval.From <= minutes {
			return StatusUnknown
		}
	}

	return StatusClosed
}

// covers reports whether minutes falls in [From, To), or in the same window
// shifted back one day when the interval starts past midnight.
func (interval HourInterval) covers(minutes int) bool {
	if interval.From <= minutes && minutes < interval.To {
		return true
	}

	return interval.From >= minutesPerDay &&
		interval.From-minutesPerDay <= minutes &&
		minutes < interval.To-minutesPerDay
}
