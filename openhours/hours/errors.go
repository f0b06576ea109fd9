package hours

import (
	"errors"
	"fmt"
)

// ErrInvalidSchedule is returned when opening-hours text is malformed: unknown
// weekday names, out-of-range clock values or broken tokens.
var ErrInvalidSchedule = errors.New("invalid opening hours")

// ErrMissingInstant is returned when a query is made without an instant.
// It signals a caller bug and is never wrapped into ErrInvalidSchedule.
var ErrMissingInstant = errors.New("opening hours: instant is required")

// ParseError identifies the clause that could not be parsed.
type ParseError struct {
	Clause string
	Err    error
}

// Error returns the clause together with the underlying reason.
func (e *ParseError) Error() string {
	if e == nil {
		return ErrInvalidSchedule.Error()
	}

	return fmt.Sprintf("clause %q: %v", e.Clause, e.Err)
}

// Unwrap exposes the underlying reason, which always wraps ErrInvalidSchedule.
func (e *ParseError) Unwrap() error {
	if e == nil || e.Err == nil {
		return ErrInvalidSchedule
	}

	return e.Err
}

func newParseError(clause string, format string, args ...any) *ParseError {
	return &ParseError{Clause: clause, Err: wrapInvalid(format, args...)}
}

func wrapInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidSchedule}, args...)...)
}
