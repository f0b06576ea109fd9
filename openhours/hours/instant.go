package hours

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInstant is returned when an instant string is not RFC 3339.
var ErrInvalidInstant = errors.New("invalid instant")

// ParseInstant parses an RFC 3339 instant, keeping the offset it carries.
// An empty value yields now.
func ParseInstant(value string, now func() time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now(), nil
	}

	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not RFC 3339", ErrInvalidInstant, value)
	}

	return at, nil
}
