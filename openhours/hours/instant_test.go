//go:build unit

package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstant(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return fixed }

	at, err := ParseInstant("", now)
	require.NoError(t, err)
	assert.Equal(t, fixed, at)

	at, err = ParseInstant(" 2026-01-03T12:00:00+01:00 ", now)
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, at.Weekday())
	assert.Equal(t, 12, at.Hour())

	_, offset := at.Zone()
	assert.Equal(t, 3600, offset)

	_, err = ParseInstant("2026-01-03 12:00", now)
	require.ErrorIs(t, err, ErrInvalidInstant)
	assert.NotErrorIs(t, err, ErrInvalidSchedule)
}
