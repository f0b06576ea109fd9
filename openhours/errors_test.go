//go:build unit

package openhours

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libAssert "github.com/LerianStudio/lib-openhours/openhours/assert"
	"github.com/LerianStudio/lib-openhours/openhours/catalog"
	"github.com/LerianStudio/lib-openhours/openhours/hours"
)

func TestValidateBusinessError(t *testing.T) {
	t.Parallel()

	_, parseErr := hours.Parse("Mo 08:00-18:00; Xx 09:00-10:00")
	require.Error(t, parseErr)

	_, missingErr := hours.Schedule{}.StatusAt(time.Time{})
	_, instantErr := hours.ParseInstant("yesterday", time.Now)

	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantClause string
	}{
		{name: "parse error", err: parseErr, wantCode: CodeInvalidSchedule, wantClause: "Xx 09:00-10:00"},
		{name: "bare invalid schedule", err: fmt.Errorf("wrapped: %w", hours.ErrInvalidSchedule), wantCode: CodeInvalidSchedule},
		{name: "missing instant", err: missingErr, wantCode: CodeMissingInstant},
		{name: "invalid instant", err: instantErr, wantCode: CodeInvalidInstant},
		{name: "unknown place", err: fmt.Errorf("%w: %q", catalog.ErrPlaceNotFound, "x"), wantCode: CodePlaceNotFound},
		{name: "invalid catalog", err: catalog.ErrInvalidCatalog, wantCode: CodeInvalidCatalog},
		{name: "assertion", err: &libAssert.AssertionError{Message: "no candidate"}, wantCode: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapped := ValidateBusinessError(tt.err, "hours")

			var response Response
			require.True(t, errors.As(mapped, &response))
			assert.Equal(t, tt.wantCode, response.Code)
			assert.Equal(t, tt.wantClause, response.Clause)
			assert.Equal(t, "hours", response.EntityType)
			assert.NotEmpty(t, response.Title)
			assert.ErrorIs(t, mapped, tt.err)
		})
	}
}

func TestValidateBusinessError_Passthrough(t *testing.T) {
	t.Parallel()

	plain := errors.New("disk on fire")

	assert.Nil(t, ValidateBusinessError(nil, "hours"))
	assert.Equal(t, plain, ValidateBusinessError(plain, "hours"))

	already := Response{Code: CodePlaceNotFound, Message: "gone"}
	assert.Equal(t, already, ValidateBusinessError(fmt.Errorf("ctx: %w", already), "places"))
}
