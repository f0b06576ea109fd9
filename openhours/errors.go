package openhours

import (
	"errors"

	"github.com/LerianStudio/lib-openhours/openhours/assert"
	"github.com/LerianStudio/lib-openhours/openhours/catalog"
	"github.com/LerianStudio/lib-openhours/openhours/hours"
)

// Error codes returned to API clients.
const (
	CodeInvalidSchedule = "OH-0001"
	CodeMissingInstant  = "OH-0002"
	CodeInvalidInstant  = "OH-0003"
	CodePlaceNotFound   = "OH-0004"
	CodeInvalidCatalog  = "OH-0005"
	CodeInternal        = "OH-0500"
)

// Response represents a business error with code, title, and message.
type Response struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Clause     string `json:"clause,omitempty"`
	Err        error  `json:"-"`
}

func (e Response) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e Response) Unwrap() error {
	return e.Err
}

// ValidateBusinessError maps domain errors onto a Response with a stable code.
// Errors it does not recognise are returned unchanged.
func ValidateBusinessError(err error, entityType string) error {
	if err == nil {
		return nil
	}

	var existing Response
	if errors.As(err, &existing) {
		return existing
	}

	response := Response{EntityType: entityType, Message: err.Error(), Err: err}

	var parseErr *hours.ParseError

	switch {
	case errors.As(err, &parseErr):
		response.Code = CodeInvalidSchedule
		response.Title = "Invalid Opening Hours"
		response.Clause = parseErr.Clause
	case errors.Is(err, hours.ErrInvalidSchedule):
		response.Code = CodeInvalidSchedule
		response.Title = "Invalid Opening Hours"
	case errors.Is(err, hours.ErrMissingInstant):
		response.Code = CodeMissingInstant
		response.Title = "Missing Instant"
	case errors.Is(err, hours.ErrInvalidInstant):
		response.Code = CodeInvalidInstant
		response.Title = "Invalid Instant"
		response.Message = "The 'at' parameter must be an RFC 3339 timestamp, e.g. 2026-01-05T09:00:00Z."
	case errors.Is(err, catalog.ErrPlaceNotFound):
		response.Code = CodePlaceNotFound
		response.Title = "Place Not Found"
	case errors.Is(err, catalog.ErrInvalidCatalog):
		response.Code = CodeInvalidCatalog
		response.Title = "Invalid Catalog"
	case errors.Is(err, assert.ErrAssertionFailed):
		response.Code = CodeInternal
		response.Title = "Internal Error"
		response.Message = "The schedule could not be evaluated."
	default:
		return err
	}

	return response
}
