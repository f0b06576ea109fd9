package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/LerianStudio/lib-openhours/openhours"
)

const (
	titleInternalError   = "internal_error"
	messageInternalError = "internal server error"
)

// WriteError writes an ErrorResponse whose code is the HTTP status.
func WriteError(c *fiber.Ctx, status int, title, message string) error {
	return JSONResponse(c, status, ErrorResponse{
		Code:    strconv.Itoa(status),
		Title:   title,
		Message: message,
	})
}

// NotFoundError writes a 404 Not Found error response.
func NotFoundError(c *fiber.Ctx, title, message string) error {
	return WriteError(c, fiber.StatusNotFound, title, message)
}

// SimpleInternalServerError writes a 500 response with a generic message.
func SimpleInternalServerError(c *fiber.Ctx) error {
	return WriteError(c, fiber.StatusInternalServerError, titleInternalError, messageInternalError)
}

// StatusFromError returns the HTTP status RenderError uses for err.
func StatusFromError(err error) int {
	if err == nil {
		return fiber.StatusOK
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	var response openhours.Response
	if !errors.As(openhours.ValidateBusinessError(err, ""), &response) {
		return fiber.StatusInternalServerError
	}

	switch response.Code {
	case openhours.CodeInvalidSchedule:
		return fiber.StatusUnprocessableEntity
	case openhours.CodeMissingInstant, openhours.CodeInvalidInstant:
		return fiber.StatusBadRequest
	case openhours.CodePlaceNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// RenderError writes err through the single error contract. Domain errors keep
// their code and message; anything unrecognised becomes a generic 500.
func RenderError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return WriteError(c, fiberErr.Code, "request_failed", fiberErr.Message)
	}

	var response openhours.Response
	if !errors.As(openhours.ValidateBusinessError(err, ""), &response) {
		return SimpleInternalServerError(c)
	}

	status := StatusFromError(err)
	if status >= fiber.StatusInternalServerError {
		return WriteError(c, status, titleInternalError, messageInternalError)
	}

	return JSONResponse(c, status, ErrorResponse{
		Code:    response.Code,
		Title:   response.Title,
		Message: response.Message,
		Clause:  response.Clause,
	})
}
