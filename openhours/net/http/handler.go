package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/LerianStudio/lib-openhours/openhours"
	libLog "github.com/LerianStudio/lib-openhours/openhours/log"
	"github.com/LerianStudio/lib-openhours/openhours/runtime"
)

// Ping returns HTTP Status 200 with response "pong".
func Ping(c *fiber.Ctx) error {
	return c.SendString("pong")
}

// Version returns HTTP Status 200 with the VERSION environment variable.
func Version(c *fiber.Ctx) error {
	return OK(c, fiber.Map{
		"version":     openhours.GetenvOrDefault("VERSION", "0.0.0"),
		"requestDate": time.Now().UTC(),
	})
}

// FiberErrorHandler is the application-wide Fiber error handler. It logs with
// the request-scoped logger and renders err through RenderError.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := openhours.NewLoggerFromContext(ctx)
	fields := []libLog.Field{
		libLog.String("method", c.Method()),
		libLog.String("path", c.Path()),
	}

	if StatusFromError(err) >= fiber.StatusInternalServerError {
		libLog.SafeError(ctx, logger, "handler error", err, runtime.IsProductionMode(), fields...)
	} else {
		logger.Log(ctx, libLog.LevelWarn, "handler error", append(fields, libLog.Err(err))...)
	}

	return RenderError(c, err)
}
