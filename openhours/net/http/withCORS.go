package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/LerianStudio/lib-openhours/openhours"
)

const (
	defaultAccessControlAllowOrigin  = "*"
	defaultAccessControlAllowMethods = "GET, OPTIONS"
	defaultAccessControlAllowHeaders = "Accept, Content-Type, X-Request-Id, Traceparent"
)

// WithCORS enables CORS for the read-only API. Origins, methods and headers
// come from the ACCESS_CONTROL_ALLOW_* environment variables.
func WithCORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  openhours.GetenvOrDefault("ACCESS_CONTROL_ALLOW_ORIGIN", defaultAccessControlAllowOrigin),
		AllowMethods:  openhours.GetenvOrDefault("ACCESS_CONTROL_ALLOW_METHODS", defaultAccessControlAllowMethods),
		AllowHeaders:  openhours.GetenvOrDefault("ACCESS_CONTROL_ALLOW_HEADERS", defaultAccessControlAllowHeaders),
		ExposeHeaders: openhours.GetenvOrDefault("ACCESS_CONTROL_EXPOSE_HEADERS", "X-Request-Id"),
	})
}
