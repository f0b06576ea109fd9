package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LerianStudio/lib-openhours/openhours/log"
	"github.com/LerianStudio/lib-openhours/openhours/opentelemetry"
)

// RouterConfig wires the HTTP application.
type RouterConfig struct {
	// AppName is reported in the Server header.
	AppName string
	// Logger receives access logs and handler errors. Defaults to a GoLogger.
	Logger log.Logger
	// Telemetry provides the tracer for server spans. Nil uses the global provider.
	Telemetry *opentelemetry.Telemetry
	// Handler serves the hours and places routes.
	Handler *HoursHandler
}

// NewRouter builds the Fiber application: health and version probes plus the
// hours API behind the logging, tracing, recovery and CORS middlewares.
func NewRouter(cfg RouterConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          FiberErrorHandler,
	})

	app.Use(WithHTTPLogging(WithCustomLogger(cfg.Logger)))
	app.Use(NewTelemetryMiddleware(cfg.Telemetry).WithTelemetry("/health", "/version"))
	app.Use(WithRecover())
	app.Use(WithCORS())

	app.Get("/health", Ping)
	app.Get("/version", Version)

	if cfg.Handler != nil {
		cfg.Handler.Register(app)
	}

	return app
}
