package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/LerianStudio/lib-openhours/openhours"
	cn "github.com/LerianStudio/lib-openhours/openhours/constants"
	"github.com/LerianStudio/lib-openhours/openhours/opentelemetry"
)

// TelemetryMiddleware starts a server span per request.
type TelemetryMiddleware struct {
	Telemetry *opentelemetry.Telemetry
}

// NewTelemetryMiddleware creates a new instance of TelemetryMiddleware.
func NewTelemetryMiddleware(tl *opentelemetry.Telemetry) *TelemetryMiddleware {
	return &TelemetryMiddleware{Telemetry: tl}
}

func (tm *TelemetryMiddleware) tracer() trace.Tracer {
	if tm == nil || tm.Telemetry == nil {
		return otel.Tracer(cn.TelemetrySDKName)
	}

	tracer, err := tm.Telemetry.Tracer(tm.Telemetry.LibraryName)
	if err != nil {
		return otel.Tracer(cn.TelemetrySDKName)
	}

	return tracer
}

// WithTelemetry continues the caller's W3C trace, starts a server span named
// after the method and path and stores the tracer in the user context.
// Paths starting with an excluded route are not traced.
func (tm *TelemetryMiddleware) WithTelemetry(excludedRoutes ...string) fiber.Handler {
	tracer := tm.tracer()

	return func(c *fiber.Ctx) error {
		if isRouteExcluded(c, excludedRoutes) {
			return c.Next()
		}

		_, _, requestID := openhours.NewTrackingFromContext(c.UserContext())
		c.SetUserContext(openhours.ContextWithSpanAttributes(c.UserContext(),
			attribute.String(cn.AttrPrefixAppRequest+"request_id", requestID),
		))

		ctx, span := tracer.Start(opentelemetry.ExtractHTTPContext(c), c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", c.Method()),
			attribute.String("http.url", c.OriginalURL()),
			attribute.String("http.scheme", c.Protocol()),
			attribute.String("http.user_agent", c.Get(cn.HeaderUserAgent)),
		)

		c.SetUserContext(openhours.ContextWithTracer(ctx, tracer))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = StatusFromError(err)
		}

		span.SetAttributes(
			attribute.String("http.route", c.Route().Path),
			attribute.Int("http.status_code", status),
		)

		if status >= fiber.StatusInternalServerError {
			opentelemetry.HandleSpanError(span, "request failed", err)
		}

		return err
	}
}

func isRouteExcluded(c *fiber.Ctx, excludedRoutes []string) bool {
	for _, route := range excludedRoutes {
		if strings.HasPrefix(c.Path(), route) {
			return true
		}
	}

	return false
}
