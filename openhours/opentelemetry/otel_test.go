//go:build unit

package opentelemetry

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/LerianStudio/lib-openhours/openhours"
	"github.com/LerianStudio/lib-openhours/openhours/log"
)

func newRecordedTracer(t *testing.T) (trace.Tracer, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(AttrBagSpanProcessor{}),
		sdktrace.WithSpanProcessor(recorder),
	)

	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return provider.Tracer("test"), recorder
}

func TestNewTelemetry_NilLogger(t *testing.T) {
	t.Parallel()

	tl, err := NewTelemetry(TelemetryConfig{})
	require.ErrorIs(t, err, ErrNilTelemetryLogger)
	assert.Nil(t, tl)
}

func TestNewTelemetry_EnabledEmptyEndpoint(t *testing.T) {
	t.Parallel()

	tl, err := NewTelemetry(TelemetryConfig{
		EnableTelemetry:           true,
		CollectorExporterEndpoint: "   ",
		Logger:                    log.NewNop(),
	})
	require.ErrorIs(t, err, ErrEmptyEndpoint)
	assert.Nil(t, tl)
}

func TestNewTelemetry_Disabled(t *testing.T) {
	t.Parallel()

	tl, err := NewTelemetry(TelemetryConfig{LibraryName: "openhours", Logger: log.NewNop()})
	require.NoError(t, err)

	assert.NotNil(t, tl.TracerProvider)
	assert.NotNil(t, tl.MeterProvider)
	assert.NotNil(t, tl.LoggerProvider)
	assert.NotNil(t, tl.Propagator)

	tracer, err := tl.Tracer("hours")
	require.NoError(t, err)
	assert.NotNil(t, tracer)

	meter, err := tl.Meter("hours")
	require.NoError(t, err)
	assert.NotNil(t, meter)

	require.NoError(t, tl.ShutdownTelemetryWithContext(context.Background()))
	assert.NotPanics(t, tl.ShutdownTelemetry)
}

func TestTelemetry_NilReceiver(t *testing.T) {
	t.Parallel()

	var tl *Telemetry

	assert.NotPanics(t, func() { tl.ApplyGlobals() })
	assert.NotPanics(t, func() { tl.ShutdownTelemetry() })

	_, err := tl.Tracer("x")
	require.ErrorIs(t, err, ErrNilTelemetry)

	_, err = tl.Meter("x")
	require.ErrorIs(t, err, ErrNilTelemetry)

	require.ErrorIs(t, tl.ShutdownTelemetryWithContext(context.Background()), ErrNilTelemetry)
}

//nolint:paralleltest // mutates OpenTelemetry globals
func TestTelemetry_ApplyGlobals(t *testing.T) {
	previousTracer := otel.GetTracerProvider()
	previousMeter := otel.GetMeterProvider()
	previousPropagator := otel.GetTextMapPropagator()

	t.Cleanup(func() {
		otel.SetTracerProvider(previousTracer)
		otel.SetMeterProvider(previousMeter)
		otel.SetTextMapPropagator(previousPropagator)
	})

	tl, err := NewTelemetry(TelemetryConfig{Logger: log.NewNop()})
	require.NoError(t, err)

	tl.ApplyGlobals()

	assert.Same(t, tl.TracerProvider, otel.GetTracerProvider())
	assert.Same(t, tl.MeterProvider, otel.GetMeterProvider())
}

func TestAttrBagSpanProcessor(t *testing.T) {
	t.Parallel()

	tracer, recorder := newRecordedTracer(t)

	ctx := openhours.ContextWithSpanAttributes(context.Background(), attribute.String("app.request.place", "bakery"))
	_, span := tracer.Start(ctx, "status")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), attribute.String("app.request.place", "bakery"))
}

func TestSpanHelpers(t *testing.T) {
	t.Parallel()

	tracer, recorder := newRecordedTracer(t)

	_, span := tracer.Start(context.Background(), "next-open")
	HandleSpanEvent(span, "hours.parsed", attribute.Int("hours.entries", 5))
	HandleSpanBusinessErrorEvent(span, "hours.invalid", errors.New("bad clause"))
	HandleSpanError(span, "evaluation failed", errors.New("boom"))
	HandleSpanError(span, "ignored", nil)
	span.End()

	ended := recorder.Ended()[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "evaluation failed: boom", ended.Status().Description)
	require.Len(t, ended.Events(), 3)
	assert.Equal(t, "hours.parsed", ended.Events()[0].Name)
	assert.Equal(t, "hours.invalid", ended.Events()[1].Name)

	assert.NotPanics(t, func() {
		HandleSpanEvent(nil, "x")
		HandleSpanError(nil, "x", errors.New("x"))
	})
}

func TestGetTraceIDFromContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceIDFromContext(context.Background()))

	tracer, _ := newRecordedTracer(t)
	ctx, span := tracer.Start(context.Background(), "op")
	defer span.End()

	assert.Equal(t, span.SpanContext().TraceID().String(), GetTraceIDFromContext(ctx))
}

//nolint:paralleltest // relies on the global propagator
func TestExtractHTTPContextAndParamAttribute(t *testing.T) {
	previous := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(previous) })

	app := fiber.New()

	var (
		traceID string
		attrs   []attribute.KeyValue
	)

	app.Get("/v1/places/:name", func(c *fiber.Ctx) error {
		c.SetUserContext(ExtractHTTPContext(c))
		SetSpanAttributeForParam(c, "name", c.Params("name"), "place")

		traceID = trace.SpanContextFromContext(c.UserContext()).TraceID().String()
		attrs = openhours.AttributesFromContext(c.UserContext())

		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/v1/places/bakery", nil)
	req.Header.Set("Traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", traceID)
	assert.Equal(t, []attribute.KeyValue{attribute.String("app.request.place", "bakery")}, attrs)
}
