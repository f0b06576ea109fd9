package opentelemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/LerianStudio/lib-openhours/openhours"
	constant "github.com/LerianStudio/lib-openhours/openhours/constants"
	"github.com/LerianStudio/lib-openhours/openhours/log"
)

var (
	// ErrNilTelemetryLogger indicates that config.Logger is nil.
	ErrNilTelemetryLogger = errors.New("telemetry config logger cannot be nil")
	// ErrEmptyEndpoint indicates that telemetry is enabled without a collector endpoint.
	ErrEmptyEndpoint = errors.New("telemetry collector endpoint cannot be empty")
	// ErrNilTelemetry is returned by methods called on a nil *Telemetry.
	ErrNilTelemetry = errors.New("telemetry is nil")
)

// TelemetryConfig holds the inputs for NewTelemetry.
type TelemetryConfig struct {
	LibraryName               string
	ServiceName               string
	ServiceVersion            string
	DeploymentEnv             string
	CollectorExporterEndpoint string
	EnableTelemetry           bool
	Logger                    log.Logger
}

// Telemetry owns the trace, metric and log providers of the process.
type Telemetry struct {
	TelemetryConfig
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	LoggerProvider *sdklog.LoggerProvider
	Propagator     propagation.TextMapPropagator
	shutdown       func(context.Context) error
}

func (cfg *TelemetryConfig) newResource() *sdkresource.Resource {
	return sdkresource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.DeploymentEnv),
		semconv.TelemetrySDKName(constant.TelemetrySDKName),
		semconv.TelemetrySDKLanguageGo,
	)
}

// NewTelemetry builds the providers. With EnableTelemetry false the providers
// have no exporters, so instrumentation keeps working without a collector.
// Call ApplyGlobals to install them process-wide.
func NewTelemetry(cfg TelemetryConfig) (*Telemetry, error) {
	if cfg.Logger == nil {
		return nil, ErrNilTelemetryLogger
	}

	ctx := context.Background()
	propagator := propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})

	if !cfg.EnableTelemetry {
		cfg.Logger.Log(ctx, log.LevelWarn, "telemetry turned off")

		return &Telemetry{
			TelemetryConfig: cfg,
			TracerProvider:  sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(AttrBagSpanProcessor{})),
			MeterProvider:   sdkmetric.NewMeterProvider(),
			LoggerProvider:  sdklog.NewLoggerProvider(),
			Propagator:      propagator,
			shutdown:        func(context.Context) error { return nil },
		}, nil
	}

	endpoint := strings.TrimSpace(cfg.CollectorExporterEndpoint)
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}

	cfg.Logger.Log(ctx, log.LevelInfo, "initializing telemetry", log.String("endpoint", endpoint))

	resource := cfg.newResource()

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("can't initialize tracer exporter: %w", err)
	}

	metricExporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(endpoint), otlpmetricgrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("can't initialize metric exporter: %w", err)
	}

	logExporter, err := otlploggrpc.New(ctx, otlploggrpc.WithEndpoint(endpoint), otlploggrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("can't initialize logger exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(resource),
		sdktrace.WithSpanProcessor(AttrBagSpanProcessor{}),
	)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(resource),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
	)

	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(resource),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
	)

	// Providers shut their exporters down too.
	shutdown := func(ctx context.Context) error {
		return errors.Join(
			wrapShutdown("metric provider", mp.Shutdown(ctx)),
			wrapShutdown("tracer provider", tp.Shutdown(ctx)),
			wrapShutdown("logger provider", lp.Shutdown(ctx)),
		)
	}

	cfg.Logger.Log(ctx, log.LevelInfo, "telemetry initialized")

	return &Telemetry{
		TelemetryConfig: cfg,
		TracerProvider:  tp,
		MeterProvider:   mp,
		LoggerProvider:  lp,
		Propagator:      propagator,
		shutdown:        shutdown,
	}, nil
}

func wrapShutdown(component string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("can't shutdown %s: %w", component, err)
}

// ApplyGlobals installs the providers and propagator as OpenTelemetry globals.
func (tl *Telemetry) ApplyGlobals() {
	if tl == nil {
		return
	}

	otel.SetTracerProvider(tl.TracerProvider)
	otel.SetMeterProvider(tl.MeterProvider)
	global.SetLoggerProvider(tl.LoggerProvider)
	otel.SetTextMapPropagator(tl.Propagator)
}

// Tracer returns a tracer from the telemetry's provider.
//
//nolint:ireturn
func (tl *Telemetry) Tracer(name string) (trace.Tracer, error) {
	if tl == nil || tl.TracerProvider == nil {
		return nil, ErrNilTelemetry
	}

	return tl.TracerProvider.Tracer(name), nil
}

// Meter returns a meter from the telemetry's provider.
//
//nolint:ireturn
func (tl *Telemetry) Meter(name string) (metric.Meter, error) {
	if tl == nil || tl.MeterProvider == nil {
		return nil, ErrNilTelemetry
	}

	return tl.MeterProvider.Meter(name), nil
}

// ShutdownTelemetryWithContext flushes and stops every provider.
func (tl *Telemetry) ShutdownTelemetryWithContext(ctx context.Context) error {
	if tl == nil {
		return ErrNilTelemetry
	}

	if tl.shutdown == nil {
		return nil
	}

	return tl.shutdown(ctx)
}

// ShutdownTelemetry is ShutdownTelemetryWithContext with a background context;
// failures are logged.
func (tl *Telemetry) ShutdownTelemetry() {
	if tl == nil {
		return
	}

	if err := tl.ShutdownTelemetryWithContext(context.Background()); err != nil && tl.Logger != nil {
		tl.Logger.Log(context.Background(), log.LevelError, "telemetry shutdown failed", log.Err(err))
	}
}

// SetSpanAttributeForParam records a path parameter on every span of the request,
// e.g. "app.request.place" for /v1/places/:name with entityName "place".
func SetSpanAttributeForParam(c *fiber.Ctx, param, value, entityName string) {
	key := constant.AttrPrefixAppRequest + param
	if entityName != "" {
		key = constant.AttrPrefixAppRequest + entityName
	}

	c.SetUserContext(openhours.ContextWithSpanAttributes(c.UserContext(), attribute.String(key, value)))
}

// HandleSpanEvent adds an event to the span.
func HandleSpanEvent(span trace.Span, eventName string, attributes ...attribute.KeyValue) {
	if span != nil {
		span.AddEvent(eventName, trace.WithAttributes(attributes...))
	}
}

// HandleSpanBusinessErrorEvent records a client-caused error as a span event
// without marking the span as failed.
func HandleSpanBusinessErrorEvent(span trace.Span, eventName string, err error) {
	if span != nil && err != nil {
		span.AddEvent(eventName, trace.WithAttributes(attribute.String("error", err.Error())))
	}
}

// HandleSpanError marks the span as failed and records err.
func HandleSpanError(span trace.Span, message string, err error) {
	if span != nil && err != nil {
		span.SetStatus(codes.Error, message+": "+err.Error())
		span.RecordError(err)
	}
}

// ExtractHTTPContext extracts the W3C trace context from the Fiber request headers.
func ExtractHTTPContext(c *fiber.Ctx) context.Context {
	carrier := propagation.HeaderCarrier{}

	c.Request().Header.VisitAll(func(key, value []byte) {
		carrier.Set(string(key), string(value))
	})

	return otel.GetTextMapPropagator().Extract(c.UserContext(), carrier)
}

// GetTraceIDFromContext returns the trace ID of the active span, or "".
func GetTraceIDFromContext(ctx context.Context) string {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return ""
	}

	return spanContext.TraceID().String()
}
