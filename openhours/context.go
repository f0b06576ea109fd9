package openhours

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/LerianStudio/lib-openhours/openhours/log"
)

// ErrNilParentContext indicates that a nil parent context was provided.
var ErrNilParentContext = errors.New("cannot create context from nil parent")

const defaultTracerName = "openhours.default"

type customContextKey string

// CustomContextKey is the context key used to store CustomContextKeyValue.
var CustomContextKey = customContextKey("custom_context")

// CustomContextKeyValue holds the request-scoped facilities attached to a context.
type CustomContextKeyValue struct {
	HeaderID string
	Tracer   trace.Tracer
	Logger   log.Logger

	// AttrBag holds request-wide attributes applied to every span.
	AttrBag []attribute.KeyValue
}

func valuesFrom(ctx context.Context) *CustomContextKeyValue {
	values, _ := ctx.Value(CustomContextKey).(*CustomContextKeyValue)
	if values == nil {
		return &CustomContextKeyValue{}
	}

	clone := *values

	return &clone
}

// NewLoggerFromContext returns the Logger stored in ctx, or a no-op logger.
//
//nolint:ireturn
func NewLoggerFromContext(ctx context.Context) log.Logger {
	if customContext, ok := ctx.Value(CustomContextKey).(*CustomContextKeyValue); ok &&
		customContext.Logger != nil {
		return customContext.Logger
	}

	return log.NewNop()
}

// ContextWithLogger returns a copy of ctx carrying logger.
func ContextWithLogger(ctx context.Context, logger log.Logger) context.Context {
	values := valuesFrom(ctx)
	values.Logger = logger

	return context.WithValue(ctx, CustomContextKey, values)
}

// ContextWithTracer returns a copy of ctx carrying tracer.
func ContextWithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	values := valuesFrom(ctx)
	values.Tracer = tracer

	return context.WithValue(ctx, CustomContextKey, values)
}

// ContextWithHeaderID returns a copy of ctx carrying the request identifier.
func ContextWithHeaderID(ctx context.Context, headerID string) context.Context {
	values := valuesFrom(ctx)
	values.HeaderID = headerID

	return context.WithValue(ctx, CustomContextKey, values)
}

// NewTrackingFromContext extracts logger, tracer and request ID from ctx.
// Missing pieces fall back to a no-op logger, the global tracer and a fresh UUID.
//
//nolint:ireturn
func NewTrackingFromContext(ctx context.Context) (log.Logger, trace.Tracer, string) {
	customContext, _ := ctx.Value(CustomContextKey).(*CustomContextKeyValue)
	if customContext == nil {
		customContext = &CustomContextKeyValue{}
	}

	logger := customContext.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	tracer := customContext.Tracer
	if tracer == nil {
		tracer = otel.Tracer(defaultTracerName)
	}

	headerID := strings.TrimSpace(customContext.HeaderID)
	if headerID == "" {
		headerID = uuid.New().String()
	}

	return logger, tracer, headerID
}

// ContextWithSpanAttributes appends attributes to the request's AttrBag.
// Call it once at ingress and avoid per-layer duplication.
func ContextWithSpanAttributes(ctx context.Context, kv ...attribute.KeyValue) context.Context {
	if len(kv) == 0 {
		return ctx
	}

	values := valuesFrom(ctx)
	values.AttrBag = append(append([]attribute.KeyValue(nil), values.AttrBag...), kv...)

	return context.WithValue(ctx, CustomContextKey, values)
}

// AttributesFromContext returns a copy of the AttrBag.
func AttributesFromContext(ctx context.Context) []attribute.KeyValue {
	if values, ok := ctx.Value(CustomContextKey).(*CustomContextKeyValue); ok && values != nil && len(values.AttrBag) > 0 {
		out := make([]attribute.KeyValue, len(values.AttrBag))
		copy(out, values.AttrBag)

		return out
	}

	return nil
}

// WithTimeoutSafe creates a context with timeout, keeping a shorter parent deadline.
func WithTimeoutSafe(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc, error) {
	if parent == nil {
		return nil, nil, ErrNilParentContext
	}

	if deadline, ok := parent.Deadline(); ok && time.Until(deadline) < timeout {
		ctx, cancel := context.WithCancel(parent)

		return ctx, cancel, nil
	}

	ctx, cancel := context.WithTimeout(parent, timeout)

	return ctx, cancel, nil
}
