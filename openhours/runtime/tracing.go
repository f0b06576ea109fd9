package runtime

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	constant "github.com/LerianStudio/lib-openhours/openhours/constants"
)

// ErrPanic is the sentinel recorded on spans for recovered panics.
var ErrPanic = errors.New("panic")

// PanicSpanEventName is the span event name used for recovered panics.
const PanicSpanEventName = constant.EventPanicRecovered

// RecordPanicToSpan records a recovered panic on the active span in ctx.
func RecordPanicToSpan(ctx context.Context, panicValue any, stack []byte, goroutineName string) {
	RecordPanicToSpanWithComponent(ctx, panicValue, stack, "", goroutineName)
}

// RecordPanicToSpanWithComponent records a recovered panic with a component label.
// It is a no-op without a recording span.
func RecordPanicToSpanWithComponent(ctx context.Context, panicValue any, stack []byte, component, goroutineName string) {
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	isProduction := IsProductionMode()

	value := formatPanicValue(panicValue)
	if isProduction {
		value = redactedPanicMsg
	}

	attrs := []attribute.KeyValue{
		attribute.String(constant.AttrPrefixPanic+"value", value),
		attribute.String(constant.AttrPrefixPanic+"goroutine_name", goroutineName),
	}

	if component != "" {
		attrs = append(attrs, attribute.String(constant.AttrPrefixPanic+"component", component))
	}

	if len(stack) > 0 && !isProduction {
		attrs = append(attrs, attribute.String(constant.AttrPrefixPanic+"stack", truncateStack(stack)))
	}

	span.AddEvent(PanicSpanEventName, trace.WithAttributes(attrs...))
	span.RecordError(fmt.Errorf("%w: %s", ErrPanic, value))
	span.SetStatus(codes.Error, "panic recovered in "+goroutineName)
}
