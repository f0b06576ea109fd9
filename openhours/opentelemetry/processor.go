package opentelemetry

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/LerianStudio/lib-openhours/openhours"
)

// AttrBagSpanProcessor copies request-scoped attributes from context into every span at start.
type AttrBagSpanProcessor struct{}

// OnStart applies the AttrBag stored in ctx.
func (AttrBagSpanProcessor) OnStart(ctx context.Context, s sdktrace.ReadWriteSpan) {
	if kv := openhours.AttributesFromContext(ctx); len(kv) > 0 {
		s.SetAttributes(kv...)
	}
}

// OnEnd is a no-op.
func (AttrBagSpanProcessor) OnEnd(sdktrace.ReadOnlySpan) {}

// Shutdown is a no-op.
func (AttrBagSpanProcessor) Shutdown(context.Context) error { return nil }

// ForceFlush is a no-op.
func (AttrBagSpanProcessor) ForceFlush(context.Context) error { return nil }
