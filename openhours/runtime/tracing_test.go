//go:build unit

package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestTracerProvider(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})

	return provider, recorder
}

func TestErrPanic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "panic", ErrPanic.Error())
	assert.Equal(t, "panic.recovered", PanicSpanEventName)
}

func TestRecordPanicToSpanWithComponent(t *testing.T) {
	t.Parallel()

	provider, recorder := newTestTracerProvider(t)

	ctx, span := provider.Tracer("test").Start(context.Background(), "handler")
	RecordPanicToSpanWithComponent(ctx, "something went wrong", []byte("goroutine 1 [running]"), "http", "status_handler")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	ended := spans[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "panic recovered in status_handler", ended.Status().Description)

	require.NotEmpty(t, ended.Events())
	event := ended.Events()[0]
	assert.Equal(t, PanicSpanEventName, event.Name)

	attrs := map[string]string{}
	for _, attr := range event.Attributes {
		attrs[string(attr.Key)] = attr.Value.AsString()
	}

	assert.Equal(t, "something went wrong", attrs["panic.value"])
	assert.Equal(t, "http", attrs["panic.component"])
	assert.Equal(t, "status_handler", attrs["panic.goroutine_name"])
	assert.Equal(t, "goroutine 1 [running]", attrs["panic.stack"])
}

func TestRecordPanicToSpan_NoActiveSpan(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		RecordPanicToSpan(context.Background(), "panic", nil, "worker")
		RecordPanicToSpan(nil, "panic", nil, "worker") //nolint:staticcheck // nil context exercised on purpose
	})
}
