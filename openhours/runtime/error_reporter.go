package runtime

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Tag keys passed to ErrorReporter.CaptureException.
const (
	TagComponent     = "component"
	TagGoroutineName = "goroutine_name"
	TagStackTrace    = "stack_trace"
)

const (
	redactedPanicMsg = "panic recovered (details redacted)"
	maxStackLen      = 4096
	truncatedSuffix  = "\n...[truncated]"
)

// ErrorReporter forwards recovered panics to an external sink, e.g. the
// OpenTelemetry log pipeline. Implementations must be safe for concurrent use.
type ErrorReporter interface {
	CaptureException(ctx context.Context, err error, tags map[string]string)
}

type reporterSlot struct {
	reporter ErrorReporter
}

var (
	errorReporter  atomic.Pointer[reporterSlot]
	productionMode atomic.Bool
)

// SetErrorReporter installs the process-wide reporter; nil disables reporting.
func SetErrorReporter(reporter ErrorReporter) {
	if reporter == nil {
		errorReporter.Store(nil)

		return
	}

	errorReporter.Store(&reporterSlot{reporter: reporter})
}

// GetErrorReporter returns the installed reporter, or nil.
//
//nolint:ireturn
func GetErrorReporter() ErrorReporter {
	if slot := errorReporter.Load(); slot != nil {
		return slot.reporter
	}

	return nil
}

// SetProductionMode toggles redaction of panic values and stack traces.
func SetProductionMode(enabled bool) {
	productionMode.Store(enabled)
}

// IsProductionMode reports whether panic details are redacted.
func IsProductionMode() bool {
	return productionMode.Load()
}

func reportPanicToErrorService(ctx context.Context, panicValue any, stack []byte, component, goroutineName string) {
	reporter := GetErrorReporter()
	if reporter == nil {
		return
	}

	redact := IsProductionMode()
	tags := map[string]string{
		TagComponent:     component,
		TagGoroutineName: goroutineName,
	}

	if !redact && len(stack) > 0 {
		tags[TagStackTrace] = truncateStack(stack)
	}

	reporter.CaptureException(ctx, toPanicError(panicValue, redact), tags)
}

func truncateStack(stack []byte) string {
	if len(stack) > maxStackLen {
		return string(stack[:maxStackLen]) + truncatedSuffix
	}

	return string(stack)
}

// panicError carries a non-error panic value.
type panicError string

func (e panicError) Error() string {
	return string(e)
}

func toPanicError(panicValue any, redact bool) error {
	switch value := panicValue.(type) {
	case nil:
		return panicError("panic: <nil>")
	case error:
		if redact {
			return panicError(redactedPanicMsg)
		}

		return value
	case string:
		if redact {
			return panicError(redactedPanicMsg)
		}

		return panicError(value)
	default:
		if redact {
			return panicError(redactedPanicMsg)
		}

		return panicError("panic: " + formatPanicValue(value))
	}
}

func formatPanicValue(value any) string {
	if err, ok := value.(error); ok {
		return err.Error()
	}

	return fmt.Sprint(value)
}
