package assert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	constant "github.com/LerianStudio/lib-openhours/openhours/constants"
	"github.com/LerianStudio/lib-openhours/openhours/log"
	"github.com/LerianStudio/lib-openhours/openhours/runtime"
)

// Logger defines the minimal logging interface required by assertions.
// This interface is satisfied by openhours/log.Logger.
type Logger interface {
	Log(ctx context.Context, level log.Level, msg string, fields ...log.Field)
}

// Asserter evaluates invariants and emits telemetry on failure.
type Asserter struct {
	ctx       context.Context
	logger    Logger
	component string
	operation string
}

// ErrAssertionFailed is the sentinel error for failed assertions.
var ErrAssertionFailed = errors.New("assertion failed")

// AssertionError represents a failed assertion with its labels and key/value details.
type AssertionError struct {
	Assertion string
	Message   string
	Component string
	Operation string
	Details   string
}

// Error returns the formatted assertion failure message.
func (entry *AssertionError) Error() string {
	if entry == nil {
		return ErrAssertionFailed.Error()
	}

	if entry.Details == "" {
		return "assertion failed: " + entry.Message
	}

	return "assertion failed: " + entry.Message + "\n" + entry.Details
}

// Unwrap returns the sentinel assertion error for errors.Is.
func (entry *AssertionError) Unwrap() error {
	return ErrAssertionFailed
}

// New creates an Asserter with context, logging, and labels.
// component and operation are used for telemetry labeling.
func New(ctx context.Context, logger Logger, component, operation string) *Asserter {
	if ctx == nil {
		ctx = context.Background()
	}

	return &Asserter{
		ctx:       ctx,
		logger:    logger,
		component: component,
		operation: operation,
	}
}

// That returns an error if ok is false.
//
//	if err := asserter.That(ctx, len(entries) > 0, "schedule must not be empty"); err != nil {
//		return err
//	}
func (asserter *Asserter) That(ctx context.Context, ok bool, msg string, kv ...any) error {
	if ok {
		return nil
	}

	return asserter.fail(ctx, "That", msg, kv...)
}

// NoError returns an error if err is not nil. The error text and type are
// added to the assertion details.
func (asserter *Asserter) NoError(ctx context.Context, err error, msg string, kv ...any) error {
	if err == nil {
		return nil
	}

	kvWithError := make([]any, 0, len(kv)+4)
	kvWithError = append(kvWithError, "error", err.Error(), "error_type", fmt.Sprintf("%T", err))
	kvWithError = append(kvWithError, kv...)

	return asserter.fail(ctx, "NoError", msg, kvWithError...)
}

// Never always returns an error. Use for code paths that should be unreachable.
//
//	return asserter.Never(ctx, "closed schedule has no opening candidate", "schedule", text)
func (asserter *Asserter) Never(ctx context.Context, msg string, kv ...any) error {
	return asserter.fail(ctx, "Never", msg, kv...)
}

const maxValueLength = 200

// truncateValue keeps logged values short.
func truncateValue(v any) string {
	s := fmt.Sprintf("%v", v)
	if len(s) <= maxValueLength {
		return s
	}

	return s[:maxValueLength] + "... (truncated " + strconv.Itoa(len(s)-maxValueLength) + " chars)"
}

func (asserter *Asserter) fail(ctx context.Context, assertion, msg string, kv ...any) error {
	ctx, logger, component, operation := asserter.values(ctx)
	details := formatKeyValueLines(withContextPairs(assertion, component, operation, kv))

	var stack []byte
	if shouldIncludeStack() {
		stack = debug.Stack()
	}

	logAssertion(ctx, logger, formatLogMessage(msg, details, stack))
	recordAssertionMetric(ctx, component, operation, assertion)
	recordAssertionToSpan(ctx, assertion, msg, stack, component, operation)

	return &AssertionError{
		Assertion: assertion,
		Message:   msg,
		Component: component,
		Operation: operation,
		Details:   details,
	}
}

func (asserter *Asserter) values(ctx context.Context) (context.Context, Logger, string, string) {
	if asserter == nil {
		if ctx == nil {
			ctx = context.Background()
		}

		return ctx, nil, "", ""
	}

	if ctx == nil {
		ctx = asserter.ctx
	}

	if ctx == nil {
		ctx = context.Background()
	}

	return ctx, asserter.logger, asserter.component, asserter.operation
}

func shouldIncludeStack() bool {
	if runtime.IsProductionMode() {
		return false
	}

	env := strings.TrimSpace(os.Getenv("ENV_NAME"))

	return !strings.EqualFold(env, "production")
}

func withContextPairs(assertion, component, operation string, kv []any) []any {
	pairs := make([]any, 0, len(kv)+6)
	pairs = append(pairs, "assertion", assertion)

	if component != "" {
		pairs = append(pairs, "component", component)
	}

	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}

	return append(pairs, kv...)
}

func formatKeyValueLines(kv []any) string {
	if len(kv) == 0 {
		return ""
	}

	var sb strings.Builder

	for i := 0; i < len(kv); i += 2 {
		if i > 0 {
			sb.WriteString("\n")
		}

		var value any = "MISSING_VALUE"
		if i+1 < len(kv) {
			value = kv[i+1]
		}

		fmt.Fprintf(&sb, "    %v=%v", kv[i], truncateValue(value))
	}

	return sb.String()
}

func formatLogMessage(msg, details string, stack []byte) string {
	var sb strings.Builder

	sb.WriteString("ASSERTION FAILED: ")
	sb.WriteString(msg)

	if details != "" {
		sb.WriteString("\n")
		sb.WriteString(details)
	}

	if len(stack) > 0 {
		sb.WriteString("\nstack trace:\n")
		sb.Write(stack)
	}

	return sb.String()
}

func logAssertion(ctx context.Context, logger Logger, message string) {
	if logger != nil {
		logger.Log(ctx, log.LevelError, message)
		return
	}

	fmt.Fprintln(os.Stderr, message)
}

// AssertionSpanEventName is the event name used when recording assertion failures on spans.
const AssertionSpanEventName = constant.EventAssertionFailed

var (
	assertionCounter   metric.Int64Counter
	assertionCounterMu sync.RWMutex
)

// InitAssertionMetrics registers the assertion_failed_total counter on meter.
// Call it once after telemetry is initialized; later calls are no-ops.
func InitAssertionMetrics(meter metric.Meter) error {
	if meter == nil {
		return nil
	}

	assertionCounterMu.Lock()
	defer assertionCounterMu.Unlock()

	if assertionCounter != nil {
		return nil
	}

	counter, err := meter.Int64Counter(
		constant.MetricAssertionFailedTotal,
		metric.WithUnit("1"),
		metric.WithDescription("Total number of failed assertions"),
	)
	if err != nil {
		return fmt.Errorf("create assertion counter: %w", err)
	}

	assertionCounter = counter

	return nil
}

// ResetAssertionMetrics clears the registered counter (useful for tests).
func ResetAssertionMetrics() {
	assertionCounterMu.Lock()
	defer assertionCounterMu.Unlock()

	assertionCounter = nil
}

func recordAssertionMetric(ctx context.Context, component, operation, assertion string) {
	assertionCounterMu.RLock()
	counter := assertionCounter
	assertionCounterMu.RUnlock()

	if counter == nil {
		return
	}

	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", constant.SanitizeMetricLabel(component)),
		attribute.String("operation", constant.SanitizeMetricLabel(operation)),
		attribute.String("assertion", constant.SanitizeMetricLabel(assertion)),
	))
}

func recordAssertionToSpan(ctx context.Context, assertion, message string, stack []byte, component, operation string) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(constant.AttrPrefixAssertion+"name", assertion),
		attribute.String(constant.AttrPrefixAssertion+"message", message),
	}

	if component != "" {
		attrs = append(attrs, attribute.String(constant.AttrPrefixAssertion+"component", component))
	}

	if operation != "" {
		attrs = append(attrs, attribute.String(constant.AttrPrefixAssertion+"operation", operation))
	}

	if len(stack) > 0 {
		attrs = append(attrs, attribute.String(constant.AttrPrefixAssertion+"stack", string(stack)))
	}

	span.AddEvent(AssertionSpanEventName, trace.WithAttributes(attrs...))
	span.RecordError(fmt.Errorf("%w: %s", ErrAssertionFailed, message))
	span.SetStatus(codes.Error, assertionStatusMessage(component, operation))
}

func assertionStatusMessage(component, operation string) string {
	switch {
	case component != "" && operation != "":
		return fmt.Sprintf("assertion failed in %s/%s", component, operation)
	case component != "":
		return "assertion failed in " + component
	case operation != "":
		return "assertion failed in " + operation
	default:
		return "assertion failed"
	}
}
