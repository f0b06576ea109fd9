package runtime

import (
	"context"
	"runtime/debug"

	"github.com/LerianStudio/lib-openhours/openhours/log"
)

// Logger is the minimal logging surface used by recovery helpers.
type Logger interface {
	Log(ctx context.Context, level log.Level, msg string, fields ...log.Field)
}

// PanicPolicy decides what happens after a panic has been recovered and reported.
type PanicPolicy int

const (
	// KeepRunning swallows the panic after reporting it.
	KeepRunning PanicPolicy = iota
	// CrashProcess re-panics with the original value after reporting it.
	CrashProcess
)

// String returns the policy name.
func (policy PanicPolicy) String() string {
	switch policy {
	case KeepRunning:
		return "KeepRunning"
	case CrashProcess:
		return "CrashProcess"
	default:
		return "Unknown"
	}
}

// RecoverAndLogWithContext recovers a panic, reports it and keeps running.
// It must be called directly by defer.
//
//	defer runtime.RecoverAndLogWithContext(ctx, logger, "catalog", "reload")
func RecoverAndLogWithContext(ctx context.Context, logger Logger, component, name string) {
	if r := recover(); r != nil {
		handlePanic(ctx, logger, r, debug.Stack(), component, name)
	}
}

// RecoverWithPolicyAndContext recovers a panic, reports it and applies policy.
// It must be called directly by defer.
func RecoverWithPolicyAndContext(ctx context.Context, logger Logger, component, name string, policy PanicPolicy) {
	if r := recover(); r != nil {
		handlePanic(ctx, logger, r, debug.Stack(), component, name)

		if policy == CrashProcess {
			panic(r)
		}
	}
}

// HandlePanicValue reports a panic value recovered elsewhere, e.g. by an HTTP
// framework's own recover middleware. Nil values are ignored.
func HandlePanicValue(ctx context.Context, logger Logger, panicValue any, component, name string) {
	if panicValue == nil {
		return
	}

	handlePanic(ctx, logger, panicValue, debug.Stack(), component, name)
}

func handlePanic(ctx context.Context, logger Logger, panicValue any, stack []byte, component, name string) {
	if ctx == nil {
		ctx = context.Background()
	}

	logPanicWithStack(ctx, logger, name, panicValue, stack)
	RecordPanicToSpanWithComponent(ctx, panicValue, stack, component, name)
	recordPanicMetric(ctx, component, name)
	reportPanicToErrorService(ctx, panicValue, stack, component, name)
}

func logPanicWithStack(ctx context.Context, logger Logger, name string, panicValue any, stack []byte) {
	if logger == nil {
		return
	}

	if IsProductionMode() {
		logger.Log(ctx, log.LevelError, "panic recovered",
			log.String("goroutine_name", name),
			log.String("panic_value", redactedPanicMsg),
		)

		return
	}

	logger.Log(ctx, log.LevelError, "panic recovered",
		log.String("goroutine_name", name),
		log.String("panic_value", formatPanicValue(panicValue)),
		log.String("stack_trace", truncateStack(stack)),
	)
}
