// Package runtime recovers panics in goroutines and handlers and reports them
// through logs, spans, metrics and an optional ErrorReporter.
//
// Production mode redacts panic values and stack traces from every sink.
package runtime
