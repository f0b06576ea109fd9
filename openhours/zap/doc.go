// Package zap adapts go.uber.org/zap to the log.Logger interface.
//
// Loggers built with New write JSON and mirror every record into the
// OpenTelemetry log bridge; span identifiers found in the context are attached
// as trace_id and span_id.
package zap
