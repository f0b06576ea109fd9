// Package opentelemetry wires OTLP gRPC exporters for traces, metrics and logs
// and offers small span helpers for the HTTP layer.
package opentelemetry
