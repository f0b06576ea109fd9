// Package log defines the logging interface and typed logging fields.
//
// Adapters (such as the zap package) implement Logger so callers keep logging
// calls consistent across backends. GoLogger and NopLogger cover tests and tools.
package log
