// Package http exposes the opening-hours evaluator over HTTP with Fiber.
//
// Errors are rendered as {"code","title","message"} bodies; request IDs, access
// logs, tracing and panic recovery are provided as middlewares.
package http
