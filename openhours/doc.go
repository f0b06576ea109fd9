// Package openhours holds the cross-cutting helpers of the opening-hours service:
// request context plumbing, environment configuration, error mapping and the
// application launcher.
//
// Typical usage at request ingress:
//
//	ctx = openhours.ContextWithLogger(ctx, logger)
//	ctx = openhours.ContextWithTracer(ctx, tracer)
//	ctx = openhours.ContextWithHeaderID(ctx, requestID)
//
// The schedule language itself lives in the hours subpackage.
package openhours
