// Package server runs the opening-hours HTTP application and shuts it down
// gracefully on SIGINT/SIGTERM, flushing telemetry and logs on the way out.
package server
