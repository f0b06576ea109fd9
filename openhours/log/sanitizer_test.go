//go:build unit

package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeError_NilLoggerOrError(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		SafeError(context.Background(), nil, "msg", assert.AnError, false)
		SafeError(context.Background(), NewNop(), "msg", nil, false)
	})
}

//nolint:paralleltest // redirects the standard logger
func TestSafeError_ProductionMode(t *testing.T) {
	var buf bytes.Buffer
	withTestLoggerOutput(t, &buf)

	logger := NewGoLogger(LevelInfo)

	SafeError(context.Background(), logger, "handler error", assert.AnError, false, String("path", "/v1/hours/status"))
	assert.Contains(t, buf.String(), "general error")
	assert.Contains(t, buf.String(), "path=/v1/hours/status")

	buf.Reset()
	SafeError(context.Background(), logger, "handler error", assert.AnError, true, String("path", "/v1/hours/status"))
	assert.Contains(t, buf.String(), "error_type=*errors.errorString")
	assert.Contains(t, buf.String(), "path=/v1/hours/status")
	assert.NotContains(t, buf.String(), "general error")
}

//nolint:paralleltest // redirects the standard logger
func TestSafeError_SkipsDisabledLogger(t *testing.T) {
	var buf bytes.Buffer
	withTestLoggerOutput(t, &buf)

	var logger *GoLogger

	assert.NotPanics(t, func() {
		SafeError(context.Background(), logger, "handler error", assert.AnError, false)
	})
	assert.Empty(t, buf.String())
}
