//go:build unit

package http

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/lib-openhours/openhours"
	"github.com/LerianStudio/lib-openhours/openhours/log"
	"github.com/LerianStudio/lib-openhours/openhours/runtime"
)

type fieldRecordingLogger struct {
	mu      sync.Mutex
	levels  []log.Level
	entries []map[string]any
}

func (l *fieldRecordingLogger) Log(_ context.Context, level log.Level, msg string, fields ...log.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := map[string]any{"msg": msg}
	for _, field := range fields {
		entry[field.Key] = field.Value
	}

	l.levels = append(l.levels, level)
	l.entries = append(l.entries, entry)
}

func (l *fieldRecordingLogger) With(...log.Field) log.Logger { return l }
func (l *fieldRecordingLogger) WithGroup(string) log.Logger  { return l }
func (l *fieldRecordingLogger) Enabled(log.Level) bool       { return true }
func (l *fieldRecordingLogger) Sync(context.Context) error   { return nil }

func serveFailing(t *testing.T, logger log.Logger, err error) int {
	t.Helper()

	app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler, DisableStartupMessage: true})
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(openhours.ContextWithLogger(c.UserContext(), logger))

		return c.Next()
	})
	app.Get("/fail", func(*fiber.Ctx) error { return err })

	resp, testErr := app.Test(httptest.NewRequest(fiber.MethodGet, "/fail", nil), -1)
	require.NoError(t, testErr)

	defer resp.Body.Close()

	return resp.StatusCode
}

//nolint:paralleltest // toggles process-wide production mode
func TestFiberErrorHandler_RedactsServerErrorsInProduction(t *testing.T) {
	cause := errors.New("catalog file /etc/openhours/places.yaml unreadable")

	runtime.SetProductionMode(true)
	t.Cleanup(func() { runtime.SetProductionMode(false) })

	logger := &fieldRecordingLogger{}

	status := serveFailing(t, logger, cause)
	assert.Equal(t, fiber.StatusInternalServerError, status)

	require.Len(t, logger.entries, 1)
	assert.Equal(t, log.LevelError, logger.levels[0])
	assert.Equal(t, "/fail", logger.entries[0]["path"])
	assert.Equal(t, "*errors.errorString", logger.entries[0]["error_type"])
	assert.NotContains(t, logger.entries[0], "error")
}

//nolint:paralleltest // reads process-wide production mode
func TestFiberErrorHandler_LogsCauses(t *testing.T) {
	t.Run("server error outside production", func(t *testing.T) {
		logger := &fieldRecordingLogger{}

		status := serveFailing(t, logger, errors.New("boom"))
		assert.Equal(t, fiber.StatusInternalServerError, status)

		require.Len(t, logger.entries, 1)
		assert.Equal(t, log.LevelError, logger.levels[0])
		assert.NotContains(t, logger.entries[0], "error_type")
	})

	t.Run("client error stays a warning", func(t *testing.T) {
		logger := &fieldRecordingLogger{}

		status := serveFailing(t, logger, fiber.ErrBadRequest)
		assert.Equal(t, fiber.StatusBadRequest, status)

		require.Len(t, logger.entries, 1)
		assert.Equal(t, log.LevelWarn, logger.levels[0])
	})
}
