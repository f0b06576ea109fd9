//go:build unit

package http

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/lib-openhours/openhours/catalog"
	cn "github.com/LerianStudio/lib-openhours/openhours/constants"
	"github.com/LerianStudio/lib-openhours/openhours/hours"
	"github.com/LerianStudio/lib-openhours/openhours/log"
)

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	app := NewRouter(RouterConfig{Logger: log.NewNop()})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil), -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestRouter_Version(t *testing.T) {
	t.Parallel()

	app := NewRouter(RouterConfig{Logger: log.NewNop()})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/version", nil), -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRouter_RequestID(t *testing.T) {
	t.Parallel()

	app := NewRouter(RouterConfig{Logger: log.NewNop()})

	t.Run("generated", func(t *testing.T) {
		t.Parallel()

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/version", nil), -1)
		require.NoError(t, err)

		defer resp.Body.Close()

		assert.NotEmpty(t, resp.Header.Get(cn.HeaderID))
	})

	t.Run("propagated", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(fiber.MethodGet, "/version", nil)
		req.Header.Set(cn.HeaderID, "req-42")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		defer resp.Body.Close()

		assert.Equal(t, "req-42", resp.Header.Get(cn.HeaderID))
	})
}

func TestRouter_RecoversPanics(t *testing.T) {
	t.Parallel()

	app := NewRouter(RouterConfig{Logger: log.NewNop()})
	app.Get("/boom", func(*fiber.Ctx) error {
		panic("kaboom")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(body), "kaboom")
}

func TestStatusFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: fiber.StatusOK},
		{name: "parse error", err: &hours.ParseError{Clause: "x", Err: hours.ErrInvalidSchedule}, want: fiber.StatusUnprocessableEntity},
		{name: "missing instant", err: hours.ErrMissingInstant, want: fiber.StatusBadRequest},
		{name: "invalid instant", err: hours.ErrInvalidInstant, want: fiber.StatusBadRequest},
		{name: "place not found", err: catalog.ErrPlaceNotFound, want: fiber.StatusNotFound},
		{name: "fiber error", err: fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), want: fiber.StatusMethodNotAllowed},
		{name: "unknown", err: errors.New("boom"), want: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, StatusFromError(tt.err))
		})
	}
}

func TestRenderError_HidesInternalDetails(t *testing.T) {
	t.Parallel()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/", func(c *fiber.Ctx) error {
		return RenderError(c, errors.New("dial tcp 10.0.0.1: refused"))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"code":"500","title":"internal_error","message":"internal server error"}`, string(body))
}

func TestRequestInfo_CLFString(t *testing.T) {
	t.Parallel()

	info := &RequestInfo{
		RemoteAddress: "10.0.0.1",
		Protocol:      "http",
		Method:        "GET",
		URI:           "/v1/places",
		Status:        200,
		Size:          12,
		Referer:       "-",
		UserAgent:     "curl",
	}

	clf := info.CLFString()

	assert.Contains(t, clf, `"GET /v1/places"`)
	assert.Contains(t, clf, " 200 12 ")
	assert.Equal(t, clf, info.String())
}
