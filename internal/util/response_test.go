package util

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorBody(t *testing.T, hide bool) (int, OrderedErrorResponse) {
	t.Helper()
	HideDevDetails(hide)
	t.Cleanup(func() { HideDevDetails(false) })

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return ErrorResponse(c, ErrorResponseFormat{
			Code:    fiber.StatusBadGateway,
			Message: "model unavailable",
			Details: fiber.Map{"error_class": "api"},
		}, errors.New("dial tcp: connection refused"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body OrderedErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestErrorResponseDevelopment(t *testing.T) {
	code, body := errorBody(t, false)

	assert.Equal(t, fiber.StatusBadGateway, code)
	assert.False(t, body.Success)
	assert.Equal(t, "model unavailable", body.Message)
	assert.Equal(t, "dial tcp: connection refused", body.DevMessage)
	assert.NotEmpty(t, body.Trace)
	assert.Equal(t, map[string]any{"error_class": "api"}, body.Details)
}

func TestErrorResponseProductionHidesInternals(t *testing.T) {
	_, body := errorBody(t, true)

	assert.Empty(t, body.DevMessage)
	assert.Empty(t, body.Trace)
	assert.Equal(t, map[string]any{"error_class": "api"}, body.Details)
}

func TestSuccessResponseDefaultsToOK(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return SuccessResponse(c, SuccessResponseFormat{Message: "ok", Data: fiber.Map{"n": 1}})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
