package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAppErrorUnwraps(t *testing.T) {
	base := NewNotFoundError(errors.New("missing"), "Lesson not found")
	wrapped := fmt.Errorf("loading lesson: %w", base)

	appErr, ok := GetAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
	assert.Equal(t, "Lesson not found: missing", appErr.Error())

	_, ok = GetAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestResponseJSON(t *testing.T) {
	app := fiber.New()
	app.Get("/data", func(c *fiber.Ctx) error {
		return ResponseJSON(c, fiber.StatusOK, "Success", fiber.Map{"tasks": []string{}})
	})
	app.Get("/empty", func(c *fiber.Ctx) error {
		return ResponseOK(c, nil)
	})
	app.Get("/err", func(c *fiber.Ctx) error {
		return ResponseError(c, fiber.StatusBadRequest, "Invalid request", errors.New("xp_earned must be a positive integer"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/data", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var body struct {
		Code int                 `json:"code"`
		Data map[string][]string `json:"data"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 200, body.Code)
	assert.Equal(t, []string{}, body.Data["tasks"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/empty", nil))
	require.NoError(t, err)
	raw, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"code":200,"message":"Success"}`, string(raw))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/err", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	raw, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"code":400,"message":"Invalid request","error":"xp_earned must be a positive integer"}`, string(raw))
}
