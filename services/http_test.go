package services

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lac-hong-legacy/codequest_api/config"
	"github.com/lac-hong-legacy/codequest_api/middleware"
	"github.com/lac-hong-legacy/codequest_api/services/handlers"
	"github.com/lac-hong-legacy/codequest_api/shared"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// newTestApp wires every service over an in-memory database the way
// HttpService.Start does, minus Redis, MinIO and metrics.
func newTestApp(t *testing.T) (*fiber.App, *SqliteService) {
	t.Helper()
	db := newTestDB(t)

	tokens := newJWT(t, time.Hour)
	auth := NewAuthService(config.Auth{AccessTokenTTL: time.Hour})
	auth.wire(db, tokens)
	users := newUserService(t, db, nil)
	limiter := newRateLimiter(newMemoryCounter())
	media := NewMediaService(false)
	media.wire(nil, users)

	app := newApp(routes{
		auth:        middleware.NewAuthMiddleware(tokens, auth),
		limits:      middleware.NewRateLimitMiddleware(limiter),
		authH:       handlers.NewAuthHandler(auth),
		userH:       handlers.NewUserHandler(users),
		leaderboard: handlers.NewLeaderboardHandler(users),
		content:     handlers.NewContentHandler(newContentService(t, db)),
		games:       handlers.NewGameHandler(newGameService(t, db, nil)),
		progress:    handlers.NewProgressHandler(newProgressService(t, db, nil)),
		daily:       handlers.NewDailyHandler(newDailyService(t, db, nil, nil, 3)),
		shop:        handlers.NewShopHandler(newShopService(t, db, nil)),
		media:       handlers.NewMediaHandler(media),
	})
	return app, db
}

func call(t *testing.T, app *fiber.App, method, path, token, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestPing(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{"/ping", "/api/ping"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "max-age=10", resp.Header.Get("Cache-Control"))

		raw, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"code":200,"message":"Success","data":"pong"}`, string(raw))
	}
}

func TestRegisterLoginAndPlay(t *testing.T) {
	app, db := newTestApp(t)
	addLesson(t, db, "l1")

	status, env := call(t, app, http.MethodPost, "/api/register", "", `{"email":"ada@x.io","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.Equal(t, "User successfully registered", env.Message)

	status, env = call(t, app, http.MethodPost, "/api/login", "", `{"email":"ada@x.io","password":"secret123"}`)
	require.Equal(t, http.StatusOK, status, env.Message)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.AccessToken)

	status, _ = call(t, app, http.MethodGet, "/api/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = call(t, app, http.MethodPost, "/api/lessons/l1/complete", login.AccessToken, `{"lives_remaining":3}`)
	require.Equal(t, http.StatusOK, status, env.Message)
	var reward struct {
		XPEarned int `json:"xp_earned"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reward))
	assert.Equal(t, 200, reward.XPEarned)

	status, env = call(t, app, http.MethodPost, "/api/lessons/l1/complete", login.AccessToken, "")
	require.Equal(t, http.StatusOK, status, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &reward))
	assert.Equal(t, 50, reward.XPEarned)

	status, env = call(t, app, http.MethodGet, "/api/me", login.AccessToken, "")
	require.Equal(t, http.StatusOK, status)
	var profile struct {
		XP           int `json:"xp"`
		Level        int `json:"level"`
		LessonsCount int `json:"lessons_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, 250, profile.XP)
	assert.Equal(t, 2, profile.Level)
	assert.Equal(t, 1, profile.LessonsCount)
}

func TestValidationAndNotFoundEnvelopes(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := call(t, app, http.MethodPost, "/api/register", "", `{"email":"not-an-email","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, env.Message)

	status, env = call(t, app, http.MethodPost, "/api/register", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", env.Message)

	status, env = call(t, app, http.MethodGet, "/api/games/nope/tasks", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Game not found", env.Message)

	status, _ = call(t, app, http.MethodGet, "/api/no-such-route", "", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAvatarUploadRequiresFile(t *testing.T) {
	app, db := newTestApp(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	token, err := newJWT(t, time.Hour).ToJWT(user.ID, user.Role)
	require.NoError(t, err)

	status, env := call(t, app, http.MethodPost, "/api/me/avatar", token, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Avatar file is required", env.Message)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	failures := map[string]error{
		"/app":      shared.NewConflictError(errors.New("dup"), "Already there"),
		"/internal": shared.NewInternalError(errors.New("secret detail"), "Failed to do it"),
		"/fiber":    fiber.NewError(http.StatusMethodNotAllowed, "nope"),
		"/missing":  gorm.ErrRecordNotFound,
		"/plain":    errors.New("boom"),
	}
	for path, err := range failures {
		err := err
		app.Get(path, func(*fiber.Ctx) error { return err })
	}

	cases := []struct {
		path    string
		status  int
		message string
		detail  string
	}{
		{"/app", http.StatusConflict, "Already there", "dup"},
		{"/internal", http.StatusInternalServerError, "Failed to do it", "Failed to do it"},
		{"/fiber", http.StatusMethodNotAllowed, "nope", "nope"},
		{"/missing", http.StatusNotFound, "Resource not found", "Resource not found"},
		{"/plain", http.StatusInternalServerError, "Internal Server Error", "Internal Server Error"},
	}
	for _, tc := range cases {
		status, env := call(t, app, http.MethodGet, tc.path, "", "")
		assert.Equal(t, tc.status, status, tc.path)
		assert.Equal(t, tc.message, env.Message, tc.path)
		assert.Equal(t, tc.detail, env.Error, tc.path)
	}
}
