package middleware

import (
	"apex/apperr"
	"apex/config"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(t *testing.T, app *fiber.App, target, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestStatusFor(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.NotFound:          404,
		apperr.Forbidden:         403,
		apperr.AttemptsExhausted: 403,
		apperr.Unauthorized:      401,
		apperr.ValidationFailed:  422,
		apperr.InvalidState:      409,
		apperr.AlreadyCompleted:  409,
		apperr.Upstream:          502,
		apperr.Unhandled:         500,
	}
	for kind, want := range cases {
		assert.Equal(t, want, StatusFor(kind), kind)
	}
}

func TestErrorResponseHidesInternalCause(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return ErrorResponse(c, errors.New("pq: password authentication failed"))
	})
	app.Get("/details", func(c *fiber.Ctx) error {
		return ErrorResponse(c, apperr.WithDetails(apperr.AttemptsExhausted, "No attempts left", map[string]int{"attempts": 3}))
	})

	status, out := body(t, app, "/boom", "")
	assert.Equal(t, 500, status)
	assert.Equal(t, "internal_error", out["error"])
	assert.NotContains(t, out["message"], "password")

	status, out = body(t, app, "/details", "")
	assert.Equal(t, 403, status)
	assert.Equal(t, "attempts_exhausted", out["error"])
	assert.EqualValues(t, 3, out["data"].(map[string]any)["attempts"])

	status, out = body(t, app, "/missing", "")
	assert.Equal(t, 404, status)
	assert.Equal(t, "not_found", out["error"])
}

func TestJWTMiddleware(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		who, err := Caller(c)
		if err != nil {
			return ErrorResponse(c, err)
		}
		return c.JSON(fiber.Map{"user": who.UserID, "admin": who.IsAdmin})
	})

	token, err := GenerateJWT(42, true)
	require.NoError(t, err)

	status, out := body(t, app, "/me", token)
	assert.Equal(t, 200, status)
	assert.EqualValues(t, 42, out["user"])
	assert.Equal(t, true, out["admin"])

	status, out = body(t, app, "/me", "")
	assert.Equal(t, 401, status)
	assert.Equal(t, "unauthorized", out["error"])

	config.AppConfig = &config.Config{JWTKey: "rotated"}
	status, _ = body(t, app, "/me", token)
	assert.Equal(t, 401, status)
}
