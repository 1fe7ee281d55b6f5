package courseValidator

import (
	"apex/services/academy"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestCourseIDRejectsNonNumeric(t *testing.T) {
	app := fiber.New()
	app.Get("/courses/:id", CourseID(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": c.Locals("courseID").(uint)})
	})

	status, body := run(t, app, "GET", "/courses/abc", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "validation_failed", body["error"])

	status, body = run(t, app, "GET", "/courses/7", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 7, body["id"])
}

func TestUpdateProgressValidation(t *testing.T) {
	var got academy.ProgressInput
	app := fiber.New()
	app.Patch("/p", UpdateProgress(), func(c *fiber.Ctx) error {
		got = c.Locals("validatedProgress").(academy.ProgressInput)
		return c.SendStatus(fiber.StatusNoContent)
	})

	status, body := run(t, app, "PATCH", "/p", `{"progress_percentage":150}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["data"], "progress_percentage")

	status, _ = run(t, app, "PATCH", "/p", `{}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = run(t, app, "PATCH", "/p", `{"progress_percentage":42.5,"progress_hours":3,"notes":"  ch 3 "}`)
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.Equal(t, 42.5, got.Percentage)
	require.NotNil(t, got.Hours)
	assert.Equal(t, 3.0, *got.Hours)
	assert.Equal(t, "ch 3", got.Notes)
}

func TestSubmitExamNeedsAScore(t *testing.T) {
	app := fiber.New()
	app.Post("/s", SubmitExam(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	status, _ := run(t, app, "POST", "/s", `{}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = run(t, app, "POST", "/s", `{"correct_answers":5,"total_questions":4}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = run(t, app, "POST", "/s", `{"score":85}`)
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestCertificateNumberFormat(t *testing.T) {
	app := fiber.New()
	app.Get("/c/:number", CertificateNumber(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("certificateNumber").(string))
	})

	status, _ := run(t, app, "GET", "/c/not-a-number", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	req := httptest.NewRequest("GET", "/c/apex-2026-ab12cd34", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "APEX-2026-AB12CD34", string(raw))
}
