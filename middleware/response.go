package middleware

import (
	"apex/apperr"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// JsonResponse writes the standard {success, message, data} envelope.
func JsonResponse(c *fiber.Ctx, statusCode int, success bool, message string, data interface{}) error {
	body := fiber.Map{
		"success": success,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(statusCode).JSON(body)
}

func JsonError(c *fiber.Ctx, statusCode int, kind, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   kind,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed!",
		"error":   string(apperr.ValidationFailed),
		"data":    errors,
	})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.NotFound:
		return fiber.StatusNotFound
	case apperr.Forbidden, apperr.AttemptsExhausted:
		return fiber.StatusForbidden
	case apperr.Unauthorized:
		return fiber.StatusUnauthorized
	case apperr.ValidationFailed:
		return fiber.StatusUnprocessableEntity
	case apperr.InvalidState, apperr.AlreadyCompleted, apperr.Conflict:
		return fiber.StatusConflict
	case apperr.Upstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorResponse renders a service error. Internal causes are logged and
// never sent to the client.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err, "unhandled")
	}

	status := StatusFor(appErr.Kind)
	if status >= fiber.StatusInternalServerError || appErr.Kind == apperr.Upstream {
		log.Printf("[ERROR] %s %s request_id=%v: %v", c.Method(), c.Path(), c.Locals("requestid"), err)
	}

	body := fiber.Map{
		"success": false,
		"message": appErr.Message,
		"error":   string(appErr.Kind),
	}
	if appErr.Details != nil {
		body["data"] = appErr.Details
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler is installed as fiber.Config.ErrorHandler so panics caught by
// the recover middleware and unmatched routes share the envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		kind := "internal_error"
		switch fe.Code {
		case fiber.StatusNotFound:
			kind = string(apperr.NotFound)
		case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest:
			kind = string(apperr.ValidationFailed)
		case fiber.StatusTooManyRequests:
			kind = "rate_limited"
		}
		if fe.Code >= fiber.StatusInternalServerError {
			log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
			return JsonError(c, fe.Code, kind, "Something went wrong, please try again later.")
		}
		return JsonError(c, fe.Code, kind, fe.Message)
	}
	return ErrorResponse(c, err)
}
