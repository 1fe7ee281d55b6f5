// Package validators holds the request validation shared by the route
// specific validator packages.
package validators

import (
	"apex/middleware"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates v and returns field errors keyed by json name, or nil.
func Struct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": err.Error()}
	}

	out := make(map[string]string, len(ves))
	for _, fe := range ves {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", field)
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long!", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s!", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters!", field, fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s!", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s!", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid!", field)
	}
}

// ParamID parses a positive numeric path parameter. On failure it writes the
// 422 response and returns ok=false.
func ParamID(c *fiber.Ctx, name, label string) (uint, bool, error) {
	raw := strings.TrimSpace(c.Params(name))
	if raw == "" {
		return 0, false, middleware.ValidationErrorResponse(c, map[string]string{name: label + " is required!"})
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false, middleware.ValidationErrorResponse(c, map[string]string{name: "Invalid " + label + "!"})
	}
	return uint(id), true, nil
}

// Body parses the JSON body into req and validates it.
func Body(c *fiber.Ctx, req any) (bool, error) {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return false, middleware.JsonError(c, fiber.StatusBadRequest, "validation_failed", "Invalid request body!")
		}
	}
	if errs := Struct(req); errs != nil {
		return false, middleware.ValidationErrorResponse(c, errs)
	}
	return true, nil
}
