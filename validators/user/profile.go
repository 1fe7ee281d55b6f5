package userValidator

import (
	"apex/middleware"
	"apex/services/account"
	"apex/services/mpesa"
	"apex/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfile requires a name. An empty phone clears the stored number,
// any other value must be a Safaricom MSISDN.
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name  string  `json:"name" validate:"required,max=255"`
			Phone *string `json:"phone" validate:"omitempty,max=20"`
		})
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		name := strings.TrimSpace(reqData.Name)
		if name == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"name": "Name is required!"})
		}
		input := account.ProfileInput{Name: &name}

		if reqData.Phone != nil {
			phone := strings.TrimSpace(*reqData.Phone)
			if phone != "" {
				normalized, err := mpesa.NormalizePhone(phone)
				if err != nil {
					return middleware.ValidationErrorResponse(c, map[string]string{"phone": "Enter a valid Safaricom number, e.g. 0712345678!"})
				}
				phone = normalized
			}
			input.Phone = &phone
		}

		c.Locals("validatedProfile", input)
		return c.Next()
	}
}
