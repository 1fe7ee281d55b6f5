package shopValidator

import (
	"apex/middleware"
	"apex/services/mpesa"
	"apex/validators"

	"github.com/gofiber/fiber/v2"
)

func ProductID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		param := "id"
		if c.Params("product") != "" {
			param = "product"
		}
		id, ok, err := validators.ParamID(c, param, "Product ID")
		if !ok {
			return err
		}
		c.Locals("productID", id)
		return c.Next()
	}
}

func OrderID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := validators.ParamID(c, "id", "Order ID")
		if !ok {
			return err
		}
		c.Locals("orderID", id)
		return c.Next()
	}
}

// AddToCart accepts an optional quantity that defaults to 1.
func AddToCart() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Quantity *int `json:"quantity" validate:"omitempty,gte=1,lte=100"`
		})
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		quantity := 1
		if reqData.Quantity != nil {
			quantity = *reqData.Quantity
		}
		c.Locals("quantity", quantity)
		return c.Next()
	}
}

// UpdateCart requires a quantity; zero or less removes the item.
func UpdateCart() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Quantity *int `json:"quantity" validate:"required,lte=100"`
		})
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("quantity", *reqData.Quantity)
		return c.Next()
	}
}

func Pay() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Phone string `json:"phone" validate:"required,max=20"`
		})
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		phone, err := mpesa.NormalizePhone(reqData.Phone)
		if err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"phone": "Enter a valid Safaricom number, e.g. 0712345678!"})
		}
		c.Locals("phone", phone)
		return c.Next()
	}
}
