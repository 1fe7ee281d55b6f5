package shopController

import (
	"apex/middleware"
	"apex/services/shop"

	"github.com/gofiber/fiber/v2"
)

type ShopController struct {
	Shop *shop.Service
}

func NewShopController(svc *shop.Service) *ShopController {
	return &ShopController{Shop: svc}
}

func (sc *ShopController) ListProducts(c *fiber.Ctx) error {
	products, err := sc.Shop.Products(c.UserContext(), c.Query("category"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Products fetched successfully!", products)
}

func (sc *ShopController) GetProduct(c *fiber.Ctx) error {
	product, err := sc.Shop.Product(c.UserContext(), c.Locals("productID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Product fetched successfully!", product)
}
