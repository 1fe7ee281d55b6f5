package shopController

import (
	"apex/middleware"

	"github.com/gofiber/fiber/v2"
)

func (sc *ShopController) GetCart(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	cart, err := sc.Shop.Cart(c.UserContext(), who.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cart fetched successfully!", cart)
}

func (sc *ShopController) AddToCart(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	cart, err := sc.Shop.AddToCart(c.UserContext(), who.UserID, c.Locals("productID").(uint), c.Locals("quantity").(int))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Product added to cart", cart)
}

func (sc *ShopController) UpdateCart(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	quantity := c.Locals("quantity").(int)
	cart, err := sc.Shop.UpdateCartItem(c.UserContext(), who.UserID, c.Locals("productID").(uint), quantity)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Cart updated"
	if quantity <= 0 {
		message = "Item removed from cart"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, cart)
}

func (sc *ShopController) RemoveFromCart(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	cart, err := sc.Shop.RemoveFromCart(c.UserContext(), who.UserID, c.Locals("productID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Item removed from cart", cart)
}

func (sc *ShopController) ClearCart(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if err := sc.Shop.ClearCart(c.UserContext(), who.UserID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cart cleared", nil)
}
