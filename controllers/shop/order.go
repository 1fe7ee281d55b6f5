package shopController

import (
	"apex/middleware"
	"apex/services/mpesa"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
)

func (sc *ShopController) ListOrders(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	orders, err := sc.Shop.Orders(c.UserContext(), who.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Orders fetched successfully!", orders)
}

// Checkout creates an order from the caller's cart.
func (sc *ShopController) Checkout(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	order, err := sc.Shop.Checkout(c.UserContext(), who.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Order created successfully", order)
}

func (sc *ShopController) GetOrder(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	order, err := sc.Shop.Order(c.UserContext(), who.UserID, c.Locals("orderID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order fetched successfully!", order)
}

func (sc *ShopController) Pay(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	res, err := sc.Shop.InitiatePayment(c.UserContext(), who.UserID, c.Locals("orderID").(uint), c.Locals("phone").(string))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment initiated. Check your phone to complete the payment.", res)
}

var callbackAck = fiber.Map{"ResultCode": 0, "ResultDesc": "Success"}

// MpesaCallback always acknowledges, otherwise Daraja keeps retrying.
// Processing failures are logged.
func (sc *ShopController) MpesaCallback(c *fiber.Ctx) error {
	raw := append([]byte(nil), c.Body()...)

	var cb mpesa.Callback
	if err := json.Unmarshal(raw, &cb); err != nil {
		log.Printf("[MPESA] Malformed callback body: %v", err)
		return c.Status(fiber.StatusOK).JSON(callbackAck)
	}

	if err := sc.Shop.HandleCallback(c.UserContext(), cb, raw); err != nil {
		log.Printf("[MPESA] Error processing callback %s: %v", cb.Body.StkCallback.CheckoutRequestID, err)
	}
	return c.Status(fiber.StatusOK).JSON(callbackAck)
}
