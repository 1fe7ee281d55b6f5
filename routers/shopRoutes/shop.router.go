package shopRoutes

import (
	shopController "apex/controllers/shop"
	"apex/middleware"
	validators "apex/validators/shop"

	"github.com/gofiber/fiber/v2"
)

// SetupShopRoutes sets up the product, cart, order and payment routes
func SetupShopRoutes(app *fiber.App, sc *shopController.ShopController) {
	// Products (public)
	app.Get("/products", sc.ListProducts)
	app.Get("/products/:id", validators.ProductID(), sc.GetProduct)

	// M-Pesa posts payment results here
	app.Post("/mpesa/callback", middleware.CallbackRateLimiter(), sc.MpesaCallback)

	cartGroup := app.Group("/cart", middleware.JWTMiddleware)
	cartGroup.Get("/", sc.GetCart)
	cartGroup.Post("/add/:product", validators.ProductID(), validators.AddToCart(), sc.AddToCart)
	cartGroup.Put("/update/:product", validators.ProductID(), validators.UpdateCart(), sc.UpdateCart)
	cartGroup.Delete("/remove/:product", validators.ProductID(), sc.RemoveFromCart)
	cartGroup.Delete("/clear", sc.ClearCart)

	orderGroup := app.Group("/orders", middleware.JWTMiddleware)
	orderGroup.Get("/", sc.ListOrders)
	orderGroup.Post("/", sc.Checkout)
	orderGroup.Get("/:id", validators.OrderID(), sc.GetOrder)
	orderGroup.Post("/:id/pay", validators.OrderID(), validators.Pay(), sc.Pay)
}
