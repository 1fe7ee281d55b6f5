// Package routers mounts every route group on the app.
package routers

import (
	courseControllers "apex/controllers/course"
	shopController "apex/controllers/shop"
	userController "apex/controllers/userControllers"
	"apex/middleware"
	"apex/routers/courseRoutes"
	"apex/routers/shopRoutes"
	"apex/routers/userRoutes"
	"apex/services/academy"
	"apex/services/account"
	"apex/services/shop"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Services struct {
	Account *account.Service
	Academy *academy.Service
	Shop    *shop.Service
}

func Setup(app *fiber.App, svc Services) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", fiber.Map{
			"time": time.Now().UTC().Format(time.RFC3339),
		})
	})

	courseRoutes.SetupCourseRoutes(app, courseControllers.NewCourseController(svc.Academy))
	shopRoutes.SetupShopRoutes(app, shopController.NewShopController(svc.Shop))
	userRoutes.SetupUserRoutes(app, userController.NewUserController(svc.Account, svc.Academy, svc.Shop))
}
