package userRoutes

import (
	userController "apex/controllers/userControllers"
	"apex/middleware"
	validators "apex/validators/course"
	userValidator "apex/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up the routes for the caller's own records
func SetupUserRoutes(app *fiber.App, uc *userController.UserController) {
	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/profile", uc.Profile)
	userGroup.Put("/profile", userValidator.UpdateProfile(), uc.UpdateProfile)
	userGroup.Get("/enrollments", validators.Page(), uc.Enrollments)
	userGroup.Get("/certificates", uc.Certificates)
	userGroup.Get("/achievements", uc.Achievements)
	userGroup.Get("/progress", uc.Progress)
	userGroup.Get("/orders", uc.Orders)
}
