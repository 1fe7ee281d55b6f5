package userController

import (
	"apex/middleware"
	"apex/services/academy"
	"apex/services/account"
	"apex/services/shop"

	"github.com/gofiber/fiber/v2"
)

// UserController serves the /user routes: everything the caller owns.
type UserController struct {
	Account *account.Service
	Academy *academy.Service
	Shop    *shop.Service
}

func NewUserController(accountSvc *account.Service, academySvc *academy.Service, shopSvc *shop.Service) *UserController {
	return &UserController{Account: accountSvc, Academy: academySvc, Shop: shopSvc}
}

func (uc *UserController) Profile(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	user, err := uc.Account.Profile(c.UserContext(), who.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	user, err := uc.Account.UpdateProfile(c.UserContext(), who.UserID, c.Locals("validatedProfile").(account.ProfileInput))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

func (uc *UserController) Enrollments(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	page, err := uc.Academy.ListForUser(c.UserContext(), who.UserID, c.Locals("page").(int))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", page)
}

func (uc *UserController) Certificates(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	certs, err := uc.Academy.Certificates(c.UserContext(), who.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certs)
}

func (uc *UserController) Achievements(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	achievements, err := uc.Academy.Achievements(c.UserContext(), who)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievements fetched successfully!", achievements)
}

func (uc *UserController) Progress(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	progress, err := uc.Academy.Progress(c.UserContext(), who)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Learning progress fetched successfully!", progress)
}

func (uc *UserController) Orders(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	orders, err := uc.Shop.Orders(c.UserContext(), who.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Orders fetched successfully!", orders)
}
