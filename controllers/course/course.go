package controllers

import (
	"apex/middleware"
	"apex/services/academy"

	"github.com/gofiber/fiber/v2"
)

type CourseController struct {
	Academy *academy.Service
}

func NewCourseController(svc *academy.Service) *CourseController {
	return &CourseController{Academy: svc}
}

func (cc *CourseController) ListCourses(c *fiber.Ctx) error {
	courses, err := cc.Academy.Courses(c.UserContext(), c.Query("category"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

func (cc *CourseController) GetCourse(c *fiber.Ctx) error {
	detail, err := cc.Academy.Course(c.UserContext(), c.Locals("courseID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", detail)
}

// Enroll answers 201 for a new enrollment and 200 when the caller is
// already enrolled.
func (cc *CourseController) Enroll(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	enrollment, created, err := cc.Academy.Enroll(c.UserContext(), who, c.Locals("courseID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !created {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Already enrolled in this course", enrollment)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}
