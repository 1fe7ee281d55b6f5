package controllers

import (
	"apex/middleware"
	"apex/services/academy"

	"github.com/gofiber/fiber/v2"
)

// ListEnrollments pages through every enrollment for admins and the
// caller's own otherwise.
func (cc *CourseController) ListEnrollments(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	page, err := cc.Academy.ListAll(c.UserContext(), who, c.Locals("page").(int))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", page)
}

func (cc *CourseController) Statistics(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	report, err := cc.Academy.Statistics(c.UserContext(), who.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Statistics fetched successfully!", report)
}

func (cc *CourseController) GetEnrollment(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	detail, err := cc.Academy.Get(c.UserContext(), who, c.Locals("enrollmentID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", detail)
}

func (cc *CourseController) UpdateProgress(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	input := c.Locals("validatedProgress").(academy.ProgressInput)
	enrollment, err := cc.Academy.RecordProgress(c.UserContext(), who, c.Locals("enrollmentID").(uint), input)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Progress updated successfully!"
	if enrollment.IsCompleted() {
		message = "Congratulations! You have completed the course."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, enrollment)
}

func (cc *CourseController) MarkLesson(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	input := c.Locals("validatedLesson").(academy.LessonInput)
	enrollment, pct, err := cc.Academy.CompleteLesson(c.UserContext(), who, c.Locals("enrollmentID").(uint), input)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as complete!", fiber.Map{
		"enrollment":          enrollment,
		"progress_percentage": pct,
		"course_completed":    enrollment.IsCompleted(),
	})
}

func (cc *CourseController) Cancel(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	enrollment, err := cc.Academy.Cancel(c.UserContext(), who, c.Locals("enrollmentID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment cancelled successfully!", enrollment)
}
