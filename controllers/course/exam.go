package controllers

import (
	"apex/middleware"
	"apex/services/academy"

	"github.com/gofiber/fiber/v2"
)

func (cc *CourseController) ExamQuestions(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	set, err := cc.Academy.Questions(c.UserContext(), who, c.Locals("courseID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam questions fetched successfully!", set)
}

func (cc *CourseController) ExamEligibility(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	eligibility, err := cc.Academy.Eligibility(c.UserContext(), who, c.Locals("courseID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Eligibility fetched successfully!", eligibility)
}

func (cc *CourseController) SubmitExam(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	input := c.Locals("validatedExamSubmission").(academy.SubmitInput)
	outcome, err := cc.Academy.Submit(c.UserContext(), who, c.Locals("courseID").(uint), input)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var message string
	switch {
	case outcome.AlreadyCompleted:
		message = "You have already completed this course"
	case outcome.Passed:
		message = "Congratulations! You passed the exam."
	default:
		message = "You did not reach the passing score. Please try again."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, outcome)
}
