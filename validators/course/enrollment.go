package courseValidator

import (
	"apex/middleware"
	"apex/services/academy"
	"apex/validators"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := validators.ParamID(c, "id", "Course ID")
		if !ok {
			return err
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := validators.ParamID(c, "id", "Enrollment ID")
		if !ok {
			return err
		}
		c.Locals("enrollmentID", id)
		return c.Next()
	}
}

var certificateNumberPattern = regexp.MustCompile(`^[A-Z0-9]+-\d{4}-[A-Z0-9]{8}$`)

func CertificateNumber() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := strings.ToUpper(strings.TrimSpace(c.Params("number")))
		if !certificateNumberPattern.MatchString(number) {
			return middleware.ValidationErrorResponse(c, map[string]string{"number": "Invalid certificate number!"})
		}
		c.Locals("certificateNumber", number)
		return c.Next()
	}
}

// Page reads the optional ?page= query, defaulting to 1.
func Page() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page int `query:"page" json:"page" validate:"gte=0"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"page": "Page must be a number!"})
		}
		if errs := validators.Struct(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		if reqData.Page == 0 {
			reqData.Page = 1
		}
		c.Locals("page", reqData.Page)
		return c.Next()
	}
}

type progressRequest struct {
	ProgressPercentage  *float64 `json:"progress_percentage" validate:"required,gte=0,lte=100"`
	ProgressHours       *float64 `json:"progress_hours" validate:"omitempty,gte=0"`
	LastLessonCompleted string   `json:"last_lesson_completed" validate:"max=255"`
	Notes               string   `json:"notes" validate:"max=500"`
}

func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(progressRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		c.Locals("validatedProgress", academy.ProgressInput{
			Percentage:      *reqData.ProgressPercentage,
			Hours:           reqData.ProgressHours,
			LessonCompleted: strings.TrimSpace(reqData.LastLessonCompleted),
			Notes:           strings.TrimSpace(reqData.Notes),
		})
		return c.Next()
	}
}

type markLessonRequest struct {
	LessonID        string  `json:"lesson_id" validate:"required,max=100"`
	LessonTitle     string  `json:"lesson_title" validate:"required,max=255"`
	DurationMinutes float64 `json:"duration_minutes" validate:"gte=0"`
}

func MarkLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(markLessonRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		c.Locals("validatedLesson", academy.LessonInput{
			LessonID:        strings.TrimSpace(reqData.LessonID),
			LessonTitle:     strings.TrimSpace(reqData.LessonTitle),
			DurationMinutes: reqData.DurationMinutes,
		})
		return c.Next()
	}
}

type submitExamRequest struct {
	Score          *float64          `json:"score" validate:"omitempty,gte=0,lte=100"`
	CorrectAnswers *int              `json:"correct_answers" validate:"omitempty,gte=0"`
	TotalQuestions *int              `json:"total_questions" validate:"omitempty,gt=0"`
	Answers        map[string]string `json:"answers"`
}

func SubmitExam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(submitExamRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		errors := make(map[string]string)
		if reqData.Score == nil && len(reqData.Answers) == 0 && (reqData.CorrectAnswers == nil || reqData.TotalQuestions == nil) {
			errors["score"] = "Provide a score, answers, or correct_answers with total_questions!"
		}
		if reqData.CorrectAnswers != nil && reqData.TotalQuestions != nil && *reqData.CorrectAnswers > *reqData.TotalQuestions {
			errors["correct_answers"] = "correct_answers cannot exceed total_questions!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedExamSubmission", academy.SubmitInput{
			Score:          reqData.Score,
			CorrectAnswers: reqData.CorrectAnswers,
			TotalQuestions: reqData.TotalQuestions,
			Answers:        reqData.Answers,
		})
		return c.Next()
	}
}
