package courseRoutes

import (
	controllers "apex/controllers/course"
	"apex/middleware"
	validators "apex/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the catalog, enrollment and exam routes
func SetupCourseRoutes(app *fiber.App, cc *controllers.CourseController) {
	courseGroup := app.Group("/courses")

	// Catalog (public)
	courseGroup.Get("/", cc.ListCourses)
	courseGroup.Get("/:id", validators.CourseID(), cc.GetCourse)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), cc.Enroll)

	// Final exam
	courseGroup.Get("/:id/exam/questions", middleware.JWTMiddleware, validators.CourseID(), cc.ExamQuestions)
	courseGroup.Get("/:id/exam/eligibility", middleware.JWTMiddleware, validators.CourseID(), cc.ExamEligibility)
	courseGroup.Post("/:id/exam/submit", middleware.JWTMiddleware, validators.CourseID(), validators.SubmitExam(), cc.SubmitExam)

	enrollmentGroup := app.Group("/enrollments", middleware.JWTMiddleware)
	enrollmentGroup.Get("/", validators.Page(), cc.ListEnrollments)
	enrollmentGroup.Get("/statistics", cc.Statistics)
	enrollmentGroup.Get("/:id", validators.EnrollmentID(), cc.GetEnrollment)
	enrollmentGroup.Patch("/:id/progress", validators.EnrollmentID(), validators.UpdateProgress(), cc.UpdateProgress)
	enrollmentGroup.Post("/:id/mark-lesson", validators.EnrollmentID(), validators.MarkLesson(), cc.MarkLesson)
	enrollmentGroup.Delete("/:id/cancel", validators.EnrollmentID(), cc.Cancel)

	// Certificates
	enrollmentGroup.Get("/:id/certificate", validators.EnrollmentID(), cc.DownloadEnrollmentCertificate)
	enrollmentGroup.Get("/:id/certificate/details", validators.EnrollmentID(), cc.EnrollmentCertificate)
	app.Get("/certificates/:number/download", middleware.JWTMiddleware, validators.CertificateNumber(), cc.DownloadCertificate)
}
