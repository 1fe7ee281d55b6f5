package controllers

import (
	"apex/middleware"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentCertificate returns the certificate of a completed enrollment,
// issuing it on first request.
func (cc *CourseController) EnrollmentCertificate(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	cert, err := cc.Academy.IssueOrGet(c.UserContext(), who, c.Locals("enrollmentID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", cert)
}

// DownloadCertificate streams the certificate PDF to its owner.
func (cc *CourseController) DownloadCertificate(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	cert, pdf, err := cc.Academy.Download(c.UserContext(), who, c.Locals("certificateNumber").(string))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return sendPDF(c, cert.CertificateNumber, pdf)
}

// DownloadEnrollmentCertificate issues the certificate of a completed
// enrollment if needed and returns its PDF.
func (cc *CourseController) DownloadEnrollmentCertificate(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	cert, pdf, err := cc.Academy.DownloadForEnrollment(c.UserContext(), who, c.Locals("enrollmentID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return sendPDF(c, cert.CertificateNumber, pdf)
}

func sendPDF(c *fiber.Ctx, number string, pdf []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="certificate-%s.pdf"`, number))
	return c.Status(fiber.StatusOK).Send(pdf)
}
