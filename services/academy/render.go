package academy

import (
	"apex/models"
	"apex/models/course"
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Render produces the certificate as a landscape A4 PDF.
func Render(cert *course.Certificate, user *models.User, crs *course.Course) ([]byte, error) {
	if cert == nil || user == nil || crs == nil {
		return nil, fmt.Errorf("render certificate: missing certificate, user or course")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Certificate "+cert.CertificateNumber, true)
	pdf.SetAuthor("Apex Software Solutions", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// core fonts are cp1252; names arrive as UTF-8
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFillColor(250, 248, 240)
	pdf.Rect(0, 0, 297, 210, "F")
	pdf.SetDrawColor(11, 31, 58)
	pdf.SetLineWidth(2)
	pdf.Rect(10, 10, 277, 190, "D")
	pdf.SetDrawColor(245, 166, 35)
	pdf.SetLineWidth(0.6)
	pdf.Rect(15, 15, 267, 180, "D")

	pdf.SetTextColor(11, 31, 58)
	pdf.SetY(30)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "APEX SOFTWARE SOLUTIONS", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 34)
	pdf.CellFormat(0, 18, "Certificate of Completion", "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, "This is to certify that", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 28)
	pdf.CellFormat(0, 16, tr(user.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, "has successfully completed the course", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 14, tr(crs.Title), "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 8, fmt.Sprintf("Grade: %s", cert.Grade), "", 1, "C", false, 0, "")

	pdf.SetY(160)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(125, 7, "Issue date: "+cert.IssueDate.Format("January 2, 2006"), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Certificate No: "+cert.CertificateNumber, "", 1, "R", false, 0, "")
	pdf.CellFormat(125, 7, "Valid until: "+cert.ExpiryDate.Format("January 2, 2006"), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Verify at apexsoftware.co.ke/verify", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate %s: %w", cert.CertificateNumber, err)
	}
	return buf.Bytes(), nil
}
