package email

import (
	"fmt"
	"html"
	"time"
)

// HTML wrapper shared by all notifications
func layout(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #0B1F3A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #0B1F3A; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #F5A623; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>APEX ACADEMY</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">&copy; Apex Software Solutions. All rights reserved.</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(title), bodyContent)
}

func EnrollmentConfirmation(to, name, courseTitle string) Message {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in <strong>%s</strong>.</p>
		<p>Complete the lessons and pass the final exam to earn your certificate.</p>
	`, html.EscapeString(name), html.EscapeString(courseTitle))

	return Message{
		To:      to,
		ToName:  name,
		Subject: "Course Enrollment Confirmation: " + courseTitle,
		HTML:    layout("Enrollment Successful", body),
		Text:    fmt.Sprintf("Dear %s, you have enrolled in %s.", name, courseTitle),
	}
}

func CertificateIssued(to, name, courseTitle, number, grade string) Message {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>.</p>
		<div class="info-box">
			Certificate number: <strong>%s</strong><br>
			Grade: <strong>%s</strong>
		</div>
		<p>You can download your certificate from your dashboard.</p>
	`, html.EscapeString(name), html.EscapeString(courseTitle), number, grade)

	return Message{
		To:      to,
		ToName:  name,
		Subject: "Course Completion Certificate: " + courseTitle,
		HTML:    layout("Certificate of Completion", body),
		Text:    fmt.Sprintf("Dear %s, your certificate %s for %s is ready.", name, number, courseTitle),
	}
}

func CertificateExpiring(to, name, courseTitle, number string, expiresAt time.Time) Message {
	date := expiresAt.Format("January 2, 2006")
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your certificate <strong>%s</strong> for <strong>%s</strong> expires on <strong>%s</strong>.</p>
		<p>Retake the course to renew it.</p>
	`, html.EscapeString(name), number, html.EscapeString(courseTitle), date)

	return Message{
		To:      to,
		ToName:  name,
		Subject: "Your Apex certificate is expiring soon",
		HTML:    layout("Certificate Expiring Soon", body),
		Text:    fmt.Sprintf("Dear %s, certificate %s expires on %s.", name, number, date),
	}
}

func PaymentReceived(to, name, orderRef, receipt string, amount float64) Message {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your payment of <strong>KES %.2f</strong> for order <strong>%s</strong>.</p>
		<div class="info-box">M-Pesa receipt: <strong>%s</strong></div>
	`, html.EscapeString(name), amount, orderRef, receipt)

	return Message{
		To:      to,
		ToName:  name,
		Subject: "Payment Confirmed: " + orderRef,
		HTML:    layout("Payment Confirmed", body),
		Text:    fmt.Sprintf("Dear %s, payment of KES %.2f for %s received (%s).", name, amount, orderRef, receipt),
	}
}
