// Package email sends transactional notifications through SendGrid.
package email

import (
	"log"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a single message.
type Mailer interface {
	Send(msg Message) error
}

// SendGrid delivers through the SendGrid v3 API.
type SendGrid struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendGrid(apiKey, senderName, senderEmail string) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(senderName, senderEmail),
	}
}

func (s *SendGrid) Send(msg Message) error {
	to := sgmail.NewEmail(msg.ToName, msg.To)
	m := sgmail.NewSingleEmail(s.from, msg.Subject, to, msg.Text, msg.HTML)

	res, err := s.client.Send(m)
	if err != nil {
		return errors.Wrap(err, "sendgrid send")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid send: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// Console logs messages instead of sending them. Used when no API key is
// configured.
type Console struct{}

func (Console) Send(msg Message) error {
	log.Printf("[EMAIL] To: %s Subject: %s", msg.To, msg.Subject)
	return nil
}

// New picks SendGrid when an API key is set.
func New(apiKey, senderName, senderEmail string) Mailer {
	if apiKey == "" {
		log.Println("[EMAIL] SENDGRID_API_KEY not set, emails will be logged only")
		return Console{}
	}
	return NewSendGrid(apiKey, senderName, senderEmail)
}

// SendAsync sends in the background; failures are logged.
func SendAsync(m Mailer, msg Message) {
	if m == nil || msg.To == "" {
		return
	}
	go func() {
		if err := m.Send(msg); err != nil {
			log.Printf("[EMAIL] Error sending %q to %s: %v", msg.Subject, msg.To, err)
			return
		}
		log.Printf("[EMAIL] Sent %q to %s", msg.Subject, msg.To)
	}()
}
