package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer emails the affected user about an action on their account. Events
// without a known email address are skipped silently.
type Mailer struct {
	apiKey   string
	fromName string
	fromAddr string
}

func NewMailer(apiKey, fromName, fromAddr string) *Mailer {
	return &Mailer{apiKey: apiKey, fromName: fromName, fromAddr: fromAddr}
}

func (m *Mailer) Notify(ctx context.Context, ev Event) error {
	if ev.Email == "" {
		return nil
	}

	subject := "Action taken on your account"
	body := fmt.Sprintf(
		"Your account has received a %s following repeated violations of our community guidelines.\n\n"+
			"This %s lifts automatically after its time window has passed. If you believe this was a "+
			"mistake, reply to this email and the support team will review it manually.\n",
		ev.Action, ev.Action,
	)

	from := mail.NewEmail(m.fromName, m.fromAddr)
	to := mail.NewEmail("", ev.Email)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
