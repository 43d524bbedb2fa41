// Package notify fans out email notifications when a new recipe is posted.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hungerhelp/hungerhelp/internal/interfaces"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"golang.org/x/time/rate"
)

// Sender delivers a single email. Satisfied by the SendGrid client; tests
// substitute their own.
type Sender interface {
	Send(ctx context.Context, toEmail, subject, htmlBody string) error
}

// SendGridSender delivers mail through the SendGrid API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridSender(apiKey, fromEmail string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("HungerHelp", fromEmail),
	}
}

func (s *SendGridSender) Send(ctx context.Context, toEmail, subject, htmlBody string) error {
	to := mail.NewEmail("", toEmail)
	msg := mail.NewSingleEmail(s.from, subject, to, "", htmlBody)

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// Mailer sends the new-post announcement to every account that opted into
// notifications. Sends are paced with a token bucket so a large user base
// does not burst through the provider's limits.
type Mailer struct {
	sender  Sender
	users   interfaces.UserRepository
	limiter *rate.Limiter
	baseURL string
}

// NewMailer paces sends at perSecond with a burst of one.
func NewMailer(sender Sender, users interfaces.UserRepository, perSecond float64, baseURL string) *Mailer {
	return &Mailer{
		sender:  sender,
		users:   users,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		baseURL: baseURL,
	}
}

const announceSubject = "Hello From HungerHelp!"

// AnnouncePost emails all opted-in accounts about a new blog post. Delivery
// failures are logged per recipient and never abort the fan-out.
func (m *Mailer) AnnouncePost(ctx context.Context) error {
	recipients, err := m.users.ListNotifiable(ctx)
	if err != nil {
		return fmt.Errorf("listing notifiable users: %w", err)
	}

	body := fmt.Sprintf(`<html><body>`+
		`<h1>A new recipe has been posted on our blog!</h1>`+
		`<p>Click the link below to check it out:</p>`+
		`<p><a href="%s/blog_home">View Blog</a></p>`+
		`<p>Thank you for reading!</p>`+
		`</body></html>`, m.baseURL)

	for _, u := range recipients {
		if err := m.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := m.sender.Send(ctx, u.Email, announceSubject, body); err != nil {
			slog.Error("notification send failed", "email", u.Email, "error", err)
			continue
		}
	}
	return nil
}
