package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
	"github.com/vaibhavguptahere/smacad-test/internal/validation"
)

var ErrEmailNotConfigured = errors.New("email service not configured (missing RESEND_API_KEY)")

type EmailService struct {
	client      *resend.Client
	fromEmail   string
	notifyEmail string
	isDev       bool
	appURL      string
	appName     string
}

func NewEmailService(apiKey, fromEmail, notifyEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:      client,
		fromEmail:   fromEmail,
		notifyEmail: notifyEmail,
		isDev:       isDev,
		appURL:      appURL,
		appName:     appName,
	}
}

// NotifyContact tells the site owner about a new contact message. It is a
// no-op when no notification address is configured.
func (s *EmailService) NotifyContact(ctx context.Context, contact *model.Contact) error {
	if s.notifyEmail == "" {
		return nil
	}

	inboxURL := strings.TrimSuffix(s.appURL, "/") + "/admin"
	subject, body := contactNotificationTemplate(contact, inboxURL, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "contact_notification", "to", s.notifyEmail, "subject", subject, "contact_id", contact.ID)
		return nil
	}

	if s.client == nil {
		return ErrEmailNotConfigured
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{s.notifyEmail},
		Subject: subject,
		Text:    body,
	}
	// Contact emails are free text; only reply to something that parses.
	if validation.ValidateEmail(contact.Email) == nil {
		params.ReplyTo = contact.Email
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", "contact_notification", "to", s.notifyEmail, "contact_id", contact.ID)
	}
	return err
}
