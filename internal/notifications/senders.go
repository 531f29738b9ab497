package notifications

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"

	"github.com/sakani-app/sakani-backend/pkg/config"
)

// PushSender delivers a push notification to a single device token.
type PushSender interface {
	SendPush(ctx context.Context, token, title, body string, data map[string]string) error
}

// EmailSender delivers a transactional email to a single recipient.
type EmailSender interface {
	SendEmail(ctx context.Context, toEmail, toName, subject, body string) error
}

type fcmSender struct {
	client *messaging.Client
}

// NewFCMSender builds a push sender backed by Firebase Cloud Messaging.
func NewFCMSender(ctx context.Context, cfg config.NotifyConfig) (PushSender, error) {
	if !cfg.PushEnabled() {
		return nil, fmt.Errorf("firebase credentials not configured")
	}
	app, err := firebase.NewApp(ctx,
		&firebase.Config{ProjectID: cfg.FirebaseProjectID},
		option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON)),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize messaging client: %w", err)
	}
	return &fcmSender{client: client}, nil
}

func (s *fcmSender) SendPush(ctx context.Context, token, title, body string, data map[string]string) error {
	if token == "" {
		return fmt.Errorf("push token empty")
	}
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	return err
}

type sendgridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewSendgridSender builds an email sender backed by SendGrid.
func NewSendgridSender(cfg config.NotifyConfig) (EmailSender, error) {
	if !cfg.EmailEnabled() {
		return nil, fmt.Errorf("sendgrid api key not configured")
	}
	return &sendgridSender{
		client:    sendgrid.NewSendClient(cfg.SendgridAPIKey),
		fromEmail: cfg.SendgridFromEmail,
		fromName:  cfg.SendgridFromName,
	}, nil
}

func (s *sendgridSender) SendEmail(ctx context.Context, toEmail, toName, subject, body string) error {
	if toEmail == "" {
		return fmt.Errorf("recipient email empty")
	}
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	email := mail.NewSingleEmail(from, subject, to, body, "")

	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
