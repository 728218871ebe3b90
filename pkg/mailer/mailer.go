package mailer

import (
	"context"
	"fmt"

	"github.com/cabinetrenov/renov-api/pkg/httpclient"
	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Message is a single transactional mail.
type Message struct {
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

// Sender delivers a message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendSender sends mails through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender using the given API key and From address.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewCustomClient(httpclient.New("resend", sendTimeout), apiKey),
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mail has no recipient")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if msg.ReplyTo != "" {
		params.ReplyTo = msg.ReplyTo
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	logger.Info("Mail sent",
		zap.String("message_id", sent.Id),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// LogSender only logs mails. Used when no provider key is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	logger.Info("Mail delivery disabled, logging instead",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// NewSender picks the Resend sender when an API key is set, the log sender otherwise.
func NewSender(apiKey, from string) Sender {
	if apiKey == "" {
		return LogSender{}
	}
	return NewResendSender(apiKey, from)
}
