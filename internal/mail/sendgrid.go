package mail

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/mambagroup/inventory-backend/internal/config"
	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// sendClient is the part of the SendGrid client used here.
type sendClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer sends mail through the SendGrid v3 API.
type SendGridMailer struct {
	client   sendClient
	from     string
	fromName string
}

// NewSendGridMailer creates a SendGridMailer. An API key is required.
func NewSendGridMailer(settings *config.MailSettings) (*SendGridMailer, error) {
	if settings.SendGridAPIKey == "" {
		return nil, fmt.Errorf("sendgrid api key not set")
	}
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(settings.SendGridAPIKey),
		from:     settings.From,
		fromName: settings.FromName,
	}, nil
}

// Send delivers msg. Any non-2xx response is treated as a failure.
func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	msg, err := prepare(msg, m.from)
	if err != nil {
		return err
	}

	from := sgmail.NewEmail(m.fromName, msg.From)
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(from, msg.Subject, to, plainText(msg.HTML), msg.HTML)
	if msg.ReplyTo != "" {
		message.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send email via SendGrid")
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected message: status %d", response.StatusCode)
	}

	log.Info().
		Str("provider", constants.MailProviderSendGrid).
		Str("to", utils.MaskEmail(msg.To)).
		Int("status_code", response.StatusCode).
		Msg("Email sent")

	return nil
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// plainText derives the text/plain alternative SendGrid requires from an HTML body.
func plainText(html string) string {
	text := strings.Join(strings.Fields(htmlTag.ReplaceAllString(html, " ")), " ")
	if text == "" {
		return " "
	}
	return text
}
