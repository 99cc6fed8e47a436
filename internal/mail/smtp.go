package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	gomail "github.com/wneessen/go-mail"

	"github.com/mambagroup/inventory-backend/internal/config"
	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// SMTPMailer sends mail through an SMTP relay, upgrading with STARTTLS when offered.
type SMTPMailer struct {
	host     string
	from     string
	fromName string
	options  []gomail.Option
}

// NewSMTPMailer creates an SMTPMailer from the mail settings.
func NewSMTPMailer(settings *config.MailSettings) (*SMTPMailer, error) {
	if settings.Host == "" {
		return nil, fmt.Errorf("smtp mail provider requires a host")
	}

	port := settings.Port
	if port == 0 {
		port = constants.DefaultSMTPPort
	}

	options := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTimeout(constants.DefaultMailSendTimeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTLSConfig(&tls.Config{ServerName: settings.Host, MinVersion: tls.VersionTLS12}),
	}
	if settings.Username != "" {
		options = append(options,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(settings.Username),
			gomail.WithPassword(settings.Password),
		)
	}

	return &SMTPMailer{
		host:     settings.Host,
		from:     settings.From,
		fromName: settings.FromName,
		options:  options,
	}, nil
}

// Send delivers msg and returns once the server accepted it.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	msg, err := prepare(msg, m.from)
	if err != nil {
		return err
	}

	mm, err := buildMessage(msg, m.fromName, time.Now())
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(m.host, m.options...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}

	log.Info().
		Str("provider", constants.MailProviderSMTP).
		Str("to", utils.MaskEmail(msg.To)).
		Str("subject", msg.Subject).
		Msg("Email sent")

	return nil
}

// buildMessage turns msg into an HTML mail with encoded headers.
func buildMessage(msg Message, fromName string, now time.Time) (*gomail.Msg, error) {
	mm := gomail.NewMsg()

	var err error
	if fromName != "" {
		err = mm.FromFormat(sanitizeHeader(fromName), msg.From)
	} else {
		err = mm.From(msg.From)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: from: %v", ErrInvalidAddress, err)
	}
	if err := mm.To(msg.To); err != nil {
		return nil, fmt.Errorf("%w: to: %v", ErrInvalidAddress, err)
	}
	if msg.ReplyTo != "" {
		if err := mm.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("%w: reply-to: %v", ErrInvalidAddress, err)
		}
	}

	mm.Subject(sanitizeHeader(msg.Subject))
	mm.SetDateWithValue(now)
	mm.SetMessageID()
	mm.SetBodyString(gomail.TypeTextHTML, msg.HTML)

	return mm, nil
}

// sanitizeHeader strips line breaks so user input cannot inject headers.
func sanitizeHeader(value string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(value)
}
