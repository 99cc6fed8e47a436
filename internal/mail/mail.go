// Package mail delivers outbound email for password resets and the contact form.
//
// A Mailer is selected by configuration: SMTP for production, SendGrid as a
// hosted alternative and a logging sink for local development.
package mail

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mambagroup/inventory-backend/internal/config"
	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

var (
	// ErrNoRecipient is returned when a message has no To address.
	ErrNoRecipient = errors.New("mail: message has no recipient")

	// ErrInvalidAddress is returned when an address does not parse or spans lines.
	ErrInvalidAddress = errors.New("mail: invalid address")
)

// Message is a single HTML email.
type Message struct {
	Subject string
	HTML    string
	To      string
	From    string
	ReplyTo string
}

// Mailer sends a message and waits for the provider to accept it.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns the Mailer configured by settings.Provider.
func New(settings *config.MailSettings) (Mailer, error) {
	switch settings.Provider {
	case constants.MailProviderSMTP:
		return NewSMTPMailer(settings)
	case constants.MailProviderSendGrid:
		return NewSendGridMailer(settings)
	case constants.MailProviderLog, "":
		return NewLogMailer(settings.From), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", settings.Provider)
	}
}

// prepare fills the sender and checks every address header.
func prepare(msg Message, defaultFrom string) (Message, error) {
	if msg.To == "" {
		return msg, ErrNoRecipient
	}
	if msg.From == "" {
		msg.From = defaultFrom
	}

	var err error
	if msg.To, err = checkAddress("to", msg.To); err != nil {
		return msg, err
	}
	if msg.From, err = checkAddress("from", msg.From); err != nil {
		return msg, err
	}
	if msg.ReplyTo != "" {
		if msg.ReplyTo, err = checkAddress("reply-to", msg.ReplyTo); err != nil {
			return msg, err
		}
	}
	return msg, nil
}

// checkAddress returns the bare address of value.
func checkAddress(field, value string) (string, error) {
	if strings.ContainsAny(value, "\r\n") {
		return "", fmt.Errorf("%w: %s contains a line break", ErrInvalidAddress, field)
	}
	addr, err := netmail.ParseAddress(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidAddress, field, err)
	}
	return addr.Address, nil
}

// LogMailer writes messages to the log instead of sending them.
// The body is never logged since reset links carry secrets.
type LogMailer struct {
	from string
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(from string) *LogMailer {
	return &LogMailer{from: from}
}

// Send logs the envelope of msg.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	msg, err := prepare(msg, m.from)
	if err != nil {
		return err
	}

	log.Info().
		Str("provider", constants.MailProviderLog).
		Str("to", utils.MaskEmail(msg.To)).
		Str("from", msg.From).
		Str("reply_to", utils.MaskEmail(msg.ReplyTo)).
		Str("subject", msg.Subject).
		Int("body_length", len(msg.HTML)).
		Msg("Email not delivered, log mail provider in use")

	return nil
}
