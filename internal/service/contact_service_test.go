package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mambagroup/inventory-backend/internal/config"
	"github.com/mambagroup/inventory-backend/internal/models"
)

func newContactFixture(t *testing.T) (*ContactService, *recordingMailer, *models.User) {
	t.Helper()

	users := NewMockUserRepository()
	user := models.NewUser("Jane", "jane@example.com")
	require.NoError(t, users.Create(context.Background(), user))

	mailer := &recordingMailer{}
	svc := NewContactService(users, mailer, &config.MailSettings{
		From:           "noreply@example.com",
		ContactAddress: "support@example.com",
	})
	return svc, mailer, user
}

func TestContactService_Send(t *testing.T) {
	svc, mailer, user := newContactFixture(t)

	err := svc.Send(context.Background(), user.ID, &models.ContactRequest{
		Subject: "Stock question",
		Message: "When is the <b>next</b> delivery?",
	})

	require.NoError(t, err)
	msg, ok := mailer.last()
	require.True(t, ok)
	assert.Equal(t, "Stock question", msg.Subject)
	assert.Equal(t, "support@example.com", msg.To)
	assert.Equal(t, "noreply@example.com", msg.From)
	assert.Equal(t, "jane@example.com", msg.ReplyTo)
	assert.Contains(t, msg.HTML, "When is the &lt;b&gt;next&lt;/b&gt; delivery?")
	assert.Contains(t, msg.HTML, "Jane")
}

func TestContactService_Send_MissingFields(t *testing.T) {
	svc, mailer, user := newContactFixture(t)

	err := svc.Send(context.Background(), user.ID, &models.ContactRequest{Subject: "Only subject"})
	assertAppError(t, err, 400, "Please add subject and message")

	err = svc.Send(context.Background(), user.ID, &models.ContactRequest{Message: "Only message"})
	assertAppError(t, err, 400, "Please add subject and message")

	_, sent := mailer.last()
	assert.False(t, sent)
}

func TestContactService_Send_UnknownUser(t *testing.T) {
	svc, _, _ := newContactFixture(t)

	err := svc.Send(context.Background(), "missing", &models.ContactRequest{Subject: "s", Message: "m"})
	assertAppError(t, err, 404, "User not found, please sign up")
}

func TestContactService_Send_DeliveryFailure(t *testing.T) {
	svc, mailer, user := newContactFixture(t)
	mailer.err = errors.New("relay refused")

	err := svc.Send(context.Background(), user.ID, &models.ContactRequest{Subject: "s", Message: "m"})
	assertAppError(t, err, 500, "Email not sent, please try again")
}
