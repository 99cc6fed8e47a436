package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mambagroup/inventory-backend/internal/config"
	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/mail"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/mambagroup/inventory-backend/internal/repository"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// ContactService relays contact form messages to the support inbox
type ContactService struct {
	userRepo  repository.UserRepository
	mailer    mail.Mailer
	recipient string
	from      string
}

// NewContactService creates a new ContactService
func NewContactService(userRepo repository.UserRepository, mailer mail.Mailer, mailCfg *config.MailSettings) *ContactService {
	return &ContactService{
		userRepo:  userRepo,
		mailer:    mailer,
		recipient: mailCfg.ContactAddress,
		from:      mailCfg.From,
	}
}

// Send emails the message on behalf of userID. Replies go to the user.
func (s *ContactService) Send(ctx context.Context, userID string, req *models.ContactRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return utils.NewNotFoundMessage(constants.MsgUserNotFoundSignUp)
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if req.Subject == "" || req.Message == "" {
		return utils.NewValidationError("subject", constants.MsgMissingContactFields)
	}

	body, err := renderContactEmail(contactEmailData{
		Name:    user.Name,
		Email:   user.Email,
		Message: req.Message,
	})
	if err != nil {
		return fmt.Errorf("failed to render contact email: %w", err)
	}

	err = s.mailer.Send(ctx, mail.Message{
		Subject: req.Subject,
		HTML:    body,
		To:      s.recipient,
		From:    s.from,
		ReplyTo: user.Email,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Contact email could not be delivered")
		return utils.NewDeliveryError(err)
	}

	log.Info().
		Str("category", constants.LogCategoryUser).
		Str("user_id", user.ID).
		Msg("Contact message relayed")

	return nil
}
