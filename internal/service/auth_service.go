package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mambagroup/inventory-backend/internal/auth"
	"github.com/mambagroup/inventory-backend/internal/config"
	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/mail"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/mambagroup/inventory-backend/internal/repository"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// AuthService handles authentication and the credential lifecycle
type AuthService struct {
	userRepo    repository.UserRepository
	resetRepo   repository.PasswordResetRepository
	tokens      auth.TokenIssuer
	mailer      mail.Mailer
	passwordCfg *auth.PasswordConfig
	resetTTL    time.Duration
	clientURL   string
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	tokens auth.TokenIssuer,
	mailer mail.Mailer,
	passwordCfg *auth.PasswordConfig,
	resetCfg *config.PasswordResetSettings,
	clientURL string,
) *AuthService {
	ttl := resetCfg.TokenTTL
	if ttl <= 0 {
		ttl = constants.DefaultResetTokenTTL
	}
	return &AuthService{
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		tokens:      tokens,
		mailer:      mailer,
		passwordCfg: passwordCfg,
		resetTTL:    ttl,
		clientURL:   strings.TrimRight(clientURL, "/"),
	}
}

// Register creates a new account and signs the user in.
// The returned time is the expiry of the session token.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, time.Time, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, time.Time{}, utils.NewValidationError("name", constants.MsgMissingRegisterFields)
	}
	if err := utils.ValidateEmail("email", req.Email); err != nil {
		return nil, time.Time{}, err
	}
	if err := utils.ValidatePassword("password", req.Password); err != nil {
		return nil, time.Time{}, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		utils.LogAuth(constants.LogEventRegister, "", req.Email, false, "email taken")
		return nil, time.Time{}, utils.NewConflictError("email", constants.MsgEmailRegistered)
	}

	passwordHash, salt, err := auth.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(req.Name, req.Email)
	user.PasswordHash = passwordHash
	user.Salt = salt

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Two registrations raced past ExistsByEmail; the unique index decides.
		if utils.IsDuplicateError(err) {
			return nil, time.Time{}, utils.NewConflictError("email", constants.MsgEmailRegistered)
		}
		return nil, time.Time{}, fmt.Errorf("failed to create user: %w", err)
	}

	token, expiresAt, err := s.tokens.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	utils.LogAuth(constants.LogEventRegister, user.ID, user.Email, true, "")

	return &models.AuthResponse{Profile: user.Profile(), Token: token}, expiresAt, nil
}

// Login verifies credentials and issues a session token.
// No token is created unless the password matches.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, time.Time, error) {
	if req.Email == "" || req.Password == "" {
		return nil, time.Time{}, utils.NewValidationError("email", constants.MsgMissingLoginFields)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth(constants.LogEventLogin, "", req.Email, false, "user not found")
			return nil, time.Time{}, utils.NewNotFoundMessage(constants.MsgUserNotFoundSignUp)
		}
		return nil, time.Time{}, fmt.Errorf("failed to get user: %w", err)
	}

	match, err := auth.VerifyPassword(req.Password, user.PasswordHash, user.Salt, s.passwordCfg)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		utils.LogAuth(constants.LogEventLogin, user.ID, user.Email, false, "invalid password")
		return nil, time.Time{}, utils.NewInvalidCredentialsError(constants.MsgInvalidPassword)
	}

	token, expiresAt, err := s.tokens.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	utils.LogAuth(constants.LogEventLogin, user.ID, user.Email, true, "")

	return &models.AuthResponse{Profile: user.Profile(), Token: token}, expiresAt, nil
}

// LoginStatus reports whether token is a valid session token. It never fails.
func (s *AuthService) LoginStatus(token string) bool {
	if token == "" {
		return false
	}
	_, err := s.tokens.ValidateToken(token)
	return err == nil
}

// GetProfile returns the public profile of a user
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

// UpdateProfile saves the editable profile fields. Empty fields keep their
// stored value and the email can not be changed.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = utils.FirstNonEmpty(req.Name, user.Name)
	user.Phone = utils.FirstNonEmpty(req.Phone, user.Phone)
	user.Bio = utils.FirstNonEmpty(req.Bio, user.Bio)
	user.Photo = utils.FirstNonEmpty(req.Photo, user.Photo)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	utils.LogAuth(constants.LogEventUserUpdate, user.ID, user.Email, true, "")

	profile := user.Profile()
	return &profile, nil
}

// ChangePassword replaces the password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if req.OldPassword == "" || req.Password == "" {
		return utils.NewValidationError("password", constants.MsgMissingPasswords)
	}
	if err := utils.ValidatePassword("password", req.Password); err != nil {
		return err
	}

	match, err := auth.VerifyPassword(req.OldPassword, user.PasswordHash, user.Salt, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		utils.LogAuth(constants.LogEventPasswordChange, user.ID, user.Email, false, "old password incorrect")
		return utils.NewInvalidCredentialsError(constants.MsgOldPasswordIncorrect)
	}

	if err := s.setPassword(ctx, user.ID, req.Password); err != nil {
		return err
	}

	utils.LogAuth(constants.LogEventPasswordChange, user.ID, user.Email, true, "")
	return nil
}

// RequestPasswordReset replaces any outstanding reset token for the account
// and emails a link carrying the new one. The mail is sent before returning.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return utils.NewNotFoundMessage(constants.MsgUserDoesNotExist)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth(constants.LogEventResetRequested, "", email, false, "user not found")
			return utils.NewNotFoundMessage(constants.MsgUserDoesNotExist)
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.resetRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to clear previous reset tokens: %w", err)
	}

	plain, hash, err := repository.GenerateToken(user.ID)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.resetRepo.Create(ctx, user.ID, hash, s.resetTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	body, err := renderResetEmail(resetEmailData{
		Name:     user.Name,
		ResetURL: s.clientURL + "/resetpassword/" + plain,
		Minutes:  int(s.resetTTL / time.Minute),
	})
	if err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}

	err = s.mailer.Send(ctx, mail.Message{
		Subject: constants.MsgPasswordResetSubject,
		HTML:    body,
		To:      user.Email,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Password reset email could not be delivered")
		return utils.NewDeliveryError(err)
	}

	utils.LogAuth(constants.LogEventResetRequested, user.ID, user.Email, true, "")
	return nil
}

// ResetPassword sets a new password for the owner of an unexpired reset token.
// The token is consumed on success.
func (s *AuthService) ResetPassword(ctx context.Context, plainToken, password string) error {
	if password == "" {
		return utils.NewValidationError("password", constants.MsgPasswordTooShort)
	}
	if err := utils.ValidatePassword("password", password); err != nil {
		return err
	}

	hash := auth.HashToken(plainToken)
	userID, err := s.resetRepo.GetUserIDByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return utils.NewInvalidResetTokenError()
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	if err := s.setPassword(ctx, userID, password); err != nil {
		if utils.IsNotFoundError(err) {
			return utils.NewInvalidResetTokenError()
		}
		return err
	}

	if err := s.resetRepo.Delete(ctx, hash); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	utils.LogAuth(constants.LogEventPasswordReset, userID, "", true, "")
	return nil
}

// getUser loads a user, translating a missing row into the client message
func (s *AuthService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return nil, utils.NewNotFoundMessage(constants.MsgUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// setPassword hashes password with a fresh salt and stores it
func (s *AuthService) setPassword(ctx context.Context, userID, password string) error {
	passwordHash, salt, err := auth.HashPassword(password, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.ChangePassword(ctx, userID, passwordHash, salt); err != nil {
		if utils.IsNotFoundError(err) {
			return err
		}
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// CleanupExpiredResetTokens removes reset tokens past their expiry.
func (s *AuthService) CleanupExpiredResetTokens(ctx context.Context) (int64, error) {
	count, err := s.resetRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	return count, nil
}
