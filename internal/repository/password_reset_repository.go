package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mambagroup/inventory-backend/internal/auth"
	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/database"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

var (
	ErrTokenNotFound = errors.New("token not found or expired")
)

// PasswordResetRepository defines methods for storing single-use reset tokens
type PasswordResetRepository interface {
	Create(ctx context.Context, userID, tokenHash string, ttl time.Duration) error
	GetByUserID(ctx context.Context, userID string) (*models.PasswordResetToken, error)
	GetUserIDByTokenHash(ctx context.Context, tokenHash string) (string, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// SQLPasswordResetRepository handles database operations for password reset tokens.
type SQLPasswordResetRepository struct {
	db *database.Pool
}

// NewPasswordResetRepository creates a new PasswordResetRepository.
func NewPasswordResetRepository(db *database.Pool) PasswordResetRepository {
	return &SQLPasswordResetRepository{db: db}
}

// GenerateToken generates a secure random token for userID and its SHA256 hash.
// It returns the plain token (to be sent to the user) and its hash (to be stored).
func GenerateToken(userID string) (string, string, error) {
	random, err := auth.GenerateHexToken(constants.ResetTokenRandomBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate token bytes: %w", err)
	}

	token := random + userID
	return token, auth.HashToken(token), nil
}

// Create stores a new password reset token hash in the database.
func (r *SQLPasswordResetRepository) Create(ctx context.Context, userID, tokenHash string, ttl time.Duration) error {
	startTime := time.Now()

	now := time.Now()
	expiresAt := now.Add(ttl)
	query := r.db.Rebind(fmt.Sprintf(`
		INSERT INTO %s (token_hash, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, constants.TablePasswordResetTokens))

	_, err := r.db.ExecContext(ctx, query, tokenHash, userID, now, expiresAt)

	utils.LogDBQuery(query, []interface{}{constants.LogRedactedValue, userID, now, expiresAt}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}
	return nil
}

// GetByUserID returns the token currently stored for a user, expired or not.
func (r *SQLPasswordResetRepository) GetByUserID(ctx context.Context, userID string) (*models.PasswordResetToken, error) {
	startTime := time.Now()

	query := r.db.Rebind(fmt.Sprintf(`
		SELECT token_hash, user_id, created_at, expires_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, constants.TablePasswordResetTokens))

	token := &models.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&token.TokenHash, &token.UserID, &token.CreatedAt, &token.ExpiresAt)

	utils.LogDBQuery(query, []interface{}{userID}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to query password reset token: %w", err)
	}

	return token, nil
}

// GetUserIDByTokenHash retrieves the owner of an unexpired token.
// It returns ErrTokenNotFound if the token doesn't exist or is expired.
func (r *SQLPasswordResetRepository) GetUserIDByTokenHash(ctx context.Context, tokenHash string) (string, error) {
	startTime := time.Now()

	query := r.db.Rebind(fmt.Sprintf(`
		SELECT user_id
		FROM %s
		WHERE token_hash = $1 AND expires_at > $2
	`, constants.TablePasswordResetTokens))

	now := time.Now()
	var userID string
	err := r.db.QueryRowContext(ctx, query, tokenHash, now).Scan(&userID)

	utils.LogDBQuery(query, []interface{}{constants.LogRedactedValue, now}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to query password reset token: %w", err)
	}

	return userID, nil
}

// Delete removes a password reset token hash from the database.
// Deleting a token that is already gone is not an error.
func (r *SQLPasswordResetRepository) Delete(ctx context.Context, tokenHash string) error {
	query := r.db.Rebind(fmt.Sprintf("DELETE FROM %s WHERE token_hash = $1", constants.TablePasswordResetTokens))

	startTime := time.Now()
	_, err := r.db.ExecContext(ctx, query, tokenHash)
	utils.LogDBQuery(query, []interface{}{constants.LogRedactedValue}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to delete password reset token: %w", err)
	}
	return nil
}

// DeleteByUserID removes all password reset tokens for a specific user.
func (r *SQLPasswordResetRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := r.db.Rebind(fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", constants.TablePasswordResetTokens))

	startTime := time.Now()
	_, err := r.db.ExecContext(ctx, query, userID)
	utils.LogDBQuery(query, []interface{}{userID}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to delete password reset tokens for user %s: %w", userID, err)
	}
	return nil
}

// DeleteExpired purges tokens whose expiry has passed and reports how many were removed.
func (r *SQLPasswordResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := r.db.Rebind(fmt.Sprintf("DELETE FROM %s WHERE expires_at <= $1", constants.TablePasswordResetTokens))

	startTime := time.Now()
	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, now)
	utils.LogDBQuery(query, []interface{}{now}, time.Since(startTime), err)

	if err != nil {
		return 0, fmt.Errorf("failed to delete expired password reset tokens: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}
