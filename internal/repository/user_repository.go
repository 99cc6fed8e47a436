package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/database"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// UserRepository defines methods for interacting with user data
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ChangePassword(ctx context.Context, id string, passwordHash, salt string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// SQLUserRepository is a database/sql implementation of UserRepository
type SQLUserRepository struct {
	db *database.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Pool) UserRepository {
	return &SQLUserRepository{
		db: db,
	}
}

const userColumns = `id, name, email, password_hash, salt, photo, phone, bio, created_at, updated_at`

func scanUser(row interface {
	Scan(dest ...interface{}) error
}) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Salt,
		&user.Photo,
		&user.Phone,
		&user.Bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// Create adds a new user to the database
func (r *SQLUserRepository) Create(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := r.db.Rebind(`
        INSERT INTO users (` + userColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `)

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Salt,
		user.Photo,
		user.Phone,
		user.Bio,
		user.CreatedAt,
		user.UpdatedAt,
	)

	utils.LogDBQuery(
		query,
		[]interface{}{user.ID, user.Name, user.Email, constants.LogRedactedValue, constants.LogRedactedValue},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if utils.IsUniqueViolation(err) {
			return utils.NewDuplicateError("User", "email", user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().
		Str("category", constants.LogCategoryUser).
		Str("user_id", user.ID).
		Str("email", utils.MaskEmail(user.Email)).
		Msg("User created")

	return nil
}

// GetByID retrieves a user by ID
func (r *SQLUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	startTime := time.Now()

	query := r.db.Rebind(`
        SELECT ` + userColumns + `
        FROM users
        WHERE id = $1
    `)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email. Emails are compared exactly.
func (r *SQLUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	startTime := time.Now()

	query := r.db.Rebind(`
        SELECT ` + userColumns + `
        FROM users
        WHERE email = $1
    `)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))

	utils.LogDBQuery(query, []interface{}{utils.MaskEmail(email)}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", fmt.Sprintf("email=%s", email))
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// Update saves the profile fields of a user. Email and credentials are not touched.
func (r *SQLUserRepository) Update(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	user.UpdatedAt = time.Now()

	query := r.db.Rebind(`
        UPDATE users
        SET name = $1, photo = $2, phone = $3, bio = $4, updated_at = $5
        WHERE id = $6
    `)

	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Name,
		user.Photo,
		user.Phone,
		user.Bio,
		user.UpdatedAt,
		user.ID,
	)

	utils.LogDBQuery(
		query,
		[]interface{}{user.Name, user.Photo, user.Phone, user.Bio, user.UpdatedAt, user.ID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if err := expectAffected(result, "User", user.ID); err != nil {
		return err
	}

	log.Info().
		Str("category", constants.LogCategoryUser).
		Str("user_id", user.ID).
		Msg("User profile updated")

	return nil
}

// ChangePassword updates a user's password hash and salt
func (r *SQLUserRepository) ChangePassword(ctx context.Context, id string, passwordHash, salt string) error {
	startTime := time.Now()

	query := r.db.Rebind(`
        UPDATE users
        SET password_hash = $1, salt = $2, updated_at = $3
        WHERE id = $4
    `)

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, passwordHash, salt, now, id)

	utils.LogDBQuery(
		query,
		[]interface{}{constants.LogRedactedValue, constants.LogRedactedValue, now, id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	if err := expectAffected(result, "User", id); err != nil {
		return err
	}

	log.Info().
		Str("category", constants.LogCategoryUser).
		Str("user_id", id).
		Msg("User password changed")

	return nil
}

// ExistsByEmail checks if a user with the given email exists
func (r *SQLUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	startTime := time.Now()

	query := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE email = $1`)

	var count int64
	err := r.db.QueryRowContext(ctx, query, email).Scan(&count)

	utils.LogDBQuery(query, []interface{}{utils.MaskEmail(email)}, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return count > 0, nil
}

// Count returns the number of registered users
func (r *SQLUserRepository) Count(ctx context.Context) (int64, error) {
	startTime := time.Now()

	query := `SELECT COUNT(*) FROM users`

	var count int64
	err := r.db.QueryRowContext(ctx, query).Scan(&count)

	utils.LogDBQuery(query, nil, time.Since(startTime), err)

	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// expectAffected turns an update that matched no rows into a not found error
func expectAffected(result sql.Result, resourceType string, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError(resourceType, id)
	}

	return nil
}
