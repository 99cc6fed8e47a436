package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mambagroup/inventory-backend/internal/constants"
)

// User represents a registered account of the inventory application.
// It contains authentication information and the editable profile.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Salt         string    `json:"-" db:"salt"`
	Photo        string    `json:"photo" db:"photo"`
	Phone        string    `json:"phone" db:"phone"`
	Bio          string    `json:"bio" db:"bio"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser creates a User with a fresh id and the default profile.
// Password fields are populated later during the registration process.
func NewUser(name, email string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Photo:     constants.DefaultUserPhoto,
		Phone:     constants.DefaultUserPhone,
		Bio:       constants.DefaultUserBio,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TableName returns the database table name for the User model.
func (u *User) TableName() string {
	return constants.TableUsers
}

// Profile returns the fields that are safe to send to clients.
func (u *User) Profile() Profile {
	return Profile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Photo: u.Photo,
		Phone: u.Phone,
		Bio:   u.Bio,
	}
}

// Profile is the public view of a user.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
	Phone string `json:"phone"`
	Bio   string `json:"bio"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Profile
	Token string `json:"token"`
}

// RegisterRequest represents the data required for registration.
// Presence and length are checked by the service so the messages match the
// rest of the auth flow.
type RegisterRequest struct {
	Name     string `json:"name" validate:"omitempty,user_name"`
	Email    string `json:"email" validate:"omitempty,user_email"`
	Password string `json:"password"`
}

// LoginRequest represents the login credentials provided by a user.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the editable profile fields.
// Empty values keep what is stored.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"omitempty,user_name"`
	Phone string `json:"phone" validate:"omitempty,phone"`
	Bio   string `json:"bio" validate:"omitempty,user_bio"`
	Photo string `json:"photo" validate:"omitempty,url"`
}

// ChangePasswordRequest is the body of the change password endpoint.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	Password    string `json:"password"`
}
