package models

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/mambagroup/inventory-backend/internal/constants"
)

// Product is an inventory item owned by a single user.
type Product struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	SKU         string    `json:"sku" db:"sku"`
	Category    string    `json:"category" db:"category"`
	Quantity    int64     `json:"quantity" db:"quantity"`
	Price       float64   `json:"price" db:"price"`
	Description string    `json:"description" db:"description"`
	Image       *Image    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Image describes a stored product picture.
type Image struct {
	FileName string `json:"file_name" db:"image_file_name"`
	FilePath string `json:"file_path" db:"image_file_path"`
	FileType string `json:"file_type" db:"image_file_type"`
	FileSize string `json:"file_size" db:"image_file_size"`
	// Key locates the object in the image store; it is not exposed.
	Key string `json:"-" db:"image_key"`
}

// NewProduct creates a product for userID from the validated input.
func NewProduct(userID string, in ProductInput) *Product {
	now := time.Now()
	sku := in.SKU
	if sku == "" {
		sku = constants.DefaultSKU
	}
	return &Product{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        in.Name,
		SKU:         sku,
		Category:    in.Category,
		Quantity:    in.Quantity,
		Price:       in.Price,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TableName returns the database table name for the Product model.
func (p *Product) TableName() string {
	return constants.TableProducts
}

// IsOwnedBy reports whether userID owns the product.
func (p *Product) IsOwnedBy(userID string) bool {
	return p.UserID == userID
}

// ProductInput holds the form fields accepted on create and update.
type ProductInput struct {
	Name        string  `json:"name" validate:"omitempty,max=200"`
	SKU         string  `json:"sku" validate:"omitempty,max=100"`
	Category    string  `json:"category" validate:"omitempty,max=100"`
	Quantity    int64   `json:"quantity" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
}

// IsComplete reports whether every required field is present.
func (in ProductInput) IsComplete() bool {
	return in.Name != "" && in.Category != "" && in.Quantity > 0 && in.Price > 0 && in.Description != ""
}

// ImageUpload is an image attached to a product request.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ContactRequest is the body of the contact form.
type ContactRequest struct {
	Subject string `json:"subject" validate:"omitempty,contact_subject"`
	Message string `json:"message"`
}
