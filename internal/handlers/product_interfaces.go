package handlers

import (
	"context"

	"github.com/mambagroup/inventory-backend/internal/models"
)

// ProductServiceInterface defines the methods required from the product service.
type ProductServiceInterface interface {
	Create(ctx context.Context, userID string, in models.ProductInput, upload *models.ImageUpload) (*models.Product, error)
	List(ctx context.Context, userID string) ([]*models.Product, error)
	Get(ctx context.Context, userID, id string) (*models.Product, error)
	Update(ctx context.Context, userID, id string, in models.ProductInput, upload *models.ImageUpload) (*models.Product, error)
	Delete(ctx context.Context, userID, id string) error
}

// ContactServiceInterface defines the methods required from the contact service.
type ContactServiceInterface interface {
	Send(ctx context.Context, userID string, req *models.ContactRequest) error
}
