package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/mambagroup/inventory-backend/internal/repository"
	"github.com/mambagroup/inventory-backend/internal/storage"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// ProductService manages the products of a user and their images
type ProductService struct {
	repo          repository.ProductRepository
	images        storage.ImageStore
	maxUploadSize int64
}

// NewProductService creates a new ProductService
func NewProductService(repo repository.ProductRepository, images storage.ImageStore, maxUploadSize int64) *ProductService {
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSize
	}
	return &ProductService{
		repo:          repo,
		images:        images,
		maxUploadSize: maxUploadSize,
	}
}

// Create stores a new product for userID with an optional image
func (s *ProductService) Create(ctx context.Context, userID string, in models.ProductInput, upload *models.ImageUpload) (*models.Product, error) {
	if !in.IsComplete() {
		return nil, utils.NewValidationError("name", constants.MsgMissingProductFields)
	}
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}

	product := models.NewProduct(userID, in)

	if upload != nil {
		image, err := s.uploadImage(ctx, userID, upload)
		if err != nil {
			return nil, err
		}
		product.Image = image
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.discardImage(ctx, product.Image)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// List returns the products of userID, newest first
func (s *ProductService) List(ctx context.Context, userID string) ([]*models.Product, error) {
	products, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get returns a product owned by userID
func (s *ProductService) Get(ctx context.Context, userID, id string) (*models.Product, error) {
	return s.getOwned(ctx, userID, id)
}

// Update overwrites the product fields that are set in the input. The stored
// image is kept unless a new one is uploaded.
func (s *ProductService) Update(ctx context.Context, userID, id string, in models.ProductInput, upload *models.ImageUpload) (*models.Product, error) {
	product, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}

	product.Name = utils.FirstNonEmpty(in.Name, product.Name)
	product.Category = utils.FirstNonEmpty(in.Category, product.Category)
	product.Description = utils.FirstNonEmpty(in.Description, product.Description)
	if in.Quantity > 0 {
		product.Quantity = in.Quantity
	}
	if in.Price > 0 {
		product.Price = in.Price
	}

	previous := product.Image
	if upload != nil {
		image, err := s.uploadImage(ctx, userID, upload)
		if err != nil {
			return nil, err
		}
		product.Image = image
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if upload != nil {
			s.discardImage(ctx, product.Image)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if upload != nil {
		s.discardImage(ctx, previous)
	}

	return product, nil
}

// Delete removes a product owned by userID. Removing its image is best effort.
func (s *ProductService) Delete(ctx context.Context, userID, id string) error {
	product, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.discardImage(ctx, product.Image)
	return nil
}

// getOwned loads a product and checks that userID owns it
func (s *ProductService) getOwned(ctx context.Context, userID, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return nil, utils.NewNotFoundMessage(constants.MsgProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if !product.IsOwnedBy(userID) {
		log.Warn().
			Str("category", constants.LogCategoryProduct).
			Str("product_id", id).
			Str("user_id", userID).
			Msg("Product access denied")
		return nil, utils.NewOwnershipError()
	}

	return product, nil
}

// uploadImage validates and stores an upload
func (s *ProductService) uploadImage(ctx context.Context, userID string, upload *models.ImageUpload) (*models.Image, error) {
	if err := storage.ValidateImage(upload.ContentType, upload.Size, s.maxUploadSize); err != nil {
		if errors.Is(err, storage.ErrNotImage) || errors.Is(err, storage.ErrTooLarge) {
			return nil, utils.NewValidationError("image", constants.MsgInvalidImage)
		}
		return nil, err
	}

	key := storage.ObjectKey(userID, upload.FileName)
	url, err := s.images.Put(ctx, key, upload.ContentType, upload.Body, upload.Size)
	if err != nil {
		return nil, utils.NewUploadError(err)
	}

	return &models.Image{
		FileName: upload.FileName,
		FilePath: url,
		FileType: upload.ContentType,
		FileSize: utils.FormatFileSize(upload.Size, 2),
		Key:      key,
	}, nil
}

// discardImage deletes a stored image, logging failures only
func (s *ProductService) discardImage(ctx context.Context, image *models.Image) {
	if image == nil || image.Key == "" {
		return
	}
	if err := s.images.Delete(ctx, image.Key); err != nil {
		log.Warn().Err(err).Str("key", image.Key).Msg("Failed to delete product image")
	}
}
