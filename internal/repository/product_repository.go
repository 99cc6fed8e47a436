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

// ProductRepository defines methods for interacting with product data
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

// SQLProductRepository is a database/sql implementation of ProductRepository
type SQLProductRepository struct {
	db *database.Pool
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *database.Pool) ProductRepository {
	return &SQLProductRepository{db: db}
}

const productColumns = `id, user_id, name, sku, category, quantity, price, description,
        image_file_name, image_file_path, image_file_type, image_file_size, image_key,
        created_at, updated_at`

func scanProduct(row interface {
	Scan(dest ...interface{}) error
}) (*models.Product, error) {
	product := &models.Product{}
	var fileName, filePath, fileType, fileSize, key sql.NullString

	err := row.Scan(
		&product.ID,
		&product.UserID,
		&product.Name,
		&product.SKU,
		&product.Category,
		&product.Quantity,
		&product.Price,
		&product.Description,
		&fileName,
		&filePath,
		&fileType,
		&fileSize,
		&key,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if filePath.Valid && filePath.String != "" {
		product.Image = &models.Image{
			FileName: fileName.String,
			FilePath: filePath.String,
			FileType: fileType.String,
			FileSize: fileSize.String,
			Key:      key.String,
		}
	}

	return product, nil
}

// imageArgs flattens an optional image into nullable column values
func imageArgs(image *models.Image) []interface{} {
	if image == nil {
		return []interface{}{nil, nil, nil, nil, nil}
	}
	return []interface{}{image.FileName, image.FilePath, image.FileType, image.FileSize, image.Key}
}

// Create adds a new product to the database
func (r *SQLProductRepository) Create(ctx context.Context, product *models.Product) error {
	startTime := time.Now()

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	query := r.db.Rebind(`
        INSERT INTO products (` + productColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
    `)

	args := []interface{}{
		product.ID,
		product.UserID,
		product.Name,
		product.SKU,
		product.Category,
		product.Quantity,
		product.Price,
		product.Description,
	}
	args = append(args, imageArgs(product.Image)...)
	args = append(args, product.CreatedAt, product.UpdatedAt)

	_, err := r.db.ExecContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		if utils.IsUniqueViolation(err) {
			return utils.NewDuplicateError("Product", "id", product.ID)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	log.Info().
		Str("category", constants.LogCategoryProduct).
		Str("product_id", product.ID).
		Str("user_id", product.UserID).
		Msg("Product created")

	return nil
}

// GetByID retrieves a product by ID
func (r *SQLProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	startTime := time.Now()

	query := r.db.Rebind(`
        SELECT ` + productColumns + `
        FROM products
        WHERE id = $1
    `)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundMessage(constants.MsgProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}

	return product, nil
}

// ListByUser returns the products of a user, newest first
func (r *SQLProductRepository) ListByUser(ctx context.Context, userID string) ([]*models.Product, error) {
	startTime := time.Now()

	query := r.db.Rebind(`
        SELECT ` + productColumns + `
        FROM products
        WHERE user_id = $1
        ORDER BY created_at DESC
    `)

	rows, err := r.db.QueryContext(ctx, query, userID)

	utils.LogDBQuery(query, []interface{}{userID}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Update saves every mutable field of a product, including its image
func (r *SQLProductRepository) Update(ctx context.Context, product *models.Product) error {
	startTime := time.Now()

	product.UpdatedAt = time.Now()

	query := r.db.Rebind(`
        UPDATE products
        SET name = $1, sku = $2, category = $3, quantity = $4, price = $5, description = $6,
            image_file_name = $7, image_file_path = $8, image_file_type = $9, image_file_size = $10, image_key = $11,
            updated_at = $12
        WHERE id = $13
    `)

	args := []interface{}{
		product.Name,
		product.SKU,
		product.Category,
		product.Quantity,
		product.Price,
		product.Description,
	}
	args = append(args, imageArgs(product.Image)...)
	args = append(args, product.UpdatedAt, product.ID)

	result, err := r.db.ExecContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if err := expectAffected(result, "Product", product.ID); err != nil {
		return err
	}

	log.Info().
		Str("category", constants.LogCategoryProduct).
		Str("product_id", product.ID).
		Msg("Product updated")

	return nil
}

// Delete removes a product
func (r *SQLProductRepository) Delete(ctx context.Context, id string) error {
	startTime := time.Now()

	query := r.db.Rebind(`DELETE FROM products WHERE id = $1`)

	result, err := r.db.ExecContext(ctx, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if err := expectAffected(result, "Product", id); err != nil {
		return err
	}

	log.Info().
		Str("category", constants.LogCategoryProduct).
		Str("product_id", id).
		Msg("Product deleted")

	return nil
}
