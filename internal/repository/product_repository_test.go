package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mambagroup/inventory-backend/internal/database"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/mambagroup/inventory-backend/internal/repository"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

var productRowColumns = []string{
	"id", "user_id", "name", "sku", "category", "quantity", "price", "description",
	"image_file_name", "image_file_path", "image_file_type", "image_file_size", "image_key",
	"created_at", "updated_at",
}

func setupProductRepositoryTest(t *testing.T, dialect string) (repository.ProductRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := repository.NewProductRepository(&database.Pool{DB: db, Dialect: dialect})

	return repo, mock, func() {
		db.Close()
	}
}

func newTestProduct() *models.Product {
	return models.NewProduct("u-1", models.ProductInput{
		Name:        "Laptop",
		SKU:         "SKU-1",
		Category:    "Electronics",
		Quantity:    3,
		Price:       999.5,
		Description: "A laptop",
	})
}

func TestProductRepository_Create_WithoutImage(t *testing.T) {
	repo, mock, cleanup := setupProductRepositoryTest(t, "postgres")
	defer cleanup()

	product := newTestProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(product.ID, "u-1", "Laptop", "SKU-1", "Electronics", product.Quantity, product.Price, "A laptop",
			nil, nil, nil, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), product)

	assert.NoError(t, err)
	assert.False(t, product.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_WithImage(t *testing.T) {
	repo, mock, cleanup := setupProductRepositoryTest(t, "mysql")
	defer cleanup()

	product := newTestProduct()
	product.Image = &models.Image{
		FileName: "laptop.png",
		FilePath: "https://cdn.example.com/products/u-1/abc.png",
		FileType: "image/png",
		FileSize: "12.35 KB",
		Key:      "products/u-1/abc.png",
	}

	mock.ExpectExec(`INSERT INTO products (.+) VALUES \(\?, \?, \?, \?, \?, \?, \?, \?, \?, \?, \?, \?, \?, \?, \?\)`).
		WithArgs(product.ID, "u-1", "Laptop", "SKU-1", "Electronics", product.Quantity, product.Price, "A laptop",
			"laptop.png", product.Image.FilePath, "image/png", "12.35 KB", "products/u-1/abc.png",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(context.Background(), product))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID(t *testing.T) {
	repo, mock, cleanup := setupProductRepositoryTest(t, "postgres")
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(productRowColumns).
		AddRow("p-1", "u-1", "Laptop", "SKU-1", "Electronics", 3, 999.5, "A laptop",
			"laptop.png", "/uploads/products/u-1/abc.png", "image/png", "12.35 KB", "products/u-1/abc.png", now, now)

	mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnRows(rows)

	product, err := repo.GetByID(context.Background(), "p-1")

	require.NoError(t, err)
	assert.Equal(t, "u-1", product.UserID)
	assert.Equal(t, int64(3), product.Quantity)
	assert.Equal(t, 999.5, product.Price)
	require.NotNil(t, product.Image)
	assert.Equal(t, "products/u-1/abc.png", product.Image.Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NoImage(t *testing.T) {
	repo, mock, cleanup := setupProductRepositoryTest(t, "postgres")
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(productRowColumns).
		AddRow("p-1", "u-1", "Laptop", "SKU", "Electronics", 3, 10.0, "desc",
			nil, nil, nil, nil, nil, now, now)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs("p-1").
		WillReturnRows(rows)

	product, err := repo.GetByID(context.Background(), "p-1")

	require.NoError(t, err)
	assert.Nil(t, product.Image)
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupProductRepositoryTest(t, "postgres")
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	product, err := repo.GetByID(context.Background(), "missing")

	assert.Nil(t, product)
	assert.True(t, utils.IsNotFoundError(err))
}

func TestProductRepository_ListByUser(t *testing.T) {
	repo, mock, cleanup := setupProductRepositoryTest(t, "postgres")
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(productRowColumns).
		AddRow("p-2", "u-1", "Phone", "SKU", "Electronics", 1, 300.0, "newer", nil, nil, nil, nil, nil, now, now).
		AddRow("p-1", "u-1", "Laptop", "SKU", "Electronics", 3, 999.5, "older", nil, nil, nil, nil, nil, now.Add(-time.Hour), now)

	mock.ExpectQuery(`SELECT (.+) FROM products WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs("u-1").
		WillReturnRows(rows)

	products, err := repo.ListByUser(context.Background(), "u-1")

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "p-2", products[0].ID)
	assert.Equal(t, "p-1", products[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ListByUser_Empty(t *testing.T) {
	repo, mock, cleanup := setupProductRepositoryTest(t, "postgres")
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs("u-2").
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	products, err := repo.ListByUser(context.Background(), "u-2")

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductRepository_Update(t *testing.T) {
	repo, mock, cleanup := setupProductRepositoryTest(t, "postgres")
	defer cleanup()

	product := newTestProduct()

	mock.ExpectExec(`UPDATE products SET (.+) WHERE id = \$13`).
		WithArgs("Laptop", "SKU-1", "Electronics", product.Quantity, product.Price, "A laptop",
			nil, nil, nil, nil, nil, sqlmock.AnyArg(), product.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Update(context.Background(), product))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	repo, mock, cleanup := setupProductRepositoryTest(t, "postgres")
	defer cleanup()

	mock.ExpectExec("UPDATE products").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), newTestProduct())

	assert.True(t, utils.IsNotFoundError(err))
}

func TestProductRepository_Delete(t *testing.T) {
	repo, mock, cleanup := setupProductRepositoryTest(t, "postgres")
	defer cleanup()

	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "p-1"))
	assert.True(t, utils.IsNotFoundError(repo.Delete(context.Background(), "p-1")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
