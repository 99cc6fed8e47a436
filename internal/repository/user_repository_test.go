package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mambagroup/inventory-backend/internal/database"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/mambagroup/inventory-backend/internal/repository"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

var userRowColumns = []string{"id", "name", "email", "password_hash", "salt", "photo", "phone", "bio", "created_at", "updated_at"}

// setupUserRepositoryTest creates a new mock database and repository for the given dialect
func setupUserRepositoryTest(t *testing.T, dialect string) (repository.UserRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dbPool := &database.Pool{DB: db, Dialect: dialect}
	repo := repository.NewUserRepository(dbPool)

	return repo, mock, func() {
		db.Close()
	}
}

func newTestUser() *models.User {
	user := models.NewUser("Jane Doe", "jane@example.com")
	user.PasswordHash = "hashed_password"
	user.Salt = "salt_value"
	return user
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupUserRepositoryTest(t, "postgres")
	defer cleanup()

	user := newTestUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, user.Salt,
			user.Photo, user.Phone, user.Bio, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), user)

	assert.NoError(t, err)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DatabaseError(t *testing.T) {
	repo, mock, cleanup := setupUserRepositoryTest(t, "postgres")
	defer cleanup()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("database connection error"))

	err := repo.Create(context.Background(), newTestUser())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create user")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		dbErr   error
	}{
		{"postgres unique violation", "postgres", &pq.Error{Code: "23505"}},
		{"mysql duplicate entry", "mysql", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserRepositoryTest(t, tt.dialect)
			defer cleanup()

			mock.ExpectExec("INSERT INTO users").WillReturnError(tt.dbErr)

			err := repo.Create(context.Background(), newTestUser())

			require.Error(t, err)
			assert.True(t, utils.IsDuplicateError(err))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	repo, mock, cleanup := setupUserRepositoryTest(t, "postgres")
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("u-1", "Jane Doe", "jane@example.com", "hash", "salt", "photo.png", "+234", "bio", now, now)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs("u-1").
		WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.Equal(t, "+234", user.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupUserRepositoryTest(t, "postgres")
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.GetByID(context.Background(), "missing")

	assert.Nil(t, user)
	assert.True(t, utils.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_MySQL(t *testing.T) {
	repo, mock, cleanup := setupUserRepositoryTest(t, "mysql")
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("u-1", "Jane Doe", "jane@example.com", "hash", "salt", "photo.png", "+234", "bio", now, now)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \?`).
		WithArgs("jane@example.com").
		WillReturnRows(rows)

	user, err := repo.GetByEmail(context.Background(), "jane@example.com")

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock, cleanup := setupUserRepositoryTest(t, "postgres")
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("Jane@Example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "Jane@Example.com")

	assert.True(t, utils.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update(t *testing.T) {
	repo, mock, cleanup := setupUserRepositoryTest(t, "postgres")
	defer cleanup()

	user := newTestUser()
	user.Name = "Jane Smith"

	mock.ExpectExec(`UPDATE users SET name = \$1, photo = \$2, phone = \$3, bio = \$4, updated_at = \$5 WHERE id = \$6`).
		WithArgs(user.Name, user.Photo, user.Phone, user.Bio, sqlmock.AnyArg(), user.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), user)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	repo, mock, cleanup := setupUserRepositoryTest(t, "postgres")
	defer cleanup()

	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), newTestUser())

	assert.True(t, utils.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ChangePassword(t *testing.T) {
	repo, mock, cleanup := setupUserRepositoryTest(t, "mysql")
	defer cleanup()

	mock.ExpectExec(`UPDATE users SET password_hash = \?, salt = \?, updated_at = \? WHERE id = \?`).
		WithArgs("new_hash", "new_salt", sqlmock.AnyArg(), "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ChangePassword(context.Background(), "u-1", "new_hash", "new_salt")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	repo, mock, cleanup := setupUserRepositoryTest(t, "postgres")
	defer cleanup()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email = \$1`).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.ExistsByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Count(t *testing.T) {
	repo, mock, cleanup := setupUserRepositoryTest(t, "postgres")
	defer cleanup()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
