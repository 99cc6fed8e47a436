package migrations

import (
	"context"
	"database/sql"

	"github.com/mambagroup/inventory-backend/internal/constants"
)

// execAll runs each statement in order, stopping at the first failure.
func execAll(ctx context.Context, tx *sql.Tx, statements ...string) error {
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// createUsersTable creates the users table
func createUsersTable() Migration {
	return Migration{
		Name:        "create_users_table",
		Description: "Creates the users table",
		TableName:   constants.TableUsers,
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			return execAll(ctx, tx, `
				CREATE TABLE IF NOT EXISTS users (
					id VARCHAR(36) NOT NULL PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					email VARCHAR(255) NOT NULL,
					password_hash VARCHAR(255) NOT NULL,
					salt VARCHAR(255) NOT NULL,
					photo VARCHAR(1024) NOT NULL DEFAULT '',
					phone VARCHAR(32) NOT NULL DEFAULT '',
					bio TEXT,
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT uq_users_email UNIQUE (email)
				)
			`)
		},
	}
}

// createPasswordResetTokensTable creates the password_reset_tokens table.
// Tokens are removed together with their user.
func createPasswordResetTokensTable() Migration {
	return Migration{
		Name:        "create_password_reset_tokens_table",
		Description: "Creates the password_reset_tokens table",
		TableName:   constants.TablePasswordResetTokens,
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			return execAll(ctx, tx, `
				CREATE TABLE IF NOT EXISTS password_reset_tokens (
					token_hash VARCHAR(64) NOT NULL PRIMARY KEY,
					user_id VARCHAR(36) NOT NULL,
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					expires_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_reset_tokens_user FOREIGN KEY (user_id)
						REFERENCES users (id) ON DELETE CASCADE
				)
			`,
				`CREATE INDEX idx_reset_tokens_user_id ON password_reset_tokens (user_id)`,
				`CREATE INDEX idx_reset_tokens_expires_at ON password_reset_tokens (expires_at)`,
			)
		},
	}
}

// createProductsTable creates the products table. The image columns stay
// NULL for products without a picture.
func createProductsTable() Migration {
	return Migration{
		Name:        "create_products_table",
		Description: "Creates the products table",
		TableName:   constants.TableProducts,
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			return execAll(ctx, tx, `
				CREATE TABLE IF NOT EXISTS products (
					id VARCHAR(36) NOT NULL PRIMARY KEY,
					user_id VARCHAR(36) NOT NULL,
					name VARCHAR(255) NOT NULL,
					sku VARCHAR(255) NOT NULL,
					category VARCHAR(255) NOT NULL,
					quantity BIGINT NOT NULL,
					price DECIMAL(12, 2) NOT NULL,
					description TEXT,
					image_file_name VARCHAR(255),
					image_file_path VARCHAR(1024),
					image_file_type VARCHAR(128),
					image_file_size VARCHAR(64),
					image_key VARCHAR(512),
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_products_user FOREIGN KEY (user_id)
						REFERENCES users (id) ON DELETE CASCADE
				)
			`,
				`CREATE INDEX idx_products_user_created ON products (user_id, created_at)`,
			)
		},
	}
}
