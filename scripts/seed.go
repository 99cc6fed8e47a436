// Package scripts provides utility scripts for database and system management.
//
// This package implements database seeding for development setups. The
// seeding system works similarly to migrations, tracking executed seeds so
// they only run once, and never touches a database that already has users.
package scripts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mambagroup/inventory-backend/internal/auth"
	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/database"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/rs/zerolog/log"
)

// Seed is a named seed function run inside a transaction.
type Seed struct {
	Name     string
	SeedFunc func(ctx context.Context, tx *sql.Tx) error
}

// Seeder handles database seeding.
type Seeder struct {
	db          *database.Pool
	passwordCfg *auth.PasswordConfig
}

// NewSeeder creates a new seeder. Seeded passwords are hashed with
// passwordCfg, or the default parameters when it is nil.
//
// Parameters:
//   - db: A database connection pool to use for seeding
//   - passwordCfg: Argon2id parameters for the demo account
//
// Returns:
//   - *Seeder: A configured seeder
func NewSeeder(db *database.Pool, passwordCfg *auth.PasswordConfig) *Seeder {
	if passwordCfg == nil {
		passwordCfg = auth.DefaultPasswordConfig()
	}
	return &Seeder{
		db:          db,
		passwordCfg: passwordCfg,
	}
}

// Seeds returns the seeds in execution order.
func (s *Seeder) Seeds() []Seed {
	return []Seed{
		{Name: "demo_inventory", SeedFunc: s.seedDemoInventory},
	}
}

// SeedDatabase runs every seed that hasn't been executed yet.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	if err := s.createSeedsTable(ctx); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}

	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	for _, seed := range s.Seeds() {
		if executedSeeds[seed.Name] {
			log.Debug().Str("seed", seed.Name).Msg("Seed already executed")
			continue
		}
		log.Info().Str("seed", seed.Name).Msg("Running seed")
		if err := s.runSeed(ctx, seed.Name, seed.SeedFunc); err != nil {
			return err
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// createSeedsTable creates the seeds table if it doesn't exist.
func (s *Seeder) createSeedsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS seeds (
			name VARCHAR(255) NOT NULL PRIMARY KEY,
			executed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getExecutedSeeds returns the set of executed seed names.
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM seeds`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	seeds := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seeds[name] = true
	}

	return seeds, rows.Err()
}

// runSeed runs a seed function within a transaction and records it.
// If the seed operation fails, the transaction is rolled back.
func (s *Seeder) runSeed(ctx context.Context, name string, seedFunc func(ctx context.Context, tx *sql.Tx) error) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := seedFunc(ctx, tx); err != nil {
			return fmt.Errorf("seed %s failed: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx, s.db.Rebind(`INSERT INTO seeds (name) VALUES ($1)`), name); err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}

		return nil
	})
}

// demoProducts are the items owned by the demo account.
func demoProducts() []models.ProductInput {
	return []models.ProductInput{
		{Name: "Wireless Mouse", SKU: "WM-001", Category: "Electronics", Quantity: 25, Price: 19.99, Description: "2.4GHz optical mouse"},
		{Name: "Standing Desk", SKU: "SD-014", Category: "Furniture", Quantity: 4, Price: 349.00, Description: "Height adjustable desk"},
		{Name: "Notebook A5", SKU: "NB-A5", Category: "Stationery", Quantity: 120, Price: 3.50, Description: "Dotted, 120 pages"},
	}
}

// seedDemoInventory creates the demo account and its products. It does
// nothing when the users table already holds rows.
func (s *Seeder) seedDemoInventory(ctx context.Context, tx *sql.Tx) error {
	var userCount int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+constants.TableUsers).Scan(&userCount); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount > 0 {
		log.Info().Int("users", userCount).Msg("Database already has users, skipping demo data")
		return nil
	}

	user := models.NewUser(constants.DemoUserName, constants.DemoUserEmail)
	hash, salt, err := auth.HashPassword(constants.DemoUserPassword, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	user.PasswordHash = hash
	user.Salt = salt

	_, err = tx.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO users (id, name, email, password_hash, salt, photo, phone, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`), user.ID, user.Name, user.Email, user.PasswordHash, user.Salt,
		user.Photo, user.Phone, user.Bio, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert demo user: %w", err)
	}

	insertProduct := s.db.Rebind(`
		INSERT INTO products (id, user_id, name, sku, category, quantity, price, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`)
	for _, in := range demoProducts() {
		p := models.NewProduct(user.ID, in)
		_, err := tx.ExecContext(ctx, insertProduct, p.ID, p.UserID, p.Name, p.SKU, p.Category,
			p.Quantity, p.Price, p.Description, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert demo product %s: %w", in.Name, err)
		}
	}

	log.Info().
		Str("email", constants.DemoUserEmail).
		Int("products", len(demoProducts())).
		Msg("Demo inventory seeded")

	return nil
}
