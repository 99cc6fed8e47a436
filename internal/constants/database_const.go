// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines table names, column names and driver
// identifiers so that SQL statements across repositories and migrations agree
// on the schema.
package constants

// Table Names define the names of database tables used in the application.
const (
	// TableUsers stores user accounts and profile fields.
	TableUsers = "users"

	// TablePasswordResetTokens stores hashed, time-limited password reset tokens.
	TablePasswordResetTokens = "password_reset_tokens"

	// TableProducts stores inventory items owned by users.
	TableProducts = "products"

	// TableMigrations records which schema migrations have been applied.
	TableMigrations = "migrations"
)

// Credential columns. utils.LogDBQuery redacts the arguments of any query
// naming one of them.
const (
	ColumnPasswordHash = "password_hash"
	ColumnSalt         = "salt"
	ColumnTokenHash    = "token_hash"
)

// Database drivers supported by database.Connect.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Driver error codes recognised by utils.ParseError.
const (
	// PGErrorDuplicateConstraint is the PostgreSQL error code for unique constraint violations.
	PGErrorDuplicateConstraint = "23505"

	// PGErrorForeignKeyConstraint is the PostgreSQL error code for foreign key violations.
	PGErrorForeignKeyConstraint = "23503"

	// PGErrorNotNullConstraint is the PostgreSQL error code for not-null constraint violations.
	PGErrorNotNullConstraint = "23502"

	// MySQLErrorDuplicateEntry is the MySQL error number for duplicate keys.
	MySQLErrorDuplicateEntry = 1062

	// MySQLErrorForeignKey is the MySQL error number for a failing foreign key on insert.
	MySQLErrorForeignKey = 1452
)
