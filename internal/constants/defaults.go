// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide fallbacks for configuration settings and establish
// boundaries for resource usage.
package constants

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 5000

	// DefaultDBPortPostgres is the default PostgreSQL port.
	DefaultDBPortPostgres = 5432

	// DefaultDBPortMySQL is the default MySQL port.
	DefaultDBPortMySQL = 3306

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default number of idle database connections.
	DefaultDBMinConnections = 5

	// DefaultDBSSLMode is the default sslmode for PostgreSQL connections.
	DefaultDBSSLMode = "disable"

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultAppName is reported in logs and by the version endpoint.
	DefaultAppName = "inventory-backend"

	// DefaultClientURL is the frontend base URL used in password reset links.
	DefaultClientURL = "http://localhost:3000"

	// DefaultMetricsPath is where the Prometheus handler is mounted.
	DefaultMetricsPath = "/metrics"
)

// DefaultAllowedOrigins are the frontends allowed to make credentialed requests.
var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"https://inventory-app-frontend.vercel.app",
}

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Size Limits define the maximum allowed sizes for request bodies and uploads.
const (
	// MaxRequestBodySize is the maximum size in bytes for JSON request bodies.
	MaxRequestBodySize = 1048576 // 1MB

	// DefaultMaxUploadSize is the maximum size in bytes of a product image.
	DefaultMaxUploadSize = 5 << 20 // 5MB

	// MultipartMemory is how much of a multipart form is buffered in memory.
	MultipartMemory = 8 << 20
)

// Default Password Hash Settings define the parameters for Argon2id.
const (
	// DefaultPasswordHashMemory is the memory cost parameter for Argon2id hashing.
	DefaultPasswordHashMemory = 64 * 1024

	// DefaultPasswordHashIterations is the number of iterations for Argon2id hashing.
	DefaultPasswordHashIterations = 3

	// DefaultPasswordHashParallelism is the number of threads used during hashing.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the length in bytes of the random salt.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the length in bytes of the generated hash.
	DefaultPasswordHashKeyLength = 32

	// DevPasswordHashMemory is a reduced memory setting for development environments.
	DevPasswordHashMemory = 16 * 1024

	// DevPasswordHashIterations is a reduced iteration count for development environments.
	DevPasswordHashIterations = 1
)

// Session and token constants.
const (
	// DefaultJWTIssuer is the issuer claim value for session tokens.
	DefaultJWTIssuer = "inventory-api"

	// BearerTokenPrefix is the prefix for Authorization header bearer tokens.
	BearerTokenPrefix = "Bearer "

	// ResetTokenRandomBytes is the number of random bytes in a password reset secret.
	ResetTokenRandomBytes = 32
)

// Profile defaults applied to newly registered users.
const (
	DefaultUserPhoto = "https://i.ibb.co/4pDNDk1/avatar.png"
	DefaultUserPhone = "+234"
	DefaultUserBio   = "bio"
	DefaultSKU       = "SKU"
)

// Mail providers and defaults.
const (
	MailProviderSMTP     = "smtp"
	MailProviderSendGrid = "sendgrid"
	MailProviderLog      = "log"

	DefaultSMTPPort = 587
)

// Storage drivers for product images.
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"

	DefaultLocalUploadDir = "./uploads"
	DefaultS3Region       = "us-east-1"
	ProductImagePrefix    = "products"
)

// Demo account inserted by the development seeder.
const (
	DemoUserName     = "Demo User"
	DemoUserEmail    = "demo@inventory.local"
	DemoUserPassword = "demo-password"
)
