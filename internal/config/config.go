package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/mambagroup/inventory-backend/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App           AppSettings           `yaml:"app"`
	Database      DatabaseSettings      `yaml:"database"`
	Server        ServerSettings        `yaml:"server"`
	JWT           JWTSettings           `yaml:"jwt"`
	Cookie        CookieSettings        `yaml:"cookie"`
	Logging       LoggingSettings       `yaml:"logging"`
	CORS          CORSSettings          `yaml:"cors"`
	PasswordHash  HashSettings          `yaml:"password_hash"`
	PasswordReset PasswordResetSettings `yaml:"password_reset"`
	Mail          MailSettings          `yaml:"mail"`
	Storage       StorageSettings       `yaml:"storage"`
	Metrics       MetricsSettings       `yaml:"metrics"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
	ClientURL   string `yaml:"client_url" env:"CLIENT_URL"`
	// SeedDemoData inserts a demo account into an empty database at startup.
	SeedDemoData bool `yaml:"seed_demo_data" env:"SEED_DEMO_DATA"`
}

// DatabaseSettings contains database connection settings
type DatabaseSettings struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	Name     string `yaml:"name" env:"DB_NAME"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE"`
	MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// JWTSettings contains session token settings
type JWTSettings struct {
	Secret string        `yaml:"secret" env:"JWT_SECRET"`
	Expiry time.Duration `yaml:"expiry" env:"JWT_EXPIRY"`
	Issuer string        `yaml:"issuer" env:"JWT_ISSUER"`
}

// CookieSettings controls the session cookie attributes.
// The cookie is Secure and SameSite=None unless Insecure is set for plain
// HTTP development.
type CookieSettings struct {
	Name     string `yaml:"name" env:"COOKIE_NAME"`
	Domain   string `yaml:"domain" env:"COOKIE_DOMAIN"`
	Insecure bool   `yaml:"insecure" env:"COOKIE_INSECURE"`
	SameSite string `yaml:"same_site" env:"COOKIE_SAME_SITE"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// HashSettings contains password hashing settings
type HashSettings struct {
	Memory      uint32 `yaml:"memory" env:"HASH_MEMORY"`
	Iterations  uint32 `yaml:"iterations" env:"HASH_ITERATIONS"`
	Parallelism uint8  `yaml:"parallelism" env:"HASH_PARALLELISM"`
	SaltLength  uint32 `yaml:"salt_length" env:"HASH_SALT_LENGTH"`
	KeyLength   uint32 `yaml:"key_length" env:"HASH_KEY_LENGTH"`
}

// PasswordResetSettings controls reset token lifetime and cleanup
type PasswordResetSettings struct {
	TokenTTL        time.Duration `yaml:"token_ttl" env:"RESET_TOKEN_TTL"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RESET_TOKEN_CLEANUP_INTERVAL"`
}

// MailSettings configures the outbound mail transport
type MailSettings struct {
	Provider       string `yaml:"provider" env:"MAIL_PROVIDER"`
	Host           string `yaml:"host" env:"EMAIL_HOST"`
	Port           int    `yaml:"port" env:"EMAIL_PORT"`
	Username       string `yaml:"username" env:"EMAIL_USER"`
	Password       string `yaml:"password" env:"EMAIL_PASS"`
	From           string `yaml:"from" env:"EMAIL_FROM"`
	FromName       string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
	ContactAddress string `yaml:"contact_address" env:"EMAIL_CONTACT_ADDRESS"`
	SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
}

// StorageSettings configures where product images are written
type StorageSettings struct {
	Driver        string `yaml:"driver" env:"STORAGE_DRIVER"`
	LocalDir      string `yaml:"local_dir" env:"STORAGE_LOCAL_DIR"`
	PublicURL     string `yaml:"public_url" env:"STORAGE_PUBLIC_URL"`
	Bucket        string `yaml:"bucket" env:"S3_BUCKET"`
	Region        string `yaml:"region" env:"S3_REGION"`
	Endpoint      string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey     string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	UsePathStyle  bool   `yaml:"use_path_style" env:"S3_USE_PATH_STYLE"`
	MaxUploadSize int64  `yaml:"max_upload_size" env:"STORAGE_MAX_UPLOAD_SIZE"`
}

// MetricsSettings controls the Prometheus endpoint
type MetricsSettings struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
	Path    string `yaml:"path" env:"METRICS_PATH"`
}

// ConnectionString returns the driver specific data source name
func (dbs *DatabaseSettings) ConnectionString() string {
	if dbs.Driver == constants.DriverMySQL {
		// username:password@tcp(host:port)/dbname
		password := dbs.Password
		if password != "" {
			password = ":" + password
		}

		return fmt.Sprintf(
			"%s%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
			dbs.User, password, dbs.Host, dbs.Port, dbs.Name,
		)
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=15",
		dbs.Host, dbs.Port, dbs.User, dbs.Password, dbs.Name, dbs.SSLMode,
	)
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsSecure reports whether the session cookie carries the Secure flag
func (cs *CookieSettings) IsSecure() bool {
	return !cs.Insecure
}

// SameSiteMode maps the configured value onto net/http's enum
func (cs *CookieSettings) SameSiteMode() http.SameSite {
	switch strings.ToLower(cs.SameSite) {
	case constants.SameSiteLax:
		return http.SameSiteLaxMode
	case constants.SameSiteStrict:
		return http.SameSiteStrictMode
	default:
		return http.SameSiteNoneMode
	}
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

var (
	// cfg holds the current application configuration
	cfg *AppConfig
)

// Load loads the configuration from a config file and environment variables
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	// Load configuration from file if it exists
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		err = yaml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = config

	logConfig(config)

	return config, nil
}

// Get returns the current application configuration
func Get() *AppConfig {
	if cfg == nil {
		log.Fatal().Msg("configuration not loaded")
	}
	return cfg
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	// App defaults
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = constants.DefaultAppName
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}
	if config.App.ClientURL == "" {
		config.App.ClientURL = constants.DefaultClientURL
	}
	config.App.ClientURL = strings.TrimRight(config.App.ClientURL, "/")

	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	// Database defaults
	if config.Database.Driver == "" {
		config.Database.Driver = constants.DriverPostgres
	}
	config.Database.Driver = strings.ToLower(config.Database.Driver)
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		if config.Database.Driver == constants.DriverMySQL {
			config.Database.Port = constants.DefaultDBPortMySQL
		} else {
			config.Database.Port = constants.DefaultDBPortPostgres
		}
	}
	if config.Database.SSLMode == "" {
		config.Database.SSLMode = constants.DefaultDBSSLMode
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}

	// JWT defaults
	if config.JWT.Expiry == 0 {
		config.JWT.Expiry = constants.DefaultSessionExpiry
	}
	if config.JWT.Issuer == "" {
		config.JWT.Issuer = constants.DefaultJWTIssuer
	}

	// Cookie defaults
	if config.Cookie.Name == "" {
		config.Cookie.Name = constants.SessionCookieName
	}
	if config.Cookie.SameSite == "" {
		config.Cookie.SameSite = constants.SameSiteNone
	}

	// Logging defaults
	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	// CORS defaults
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = constants.DefaultAllowedOrigins
		config.CORS.AllowCredentials = true
	}

	// Password hash defaults
	if config.PasswordHash.Memory == 0 {
		// Lower for development, higher for production
		if config.App.IsProduction() {
			config.PasswordHash.Memory = constants.DefaultPasswordHashMemory
		} else {
			config.PasswordHash.Memory = constants.DevPasswordHashMemory
		}
	}
	if config.PasswordHash.Iterations == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Iterations = constants.DefaultPasswordHashIterations
		} else {
			config.PasswordHash.Iterations = constants.DevPasswordHashIterations
		}
	}
	if config.PasswordHash.Parallelism == 0 {
		config.PasswordHash.Parallelism = constants.DefaultPasswordHashParallelism
	}
	if config.PasswordHash.SaltLength == 0 {
		config.PasswordHash.SaltLength = constants.DefaultPasswordHashSaltLength
	}
	if config.PasswordHash.KeyLength == 0 {
		config.PasswordHash.KeyLength = constants.DefaultPasswordHashKeyLength
	}

	// Password reset defaults
	if config.PasswordReset.TokenTTL == 0 {
		config.PasswordReset.TokenTTL = constants.DefaultResetTokenTTL
	}
	if config.PasswordReset.CleanupInterval == 0 {
		config.PasswordReset.CleanupInterval = constants.DBMaintenanceInterval
	}

	// Mail defaults
	if config.Mail.Provider == "" {
		if config.App.IsProduction() {
			config.Mail.Provider = constants.MailProviderSMTP
		} else {
			config.Mail.Provider = constants.MailProviderLog
		}
	}
	config.Mail.Provider = strings.ToLower(config.Mail.Provider)
	if config.Mail.Port == 0 {
		config.Mail.Port = constants.DefaultSMTPPort
	}
	if config.Mail.From == "" {
		config.Mail.From = config.Mail.Username
	}
	if config.Mail.ContactAddress == "" {
		config.Mail.ContactAddress = config.Mail.Username
	}

	// Storage defaults
	if config.Storage.Driver == "" {
		config.Storage.Driver = constants.StorageDriverLocal
	}
	config.Storage.Driver = strings.ToLower(config.Storage.Driver)
	if config.Storage.LocalDir == "" {
		config.Storage.LocalDir = constants.DefaultLocalUploadDir
	}
	if config.Storage.Region == "" {
		config.Storage.Region = constants.DefaultS3Region
	}
	if config.Storage.MaxUploadSize == 0 {
		config.Storage.MaxUploadSize = constants.DefaultMaxUploadSize
	}

	// Metrics defaults
	if config.Metrics.Path == "" {
		config.Metrics.Path = constants.DefaultMetricsPath
	}
}

// randomSecret returns 32 random bytes, hex encoded.
func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	// Sessions are never signed with an empty or placeholder key
	if config.JWT.Secret == "" || config.JWT.Secret == "changeme" {
		if config.App.IsProduction() {
			return fmt.Errorf("JWT secret must be set in production")
		}
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		config.JWT.Secret = secret
		log.Warn().Msg("JWT_SECRET is not set, using a random secret for this process; sessions end on restart")
	}

	if config.Database.Driver != constants.DriverPostgres && config.Database.Driver != constants.DriverMySQL {
		return fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}

	// Validate log level
	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	switch config.Mail.Provider {
	case constants.MailProviderSMTP:
		if config.Mail.Host == "" {
			return fmt.Errorf("mail host must be set for the smtp provider")
		}
	case constants.MailProviderSendGrid:
		if config.Mail.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid api key must be set for the sendgrid provider")
		}
	case constants.MailProviderLog:
	default:
		return fmt.Errorf("unsupported mail provider: %s", config.Mail.Provider)
	}

	switch config.Storage.Driver {
	case constants.StorageDriverLocal:
	case constants.StorageDriverS3:
		if config.Storage.Bucket == "" {
			return fmt.Errorf("s3 bucket must be set for the s3 storage driver")
		}
	default:
		return fmt.Errorf("unsupported storage driver: %s", config.Storage.Driver)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	logCfg := *config

	if logCfg.Database.Password != "" {
		logCfg.Database.Password = constants.LogRedactedValue
	}
	if logCfg.JWT.Secret != "" {
		logCfg.JWT.Secret = constants.LogRedactedValue
	}

	log.Info().
		Str("environment", logCfg.App.Environment).
		Str("version", logCfg.App.Version).
		Str("server", logCfg.Server.ServerAddress()).
		Str("db_driver", logCfg.Database.Driver).
		Str("db_host", logCfg.Database.Host).
		Int("db_port", logCfg.Database.Port).
		Str("db_name", logCfg.Database.Name).
		Str("mail_provider", logCfg.Mail.Provider).
		Str("storage_driver", logCfg.Storage.Driver).
		Bool("metrics", logCfg.Metrics.Enabled).
		Str("log_level", logCfg.Logging.Level).
		Msg("Configuration loaded")
}
