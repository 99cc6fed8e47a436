package constants

import "time"

// Server Timeouts
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
)

// Database Timeouts
const (
	DBConnectionTimeout   = 10 * time.Second
	DBHealthCheckTimeout  = 5 * time.Second
	DBConnMaxLifetime     = 1 * time.Hour
	DBConnMaxIdleTime     = 30 * time.Minute
	DBMaintenanceInterval = 1 * time.Hour

	// MaintenanceTaskTimeout bounds a single maintenance pass.
	MaintenanceTaskTimeout = 5 * time.Minute
)

// Token Lifetimes
const (
	DefaultSessionExpiry   = 24 * time.Hour
	DefaultResetTokenTTL   = 30 * time.Minute
	DefaultMailSendTimeout = 15 * time.Second
)
