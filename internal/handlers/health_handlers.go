package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/database"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// HealthChecker reports whether the database is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
	PoolStats() database.Stats
}

// HealthHandler serves the unauthenticated health and version endpoints
type HealthHandler struct {
	db          HealthChecker
	version     string
	environment string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db HealthChecker, version, environment string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		version:     version,
		environment: environment,
	}
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status   string          `json:"status"`
	Version  string          `json:"version"`
	Database *database.Stats `json:"database,omitempty"`
}

// Health pings the database and reports pool statistics
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "healthy", Version: h.version}

	if h.db != nil {
		if err := h.db.HealthCheck(r.Context()); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			utils.Error(w, http.StatusServiceUnavailable, constants.CodeServiceUnavailable, "Service is not healthy", nil)
			return
		}
		stats := h.db.PoolStats()
		resp.Database = &stats
	}

	utils.JSON(w, http.StatusOK, resp)
}

// Version reports the build version and environment
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"version":     h.version,
		"environment": h.environment,
	})
}
