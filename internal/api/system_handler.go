package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/cache"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
)

// API identity reported by the root endpoint.
const (
	apiName    = "Task Management API"
	apiVersion = "1.0.0"
)

// Service health states reported by the health endpoint.
const (
	statusHealthy     = "healthy"
	statusDegraded    = "degraded"
	statusUnavailable = "unavailable"
)

// DBPinger is the slice of the database handle the health endpoint needs.
// *sql.DB satisfies it.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RootResponse defines the response for the root endpoint.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// ServicesStatus reports the health of each backing service.
type ServicesStatus struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// HealthResponse defines the response for the health endpoint.
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Services  ServicesStatus `json:"services"`
}

// SystemHandler handles requests about the service itself: the root banner
// and the health check.
type SystemHandler struct {
	db     DBPinger
	cache  cache.Cache
	logger *slog.Logger
}

// NewSystemHandler creates a new SystemHandler. The cache may be nil when the
// application runs without one; the health endpoint then reports redis as
// unavailable.
func NewSystemHandler(db DBPinger, taskCache cache.Cache, logger *slog.Logger) *SystemHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SystemHandler")
	}

	return &SystemHandler{
		db:     db,
		cache:  taskCache,
		logger: logger.With(slog.String("component", "system_handler")),
	}
}

// Root handles GET / requests with a static identity banner.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, RootResponse{
		Message: apiName,
		Version: apiVersion,
		Status:  statusHealthy,
	})
}

// Health handles GET /health requests. It probes the database and the cache
// and always answers 200: a failing database marks the overall status
// degraded, while a missing or unreachable cache only shows up in the
// per-service detail because the API stays fully functional without it.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	response := HealthResponse{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC(),
		Services: ServicesStatus{
			Database: statusHealthy,
			Redis:    statusHealthy,
		},
	}

	if err := h.db.PingContext(r.Context()); err != nil {
		log.Warn("database health probe failed", slog.String("error", redact.Error(err)))
		response.Services.Database = fmt.Sprintf("unhealthy: %s", redact.Error(err))
		response.Status = statusDegraded
	}

	if h.cache == nil {
		response.Services.Redis = statusUnavailable
	} else if err := h.cache.Ping(r.Context()); err != nil {
		log.Warn("cache health probe failed", slog.String("error", redact.Error(err)))
		response.Services.Redis = statusUnavailable
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
