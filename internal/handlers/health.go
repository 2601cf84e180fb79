package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aawaaz/hostel-server/internal/models"
	"github.com/aawaaz/hostel-server/internal/services"
	"go.uber.org/zap"
)

var startTime = time.Now()

// Pinger is implemented by backends the server needs to be ready
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints
type HealthHandler struct {
	version string
	limiter Pinger
	ledger  *services.MerkleService
	logger  *zap.SugaredLogger
}

// NewHealthHandler creates a new health handler. limiter is nil when rate
// limiting runs in memory.
func NewHealthHandler(version string, limiter Pinger, ledger *services.MerkleService, logger *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{version: version, limiter: limiter, ledger: ledger, logger: logger}
}

// Check handles GET /api/v1/health (liveness probe)
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(startTime).String(),
	})
}

// Ready handles GET /api/v1/health/ready (readiness probe)
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:      "ready",
		Version:     h.version,
		Uptime:      time.Since(startTime).String(),
		RateLimiter: "memory",
		LedgerRoot:  h.ledger.GetRoot(),
	}

	if h.limiter != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status.RateLimiter = "redis"
		if err := h.limiter.Ping(ctx); err != nil {
			h.logger.Warnw("Readiness check failed", "error", err)
			status.Status = "not ready"
			status.RateLimiter = "disconnected"
			respondJSON(w, http.StatusServiceUnavailable, status)
			return
		}
	}

	respondJSON(w, http.StatusOK, status)
}
