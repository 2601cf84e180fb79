package handlers

import (
	"net/http"
	"strconv"

	"github.com/aawaaz/hostel-server/internal/services"
	"go.uber.org/zap"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

// ActivityHandler handles activity log endpoints
type ActivityHandler struct {
	svc      *services.ActivityLogService
	registry *services.ComplaintRegistry
	logger   *zap.SugaredLogger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(svc *services.ActivityLogService, registry *services.ComplaintRegistry, logger *zap.SugaredLogger) *ActivityHandler {
	return &ActivityHandler{svc: svc, registry: registry, logger: logger}
}

// ByComplaint handles GET /api/v1/warden/complaints/{id}/activity
func (h *ActivityHandler) ByComplaint(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}
	if _, err := h.registry.Get(id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.svc.FetchByComplaint(id, limitParam(r)))
}

// Recent handles GET /api/v1/warden/activity/recent
func (h *ActivityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.FetchRecent(limitParam(r)))
}

func limitParam(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return defaultActivityLimit
	}
	return min(limit, maxActivityLimit)
}
