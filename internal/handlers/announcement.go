package handlers

import (
	"net/http"

	"github.com/aawaaz/hostel-server/internal/models"
	"github.com/aawaaz/hostel-server/internal/services"
	"go.uber.org/zap"
)

// AnnouncementHandler serves the hostel notice board
type AnnouncementHandler struct {
	log    *services.AnnouncementLog
	logger *zap.SugaredLogger
}

// NewAnnouncementHandler creates a new announcement handler
func NewAnnouncementHandler(log *services.AnnouncementLog, logger *zap.SugaredLogger) *AnnouncementHandler {
	return &AnnouncementHandler{log: log, logger: logger}
}

// List handles GET /api/v1/announcements
func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.log.ListRecent())
}

// Post handles POST /api/v1/announcements (warden only)
func (h *AnnouncementHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req models.AnnouncementSubmission
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.log.Post(req.Message)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, a)
}
