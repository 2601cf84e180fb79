package handlers

import (
	"net/http"
	"strings"

	"github.com/aawaaz/hostel-server/internal/models"
	"github.com/aawaaz/hostel-server/internal/services"
	"github.com/aawaaz/hostel-server/internal/session"
	"go.uber.org/zap"
)

// SessionHandler hands out role tokens for the dashboards
type SessionHandler struct {
	issuer *session.Issuer
	staff  *services.StaffDirectory
	logger *zap.SugaredLogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(issuer *session.Issuer, staff *services.StaffDirectory, logger *zap.SugaredLogger) *SessionHandler {
	return &SessionHandler{issuer: issuer, staff: staff, logger: logger}
}

// Create handles POST /api/v1/session
// Students name their own id, maintenance staff must exist in the
// directory, and the warden takes no id.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	role := session.Role(req.Role)
	subject := strings.TrimSpace(req.ID)
	switch role {
	case session.RoleWarden:
		subject = ""
	case session.RoleMaintenance:
		if _, ok := h.staff.Lookup(subject); !ok {
			respondError(w, http.StatusBadRequest, "Unknown staff member")
			return
		}
	}

	token, expires, err := h.issuer.Issue(role, subject)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Infow("Session issued", "role", role, "subject", subject)

	respondJSON(w, http.StatusCreated, models.SessionResponse{
		Token:     token,
		Role:      string(role),
		Subject:   subject,
		ExpiresAt: expires,
	})
}
