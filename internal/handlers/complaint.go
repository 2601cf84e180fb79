package handlers

import (
	"net/http"
	"strings"

	"github.com/aawaaz/hostel-server/internal/models"
	"github.com/aawaaz/hostel-server/internal/services"
	"github.com/aawaaz/hostel-server/internal/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ComplaintView is a complaint as rendered on the dashboards, with the
// assignee's display name resolved from the staff directory.
type ComplaintView struct {
	models.Complaint
	AssignedName string `json:"assigned_name,omitempty"`
}

// ComplaintHandler handles complaint-related HTTP endpoints
type ComplaintHandler struct {
	registry *services.ComplaintRegistry
	logger   *zap.SugaredLogger
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(registry *services.ComplaintRegistry, logger *zap.SugaredLogger) *ComplaintHandler {
	return &ComplaintHandler{registry: registry, logger: logger}
}

func (h *ComplaintHandler) view(c models.Complaint) ComplaintView {
	v := ComplaintView{Complaint: c}
	if c.AssignedTo != nil {
		v.AssignedName = h.registry.StaffName(*c.AssignedTo)
	}
	return v
}

func (h *ComplaintHandler) views(list []models.Complaint) []ComplaintView {
	out := make([]ComplaintView, 0, len(list))
	for _, c := range list {
		out = append(out, h.view(c))
	}
	return out
}

// ByTicket handles GET /api/v1/complaints/ticket/{ticketId}
// Students may only look up their own complaints.
func (h *ComplaintHandler) ByTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketId")
	if !services.IsTicketID(strings.ToUpper(ticketID)) {
		respondError(w, http.StatusBadRequest, "Invalid ticket id")
		return
	}

	c, err := h.registry.FindByTicket(ticketID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	claims, _ := session.FromContext(r.Context())
	if claims != nil && claims.Role == session.RoleStudent && c.StudentID != claims.Subject {
		respondError(w, http.StatusNotFound, "Complaint not found")
		return
	}

	respondJSON(w, http.StatusOK, h.view(c))
}

// StudentList handles GET /api/v1/student/complaints
func (h *ComplaintHandler) StudentList(w http.ResponseWriter, r *http.Request) {
	claims, _ := session.FromContext(r.Context())
	respondJSON(w, http.StatusOK, h.views(h.registry.ListForStudent(claims.Subject)))
}

// StudentSubmit handles POST /api/v1/student/complaints
func (h *ComplaintHandler) StudentSubmit(w http.ResponseWriter, r *http.Request) {
	var req models.ComplaintSubmission
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims, _ := session.FromContext(r.Context())
	c, err := h.registry.Create(
		strings.TrimSpace(req.Room),
		strings.TrimSpace(req.Category),
		strings.TrimSpace(req.Description),
		claims.Subject,
	)
	if err != nil {
		h.logger.Errorw("Failed to create complaint", "error", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.view(c))
}

// WardenList handles GET /api/v1/warden/complaints
func (h *ComplaintHandler) WardenList(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.views(h.registry.ListAll()))
}

// Assign handles POST /api/v1/warden/complaints/{id}/assign
func (h *ComplaintHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	var req models.AssignmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.registry.Assign(id, req.StaffID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(c))
}

// Categories handles GET /api/v1/warden/analytics/categories
func (h *ComplaintHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.registry.CategoryDistribution())
}

// StatusSummary handles GET /api/v1/warden/analytics/status
func (h *ComplaintHandler) StatusSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.registry.StatusSummary())
}

// Tasks handles GET /api/v1/maintenance/tasks
func (h *ComplaintHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	claims, _ := session.FromContext(r.Context())
	respondJSON(w, http.StatusOK, h.views(h.registry.ListForStaff(claims.Subject)))
}

// UpdateTaskStatus handles POST /api/v1/maintenance/tasks/{id}/status
// Only the assigned staff member may move a task.
func (h *ComplaintHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	var req models.StatusUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := models.ParseStatus(req.Status)
	if status == "" {
		respondError(w, http.StatusBadRequest, services.ErrInvalidStatus.Error())
		return
	}

	claims, _ := session.FromContext(r.Context())
	c, err := h.registry.UpdateStatusAs(id, claims.Subject, status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(c))
}
