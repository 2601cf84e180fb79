package handlers

import (
	"net/http"

	"github.com/aawaaz/hostel-server/internal/services"
	"github.com/go-chi/chi/v5"
)

// StaffHandler exposes the maintenance staff directory
type StaffHandler struct {
	staff *services.StaffDirectory
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(staff *services.StaffDirectory) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// List handles GET /api/v1/staff
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.staff.List())
}

// Get handles GET /api/v1/staff/{id}
func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	member, ok := h.staff.Lookup(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "Staff member not found")
		return
	}
	respondJSON(w, http.StatusOK, member)
}
