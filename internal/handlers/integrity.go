package handlers

import (
	"net/http"
	"strconv"

	"github.com/aawaaz/hostel-server/internal/models"
	"github.com/aawaaz/hostel-server/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// IntegrityHandler handles Merkle tree verification endpoints
type IntegrityHandler struct {
	svc    *services.MerkleService
	logger *zap.SugaredLogger
}

// NewIntegrityHandler creates a new integrity handler
func NewIntegrityHandler(svc *services.MerkleService, logger *zap.SugaredLogger) *IntegrityHandler {
	return &IntegrityHandler{svc: svc, logger: logger}
}

// GetRoot handles GET /api/v1/integrity/root
func (h *IntegrityHandler) GetRoot(w http.ResponseWriter, r *http.Request) {
	root := h.svc.GetRoot()
	w.Header().Set("X-Merkle-Root", root)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"root":       root,
		"leaf_count": h.svc.GetLeafCount(),
		"timestamp":  h.svc.GetLastBuildTime(),
	})
}

// GetProof handles GET /api/v1/integrity/proof/{index}
func (h *IntegrityHandler) GetProof(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid index")
		return
	}

	proof, err := h.svc.GetProof(index)
	if err != nil {
		respondError(w, http.StatusNotFound, "Proof not available for index")
		return
	}

	respondJSON(w, http.StatusOK, proof)
}

// Verify handles POST /api/v1/integrity/verify
// A proof is valid when it recomputes to the root it carries; current
// reports whether that root is still the published one.
func (h *IntegrityHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var proof models.MerkleProof
	if err := decodeJSON(w, r, &proof); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{
		"valid":   services.VerifyProof(&proof),
		"current": h.svc.Verify(&proof),
	})
}
