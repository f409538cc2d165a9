package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/turtacn/MolForge-AI/internal/application/generation"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

// BatchHandler serves stored pipeline batches.
type BatchHandler struct {
	svc generation.Service
}

// NewBatchHandler constructs a BatchHandler.
func NewBatchHandler(svc generation.Service) *BatchHandler {
	return &BatchHandler{svc: svc}
}

// GetByID handles GET /api/v1/batches/{batchID}.
func (h *BatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "batchID")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, errors.InvalidParam("batch id must be a UUID").WithDetail(raw))
		return
	}

	b, err := h.svc.GetBatch(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
