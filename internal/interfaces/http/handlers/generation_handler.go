package handlers

import (
	"net/http"

	"github.com/turtacn/MolForge-AI/internal/application/generation"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
)

// GenerationHandler serves the two pipeline entry points.
type GenerationHandler struct {
	svc    generation.Service
	logger logging.Logger
}

// NewGenerationHandler constructs a GenerationHandler.
func NewGenerationHandler(svc generation.Service, logger logging.Logger) *GenerationHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GenerationHandler{svc: svc, logger: logger.Named("generation_handler")}
}

// Generate handles POST /api/v1/molecules/generate.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var input generation.GenerateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	b, err := h.svc.Generate(r.Context(), input)
	if err != nil {
		h.logger.Warn("generate run failed", logging.Err(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Optimize handles POST /api/v1/molecules/optimize.
func (h *GenerationHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var input generation.OptimizeInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	b, err := h.svc.Optimize(r.Context(), input)
	if err != nil {
		h.logger.Warn("optimize run failed", logging.Err(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
