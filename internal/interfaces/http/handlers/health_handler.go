package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
)

// Check probes one dependency; a nil return means healthy.
type Check func(ctx context.Context) error

// HealthHandler serves the liveness and readiness probes.  Liveness only
// confirms the process answers; readiness runs the registered dependency
// checks.
type HealthHandler struct {
	checks  map[string]Check
	timeout time.Duration
	logger  logging.Logger
}

// NewHealthHandler constructs a HealthHandler with the given dependency checks.
func NewHealthHandler(checks map[string]Check, logger logging.Logger) *HealthHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &HealthHandler{
		checks:  checks,
		timeout: 5 * time.Second,
		logger:  logger.Named("health"),
	}
}

type healthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthStatus{Status: "ok"})
}

// Readiness handles GET /readyz.  Any failing dependency yields 503 with the
// failing checks named in the body.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			healthy = false
			results[name] = err.Error()
			h.logger.Warn("readiness check failed", logging.String("check", name), logging.Err(err))
		} else {
			results[name] = "ok"
		}
	}

	status := healthStatus{Status: "ok", Checks: results}
	code := http.StatusOK
	if !healthy {
		status.Status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}
