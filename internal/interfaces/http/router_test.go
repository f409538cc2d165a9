package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolForge-AI/internal/application/generation"
	"github.com/turtacn/MolForge-AI/internal/domain/batch"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolForge-AI/internal/interfaces/http/handlers"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

type stubService struct {
	batch *batch.PipelineBatch
}

func (s *stubService) Generate(context.Context, generation.GenerateInput) (*batch.PipelineBatch, error) {
	return s.batch, nil
}

func (s *stubService) Optimize(context.Context, generation.OptimizeInput) (*batch.PipelineBatch, error) {
	return s.batch, nil
}

func (s *stubService) GetBatch(_ context.Context, id uuid.UUID) (*batch.PipelineBatch, error) {
	if s.batch != nil && s.batch.BatchID == id {
		return s.batch, nil
	}
	return nil, errors.New(errors.ErrCodeBatchNotFound, "batch not found")
}

func newTestRouter(svc generation.Service) (http.Handler, *prometheus.Metrics) {
	metrics := prometheus.NewMetrics()
	router := NewRouter(RouterConfig{
		GenerationHandler: handlers.NewGenerationHandler(svc, nil),
		BatchHandler:      handlers.NewBatchHandler(svc),
		HealthHandler:     handlers.NewHealthHandler(nil, nil),
		Metrics:           metrics,
	})
	return router, metrics
}

func TestRouterRoutes(t *testing.T) {
	t.Parallel()

	b := &batch.PipelineBatch{
		BatchID:   uuid.New(),
		Kind:      batch.KindGenerate,
		CreatedAt: time.Now().UTC(),
	}
	router, _ := newTestRouter(&stubService{batch: b})

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"generate", http.MethodPost, "/api/v1/molecules/generate", `{"requirements":"x"}`, http.StatusOK},
		{"optimize", http.MethodPost, "/api/v1/molecules/optimize", `{"smiles":"CCO","target_property":"logP"}`, http.StatusOK},
		{"get batch", http.MethodGet, "/api/v1/batches/" + b.BatchID.String(), "", http.StatusOK},
		{"unknown batch", http.MethodGet, "/api/v1/batches/" + uuid.NewString(), "", http.StatusNotFound},
		{"liveness", http.MethodGet, "/healthz", "", http.StatusOK},
		{"readiness", http.MethodGet, "/readyz", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/api/v1/molecules/generate", "", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var req *http.Request
			if tc.body != "" {
				req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			} else {
				req = httptest.NewRequest(tc.method, tc.path, nil)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRouterRecordsMetrics(t *testing.T) {
	t.Parallel()

	router, metrics := newTestRouter(&stubService{batch: &batch.PipelineBatch{BatchID: uuid.New()}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/molecules/generate",
		strings.NewReader(`{"requirements":"x"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	scrape := httptest.NewRecorder()
	router.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), "molforge_http_requests_total")
	_ = metrics
}

func TestRouterRecovererHandlesPanic(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{})
	rec := httptest.NewRecorder()
	// No handlers registered; any route is a plain 404, middleware still runs.
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/batches/x", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
