package prometheus

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersCollectors(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	require.NotNil(t, m.Registry())

	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/molecules/generate", "200").Inc()
	m.StructuresValidated.WithLabelValues("valid").Add(3)
	m.TokensExtractedTotal.Add(5)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.StructuresValidated.WithLabelValues("valid")))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.TokensExtractedTotal))
}

func TestObservePipeline(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObservePipeline("generate", "success", 250*time.Millisecond)
	m.ObservePipeline("generate", "success", 100*time.Millisecond)
	m.ObservePipeline("optimize", "error", time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.PipelineRunsTotal.WithLabelValues("generate", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PipelineRunsTotal.WithLabelValues("optimize", "error")))
}

func TestHandlerServesMetrics(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.EnrichmentResultsTotal.WithLabelValues("lipophilicity", "ok").Inc()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "molforge_enrichment_results_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
