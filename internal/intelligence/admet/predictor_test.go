package admet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolForge-AI/pkg/errors"
)

func TestHTTPPredictorSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/predict", r.URL.Path)

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "CCO", req.SMILES)
		assert.Equal(t, "absorption", req.Category)

		json.NewEncoder(w).Encode(predictResponse{Value: 0.82, Unit: "%", Confidence: 0.91})
	}))
	t.Cleanup(srv.Close)

	p := NewHTTPPredictor(PredictorConfig{BaseURL: srv.URL, RequestTimeout: 5 * time.Second}, nil)
	value, err := p.Predict(context.Background(), "CCO", "absorption")
	require.NoError(t, err)
	assert.Equal(t, PredictionValue{Value: 0.82, Unit: "%", Confidence: 0.91}, value)
}

func TestHTTPPredictorServiceError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(predictResponse{Error: "model not loaded"})
	}))
	t.Cleanup(srv.Close)

	p := NewHTTPPredictor(PredictorConfig{BaseURL: srv.URL}, nil)
	_, err := p.Predict(context.Background(), "CCO", "toxicity")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePredictionFailed, errors.GetCode(err))
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestHTTPPredictorUnreachable(t *testing.T) {
	t.Parallel()

	p := NewHTTPPredictor(PredictorConfig{BaseURL: "http://127.0.0.1:1", RequestTimeout: time.Second}, nil)
	_, err := p.Predict(context.Background(), "CCO", "absorption")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePredictionFailed, errors.GetCode(err))
}
