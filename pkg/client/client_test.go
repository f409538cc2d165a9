package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL,
		WithRetryMax(2),
		WithRetryWait(time.Millisecond, 5*time.Millisecond),
	)
	require.NoError(t, err)
	return c
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("")
	assert.Error(t, err)

	_, err = NewClient("ftp://example.com")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	batchID := uuid.New()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/molecules/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "soluble analogues", req.Requirements)

		_ = json.NewEncoder(w).Encode(PipelineBatch{
			BatchID: batchID,
			Kind:    "generate",
			Records: []MoleculeRecord{{Notation: "CCO", DisplayName: "Generated Molecule 1"}},
		})
	}))

	b, err := c.Generate(context.Background(), GenerateRequest{Requirements: "soluble analogues"})
	require.NoError(t, err)
	assert.Equal(t, batchID, b.BatchID)
	require.Len(t, b.Records, 1)
	assert.Equal(t, "CCO", b.Records[0].Notation)
}

func TestOptimize(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/molecules/optimize", r.URL.Path)
		var req OptimizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "CCO", req.SMILES)
		assert.Equal(t, "logP", req.TargetProperty)
		_ = json.NewEncoder(w).Encode(PipelineBatch{BatchID: uuid.New(), Kind: "optimize"})
	}))

	b, err := c.Optimize(context.Background(), OptimizeRequest{SMILES: "CCO", TargetProperty: "logP"})
	require.NoError(t, err)
	assert.Equal(t, "optimize", b.Kind)
}

func TestGetBatchNotFound(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"PIPE_001","message":"pipeline batch not found"}`))
	}))

	_, err := c.GetBatch(context.Background(), uuid.New())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "PIPE_001", apiErr.Code)
}

func TestClientRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(PipelineBatch{BatchID: uuid.New()})
	}))

	_, err := c.Generate(context.Background(), GenerateRequest{Requirements: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"COMMON_002","message":"bad request"}`))
	}))

	_, err := c.Generate(context.Background(), GenerateRequest{})
	require.Error(t, err)
	assert.Equal(t, int64(1), calls.Load())
}

func TestClientExhaustsRetries(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.Generate(context.Background(), GenerateRequest{Requirements: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
}
