package chemistry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

func newTestEngine(t *testing.T, handler http.HandlerFunc) ChemEngine {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPEngine(EngineConfig{BaseURL: srv.URL, RequestTimeout: 5 * time.Second}, logging.NewNopLogger())
}

func TestParseStructureSuccess(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/parse", r.URL.Path)

		var req parseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "CCO", req.Notation)

		json.NewEncoder(w).Encode(parseResponse{
			CanonicalSMILES: "CCO",
			Properties:      map[string]float64{"mw": 46.07, "logp": -0.31},
		})
	})

	parsed, err := engine.ParseStructure(context.Background(), "CCO")
	require.NoError(t, err)
	assert.Equal(t, "CCO", parsed.CanonicalSMILES)
	assert.Equal(t, 46.07, parsed.Properties["mw"])
}

func TestParseStructureInvalidNotation(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(parseResponse{Error: "unclosed ring"})
	})

	_, err := engine.ParseStructure(context.Background(), "C1=CC")
	require.Error(t, err)
	assert.True(t, IsInvalidStructure(err))
	assert.Contains(t, err.Error(), "unclosed ring")
}

func TestParseStructureEngineError(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := engine.ParseStructure(context.Background(), "CCO")
	require.Error(t, err)
	assert.False(t, IsInvalidStructure(err))
	assert.Equal(t, errors.ErrCodeEngineUnavailable, errors.GetCode(err))
}

func TestParseStructureEngineUnreachable(t *testing.T) {
	t.Parallel()

	// Port 1 is never listening.
	engine := NewHTTPEngine(EngineConfig{BaseURL: "http://127.0.0.1:1", RequestTimeout: time.Second}, nil)

	_, err := engine.ParseStructure(context.Background(), "CCO")
	require.Error(t, err)
	assert.False(t, IsInvalidStructure(err))
	assert.Equal(t, errors.ErrCodeEngineUnavailable, errors.GetCode(err))
}

func TestParseStructureEmptyNotation(t *testing.T) {
	t.Parallel()

	engine := NewHTTPEngine(EngineConfig{BaseURL: "http://127.0.0.1:1"}, nil)
	_, err := engine.ParseStructure(context.Background(), "")
	require.Error(t, err)
	assert.True(t, IsInvalidStructure(err))
}

func TestParseStructureMissingCanonicalForm(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(parseResponse{Properties: map[string]float64{"mw": 1}})
	})

	_, err := engine.ParseStructure(context.Background(), "CCO")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeParseFailed, errors.GetCode(err))
}

func TestParseStructureRoundTrip(t *testing.T) {
	t.Parallel()

	// The engine canonicalises on first parse; the canonical form must parse
	// to itself.
	canonical := map[string]string{
		"OCC":             "CCO",
		"CCO":             "CCO",
		"c1ccccc1":        "c1ccccc1",
		"C1=CC=CC=C1":     "c1ccccc1",
	}
	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		var req parseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		canon, ok := canonical[req.Notation]
		if !ok {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(parseResponse{Error: "unknown"})
			return
		}
		json.NewEncoder(w).Encode(parseResponse{CanonicalSMILES: canon, Properties: map[string]float64{}})
	})

	for _, notation := range []string{"OCC", "C1=CC=CC=C1"} {
		first, err := engine.ParseStructure(context.Background(), notation)
		require.NoError(t, err)

		second, err := engine.ParseStructure(context.Background(), first.CanonicalSMILES)
		require.NoError(t, err)
		assert.Equal(t, first.CanonicalSMILES, second.CanonicalSMILES)
	}
}
