package chemistry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

// EngineConfig holds connection parameters for the chemistry engine service.
type EngineConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// httpEngine is a ChemEngine backed by an RDKit-style HTTP microservice.
type httpEngine struct {
	baseURL string
	client  *http.Client
	logger  logging.Logger
}

// NewHTTPEngine constructs a ChemEngine over the HTTP service at cfg.BaseURL.
func NewHTTPEngine(cfg EngineConfig, logger logging.Logger) ChemEngine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpEngine{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("chem_engine"),
	}
}

type parseRequest struct {
	Notation string `json:"notation"`
}

type parseResponse struct {
	CanonicalSMILES string             `json:"canonical_smiles"`
	Properties      map[string]float64 `json:"properties"`
	Error           string             `json:"error,omitempty"`
}

// ParseStructure submits the notation to the engine's parse endpoint.
// A 400 or 422 response means the notation itself is invalid and yields
// ErrInvalidStructure; any other non-200 response or transport failure is an
// engine-availability error.
func (e *httpEngine) ParseStructure(ctx context.Context, notation string) (*ParsedStructure, error) {
	if notation == "" {
		return nil, ErrInvalidStructure.WithDetail("empty notation")
	}

	body, err := json.Marshal(parseRequest{Notation: notation})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode parse request")
	}

	url := e.baseURL + "/api/v1/parse"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEngineUnavailable, "failed to build parse request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEngineUnavailable, "chemistry engine unreachable")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEngineUnavailable, "failed to read engine response")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fallthrough to decode
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var parsed parseResponse
		_ = json.Unmarshal(respBody, &parsed)
		e.logger.Debug("engine rejected notation",
			logging.String("notation", notation),
			logging.String("reason", parsed.Error),
		)
		return nil, ErrInvalidStructure.WithDetail(parsed.Error)
	default:
		return nil, errors.New(errors.ErrCodeEngineUnavailable,
			fmt.Sprintf("chemistry engine returned status %d", resp.StatusCode))
	}

	var parsed parseResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeParseFailed, "failed to decode engine response")
	}
	if parsed.CanonicalSMILES == "" {
		return nil, errors.New(errors.ErrCodeParseFailed, "engine response missing canonical form")
	}

	props := parsed.Properties
	if props == nil {
		props = map[string]float64{}
	}
	return &ParsedStructure{
		CanonicalSMILES: parsed.CanonicalSMILES,
		Properties:      props,
	}, nil
}
