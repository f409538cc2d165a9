// Package admet enriches validated structures with predicted ADMET
// (absorption, distribution, metabolism, excretion, toxicity) properties
// from an external prediction service.
package admet

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

// DefaultCategories is the standard ADMET category set predicted for every
// structure unless the deployment configures its own list.
var DefaultCategories = []string{
	"absorption",
	"distribution",
	"metabolism",
	"excretion",
	"toxicity",
}

// PredictionValue is a single predicted property.
type PredictionValue struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Predictor produces one property prediction per category.  Predict is
// idempotent: the same canonical structure and category always yield the same
// value (model versions aside).
type Predictor interface {
	Predict(ctx context.Context, canonicalSMILES, category string) (PredictionValue, error)
}

// PredictorConfig holds connection parameters for the prediction service.
type PredictorConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type httpPredictor struct {
	baseURL string
	client  *http.Client
	logger  logging.Logger
}

// NewHTTPPredictor constructs a Predictor over the HTTP service at
// cfg.BaseURL.
func NewHTTPPredictor(cfg PredictorConfig, logger logging.Logger) Predictor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &httpPredictor{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("admet"),
	}
}

type predictRequest struct {
	SMILES   string `json:"smiles"`
	Category string `json:"category"`
}

type predictResponse struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func (p *httpPredictor) Predict(ctx context.Context, canonicalSMILES, category string) (PredictionValue, error) {
	body, err := json.Marshal(predictRequest{SMILES: canonicalSMILES, Category: category})
	if err != nil {
		return PredictionValue{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode predict request")
	}

	url := p.baseURL + "/api/v1/predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return PredictionValue{}, errors.Wrap(err, errors.ErrCodePredictionFailed, "failed to build predict request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return PredictionValue{}, errors.Wrap(err, errors.ErrCodePredictorTimeout, "prediction cancelled or timed out")
		}
		return PredictionValue{}, errors.Wrap(err, errors.ErrCodePredictionFailed, "prediction service unreachable")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return PredictionValue{}, errors.Wrap(err, errors.ErrCodePredictionFailed, "failed to read prediction response")
	}

	if resp.StatusCode != http.StatusOK {
		var pr predictResponse
		_ = json.Unmarshal(respBody, &pr)
		detail := pr.Error
		if detail == "" {
			detail = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return PredictionValue{}, errors.New(errors.ErrCodePredictionFailed,
			fmt.Sprintf("prediction failed for category %s", category)).WithDetail(detail)
	}

	var pr predictResponse
	if err := json.Unmarshal(respBody, &pr); err != nil {
		return PredictionValue{}, errors.Wrap(err, errors.ErrCodePredictionFailed, "failed to decode prediction response")
	}

	return PredictionValue{Value: pr.Value, Unit: pr.Unit, Confidence: pr.Confidence}, nil
}
