package client

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// GenerateRequest asks the pipeline to propose new candidate molecules.
type GenerateRequest struct {
	Requirements string `json:"requirements"`
}

// OptimizeRequest asks the pipeline to improve an existing molecule.
type OptimizeRequest struct {
	SMILES         string   `json:"smiles"`
	TargetProperty string   `json:"target_property"`
	Constraints    []string `json:"constraints,omitempty"`
}

// PredictionValue is one predicted ADMET property.
type PredictionValue struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// EnrichedProperties carries the ADMET predictions for one record, with any
// per-category failures listed rather than failing the record.
type EnrichedProperties struct {
	Predictions      map[string]PredictionValue `json:"predictions"`
	PredictionErrors map[string]string          `json:"prediction_errors,omitempty"`
}

// MoleculeRecord is one validated, enriched candidate in a batch.
type MoleculeRecord struct {
	ID                 uuid.UUID           `json:"id"`
	Notation           string              `json:"notation"`
	RawToken           string              `json:"raw_token"`
	DisplayName        string              `json:"display_name"`
	BaselineProperties map[string]float64  `json:"baseline_properties"`
	Enriched           *EnrichedProperties `json:"enriched,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// PipelineBatch is the result of one generate or optimize run.
type PipelineBatch struct {
	BatchID    uuid.UUID        `json:"batch_id"`
	Kind       string           `json:"kind"`
	SourceText string           `json:"source_text"`
	ModelID    string           `json:"model_id"`
	Records    []MoleculeRecord `json:"records"`
	Warnings   []string         `json:"warnings,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Generate runs the de-novo generation pipeline.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*PipelineBatch, error) {
	var b PipelineBatch
	if err := c.do(ctx, http.MethodPost, "/api/v1/molecules/generate", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Optimize runs the lead-optimisation pipeline.
func (c *Client) Optimize(ctx context.Context, req OptimizeRequest) (*PipelineBatch, error) {
	var b PipelineBatch
	if err := c.do(ctx, http.MethodPost, "/api/v1/molecules/optimize", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBatch fetches a previously stored batch by id.
func (c *Client) GetBatch(ctx context.Context, id uuid.UUID) (*PipelineBatch, error) {
	var b PipelineBatch
	if err := c.do(ctx, http.MethodGet, "/api/v1/batches/"+id.String(), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
