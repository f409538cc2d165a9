// Package batch holds the pipeline's output domain model: molecule records
// and the immutable batch that groups one pipeline run's results.
package batch

import (
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/MolForge-AI/internal/intelligence/admet"
)

// Kind distinguishes the two pipeline entry points.
type Kind string

const (
	KindGenerate Kind = "generate"
	KindOptimize Kind = "optimize"
)

// Valid reports whether k is a known batch kind.
func (k Kind) Valid() bool {
	return k == KindGenerate || k == KindOptimize
}

// MoleculeRecord is one validated, enriched candidate.  Records are immutable
// after assembly; Enriched is nil only when enrichment was skipped entirely.
type MoleculeRecord struct {
	ID                 uuid.UUID                 `json:"id"`
	Notation           string                    `json:"notation"` // canonical SMILES
	RawToken           string                    `json:"raw_token"`
	DisplayName        string                    `json:"display_name"`
	BaselineProperties map[string]float64        `json:"baseline_properties"`
	Enriched           *admet.EnrichedProperties `json:"enriched,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
}

// PipelineBatch is the immutable result of one pipeline run.  Persistence is
// append-only keyed by BatchID; a batch is never updated after it has been
// returned to a caller.
type PipelineBatch struct {
	BatchID    uuid.UUID        `json:"batch_id"`
	Kind       Kind             `json:"kind"`
	SourceText string           `json:"source_text"`
	ModelID    string           `json:"model_id"`
	Records    []MoleculeRecord `json:"records"`
	Warnings   []string         `json:"warnings,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// RecordCount returns the number of records; nil-safe.
func (b *PipelineBatch) RecordCount() int {
	if b == nil {
		return 0
	}
	return len(b.Records)
}
