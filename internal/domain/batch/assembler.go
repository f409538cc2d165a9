package batch

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/MolForge-AI/internal/intelligence/admet"
	"github.com/turtacn/MolForge-AI/internal/intelligence/chemistry"
)

// Assembler turns validation and enrichment output into molecule records.
type Assembler interface {
	// Assemble pairs validated[i] with enriched[i] and produces records in
	// validation order.  Display names are "Generated Molecule {n}" with n
	// 1-indexed; CreatedAt is monotonically non-decreasing across the list.
	// An enriched slice shorter than validated leaves the tail records with
	// nil Enriched.
	Assemble(validated []chemistry.ValidatedStructure, enriched []*admet.EnrichedProperties) []MoleculeRecord
}

type assembler struct {
	now func() time.Time
}

// NewAssembler constructs an Assembler.  A nil clock uses time.Now.
func NewAssembler(now func() time.Time) Assembler {
	if now == nil {
		now = time.Now
	}
	return &assembler{now: now}
}

func (a *assembler) Assemble(validated []chemistry.ValidatedStructure, enriched []*admet.EnrichedProperties) []MoleculeRecord {
	records := make([]MoleculeRecord, 0, len(validated))

	var last time.Time
	for i, vs := range validated {
		ts := a.now()
		// Clamp against clock regressions so timestamps stay ordered.
		if ts.Before(last) {
			ts = last
		}
		last = ts

		var props *admet.EnrichedProperties
		if i < len(enriched) {
			props = enriched[i]
		}

		records = append(records, MoleculeRecord{
			ID:                 uuid.New(),
			Notation:           vs.CanonicalSMILES,
			RawToken:           vs.RawToken,
			DisplayName:        fmt.Sprintf("Generated Molecule %d", i+1),
			BaselineProperties: vs.BaselineProperties,
			Enriched:           props,
			CreatedAt:          ts,
		})
	}
	return records
}
