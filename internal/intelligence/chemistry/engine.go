// Package chemistry validates candidate structure notations against an
// external structural-chemistry engine and produces canonical, property-
// annotated structures for downstream enrichment.
package chemistry

import (
	"context"

	"github.com/turtacn/MolForge-AI/pkg/errors"
)

// ParsedStructure is the engine's canonical view of one notation.
// Properties is a flat descriptor map (molecular weight, logP, TPSA, hydrogen
// bond donors/acceptors, ring count — whatever the engine computes).
type ParsedStructure struct {
	CanonicalSMILES string             `json:"canonical_smiles"`
	Properties      map[string]float64 `json:"properties"`
}

// ChemEngine parses a structure notation into canonical form.  ParseStructure
// is idempotent and side-effect-free: the same notation always yields the
// same canonical structure or the same class of error.
type ChemEngine interface {
	ParseStructure(ctx context.Context, notation string) (*ParsedStructure, error)
}

// ErrInvalidStructure is returned when the engine determined the notation is
// not chemically parseable.  It is a semantic verdict, distinct from the
// engine being unreachable, and is checked via IsInvalidStructure.
var ErrInvalidStructure = errors.New(errors.ErrCodeInvalidNotation, "invalid structure notation")

// IsInvalidStructure reports whether err represents a semantically invalid
// notation rather than a transport or engine failure.
func IsInvalidStructure(err error) bool {
	return errors.IsCode(err, errors.ErrCodeInvalidNotation)
}

// ValidatedStructure is a notation that survived engine validation.  It is
// immutable after creation; the canonical form is guaranteed re-parseable by
// the same engine.
type ValidatedStructure struct {
	CanonicalSMILES    string             `json:"canonical_smiles"`
	RawToken           string             `json:"raw_token"`
	BaselineProperties map[string]float64 `json:"baseline_properties"`
}
