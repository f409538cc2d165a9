package llm

import (
	"fmt"
	"strings"
)

// GenerateSystemPrompt instructs the model to emit candidate structures as
// plain SMILES strings so the extractor can pick them up.
const GenerateSystemPrompt = `You are a medicinal chemistry assistant. ` +
	`Propose novel small-molecule candidates that satisfy the user's requirements. ` +
	`For every candidate, include its structure as a plain SMILES string on its own line. ` +
	`Do not wrap SMILES strings in code blocks or quotes.`

// OptimizeSystemPrompt instructs the model to propose modified analogues of a
// lead structure.
const OptimizeSystemPrompt = `You are a medicinal chemistry assistant specialised in lead optimisation. ` +
	`Given a lead structure, propose modified analogues that improve the target property ` +
	`while keeping the scaffold recognisable. ` +
	`For every analogue, include its structure as a plain SMILES string on its own line. ` +
	`Do not wrap SMILES strings in code blocks or quotes.`

// BuildGeneratePrompt renders the user prompt for de-novo generation.
func BuildGeneratePrompt(requirements string) string {
	return fmt.Sprintf("Design drug-like molecule candidates meeting these requirements:\n\n%s",
		strings.TrimSpace(requirements))
}

// BuildOptimizePrompt renders the user prompt for lead optimisation.
// Constraints are optional free-text restrictions (e.g. "keep MW under 500").
func BuildOptimizePrompt(smiles, targetProperty string, constraints []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lead structure: %s\n", smiles)
	fmt.Fprintf(&b, "Property to improve: %s\n", targetProperty)
	if len(constraints) > 0 {
		b.WriteString("Constraints:\n")
		for _, c := range constraints {
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(c))
		}
	}
	b.WriteString("\nPropose optimised analogues.")
	return b.String()
}
