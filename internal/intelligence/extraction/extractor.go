// Package extraction scans free-form language-model output for candidate
// chemical structure notations.  The scan is deliberately over-inclusive:
// anything that plausibly looks like a SMILES string is emitted, and the
// downstream chemistry engine decides what is actually parseable.
package extraction

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// StructureToken is a single candidate notation found in text.  Start and End
// are byte offsets into the text passed to Extract, so callers can slice the
// original input to reconstruct context.
type StructureToken struct {
	Raw   string `json:"raw"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// ExtractorConfig holds tuneable parameters for token extraction.
type ExtractorConfig struct {
	// MinTokenLength is the shortest candidate worth sending to the engine.
	// Shorter strings are almost always prose fragments.
	MinTokenLength int `json:"min_token_length" yaml:"min_token_length"`
}

// DefaultExtractorConfig returns production-ready defaults.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{MinTokenLength: 5}
}

// Extractor finds candidate structure notations in free text.
type Extractor interface {
	Extract(text string) []StructureToken
}

type extractor struct {
	config ExtractorConfig
}

// NewExtractor constructs an Extractor.  Zero or negative MinTokenLength
// falls back to the default.
func NewExtractor(config ExtractorConfig) Extractor {
	if config.MinTokenLength <= 0 {
		config.MinTokenLength = DefaultExtractorConfig().MinTokenLength
	}
	return &extractor{config: config}
}

// organicAtoms are the element symbols a candidate must contain at least one
// of.  Covers the core organic subset plus aromatic lowercase forms.
var organicAtoms = map[rune]bool{
	'C': true, 'N': true, 'O': true, 'S': true, 'P': true,
	'B': true, 'F': true, 'I': true,
	'c': true, 'n': true, 'o': true, 's': true,
}

// Extract is pure and deterministic: the same text always yields the same
// tokens in the same order.  Empty input yields an empty slice, never nil
// handling burden or an error.
func (e *extractor) Extract(text string) []StructureToken {
	tokens := []StructureToken{}
	if text == "" {
		return tokens
	}

	for _, span := range lexSpans(text) {
		candidate := text[span.start:span.end]
		if e.accept(candidate) {
			tokens = append(tokens, StructureToken{
				Raw:   candidate,
				Start: span.start,
				End:   span.end,
			})
		}
	}
	return tokens
}

// accept applies the candidate filter: minimum length, not URL-shaped, at
// least one organic atom symbol and at least one structural character.
func (e *extractor) accept(s string) bool {
	if len(s) < e.config.MinTokenLength {
		return false
	}
	if looksLikeURL(s) {
		return false
	}

	hasAtom := false
	hasStructure := false
	for _, r := range s {
		if organicAtoms[r] {
			hasAtom = true
		}
		switch r {
		case '(', ')', '[', ']', '=', '#':
			hasStructure = true
		}
	}
	return hasAtom && hasStructure
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "http") ||
		strings.Contains(lower, "://") ||
		strings.Contains(lower, "www.")
}

// isNotationChar reports whether r can appear inside a structure notation:
// alphanumerics plus the SMILES structural punctuation set.
func isNotationChar(r rune) bool {
	if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
		return true
	}
	switch r {
	case '(', ')', '[', ']', '=', '#', '@', '+', '-', '\\', '/', '%', '{', '}', '.':
		return true
	}
	return false
}

type span struct {
	start int
	end   int
}

// lexSpans splits text into maximal runs of notation characters, with spans
// indexing the caller's text.  Characters are classified on their NFC form:
// a base letter carrying combining marks composes to a non-ASCII cluster and
// breaks the run, the same as its precomposed spelling would.  Trailing
// sentence punctuation ('.', a valid SMILES character for disconnected
// fragments, but far more often a full stop) is stripped from each run.
func lexSpans(text string) []span {
	var spans []span
	inRun := false
	runStart := 0
	flush := func(end int) {
		if inRun {
			spans = appendTrimmed(spans, text, runStart, end)
			inRun = false
		}
	}

	var it norm.Iter
	it.InitString(norm.NFC, text)
	for !it.Done() {
		segStart := it.Pos()
		seg := it.Next()
		if !isASCII(seg) {
			flush(segStart)
			continue
		}
		// ASCII is NFC-invariant, so seg maps byte-for-byte onto
		// text[segStart:segStart+len(seg)].
		for j := 0; j < len(seg); j++ {
			if isNotationChar(rune(seg[j])) {
				if !inRun {
					runStart = segStart + j
					inRun = true
				}
				continue
			}
			flush(segStart + j)
		}
	}
	flush(len(text))
	return spans
}

func isASCII(b []byte) bool {
	for i := 0; i < len(b); i++ {
		if b[i] >= 0x80 {
			return false
		}
	}
	return true
}

func appendTrimmed(spans []span, text string, start, end int) []span {
	for end > start && text[end-1] == '.' {
		end--
	}
	if end > start {
		spans = append(spans, span{start: start, end: end})
	}
	return spans
}
