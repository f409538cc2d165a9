package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEmptyInput(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorConfig())
	tokens := e.Extract("")
	require.NotNil(t, tokens)
	assert.Empty(t, tokens)
}

func TestExtractFindsSMILESCandidates(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorConfig())

	text := "A promising candidate is CC(=O)Oc1ccccc1C(=O)O which resembles aspirin."
	tokens := e.Extract(text)

	require.Len(t, tokens, 1)
	assert.Equal(t, "CC(=O)Oc1ccccc1C(=O)O", tokens[0].Raw)
}

func TestExtractRejectsShortTokens(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorConfig())

	// "C=O" has an atom and a structural char but is below the length floor.
	tokens := e.Extract("the carbonyl C=O group")
	assert.Empty(t, tokens)

	// Every emitted token respects the configured minimum.
	tokens = e.Extract("try C(=O)N and CC(N)C(=O)O here")
	for _, tok := range tokens {
		assert.GreaterOrEqual(t, len(tok.Raw), 5)
	}
}

func TestExtractRejectsURLs(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorConfig())

	cases := []string{
		"see https://example.com/C(=O)N for details",
		"docs at http://chem.io/smiles=CC(N)",
		"visit www.molecules.org/C1=CC=CC=C1",
	}
	for _, text := range cases {
		for _, tok := range e.Extract(text) {
			assert.NotContains(t, tok.Raw, "http", "text: %s", text)
			assert.NotContains(t, tok.Raw, "://", "text: %s", text)
			assert.NotContains(t, tok.Raw, "www.", "text: %s", text)
		}
	}
}

func TestExtractRequiresAtomAndStructure(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorConfig())

	// Long enough, but no structural characters.
	assert.Empty(t, e.Extract("ACCEPTANCE testing"))
	// Structural characters, but no organic atom symbol.
	assert.Empty(t, e.Extract("x=[1]+[2]"))
}

func TestExtractMultipleTokensPreserveOrder(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorConfig())

	text := "First CC(=O)O then c1ccccc1[NH2] and finally CCN(CC)CC=O"
	tokens := e.Extract(text)

	require.Len(t, tokens, 3)
	assert.Equal(t, "CC(=O)O", tokens[0].Raw)
	assert.Equal(t, "c1ccccc1[NH2]", tokens[1].Raw)
	assert.Equal(t, "CCN(CC)CC=O", tokens[2].Raw)
	// Spans are strictly increasing.
	assert.Less(t, tokens[0].End, tokens[1].Start)
	assert.Less(t, tokens[1].End, tokens[2].Start)
}

func TestExtractSpansMatchSource(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorConfig())

	text := "candidate: C1=CC(=O)NC1 done"
	tokens := e.Extract(text)
	require.Len(t, tokens, 1)

	assert.Equal(t, text[tokens[0].Start:tokens[0].End], tokens[0].Raw)
}

func TestExtractSpansIndexOriginalText(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorConfig())

	// Multi-byte runes and uncollapsed whitespace before the token must not
	// shift the reported offsets: slicing the input with them yields Raw.
	for _, text := range []string{
		"Caféine study:\n\n  CC(=O)Oc1ccccc1C(=O)O.",
		"Caféine study:\n\n  CC(=O)Oc1ccccc1C(=O)O.", // decomposed é
	} {
		tokens := e.Extract(text)
		require.Len(t, tokens, 1, text)

		tok := tokens[0]
		assert.Equal(t, "CC(=O)Oc1ccccc1C(=O)O", tok.Raw)
		assert.Equal(t, tok.Raw, text[tok.Start:tok.End])
		assert.Equal(t, strings.Index(text, tok.Raw), tok.Start)
	}
}

func TestExtractStripsTrailingFullStop(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorConfig())

	tokens := e.Extract("The best match is CC(C)Cc1ccc(C)cc1.")
	require.Len(t, tokens, 1)
	assert.Equal(t, "CC(C)Cc1ccc(C)cc1", tokens[0].Raw)
}

func TestExtractDeterministic(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorConfig())
	text := "options: CC(=O)Oc1ccccc1C(=O)O or CN1C=NC2=C1C(=O)N(C)C(=O)N2C"

	first := e.Extract(text)
	second := e.Extract(text)
	assert.Equal(t, first, second)
}

func TestExtractCustomMinLength(t *testing.T) {
	t.Parallel()

	e := NewExtractor(ExtractorConfig{MinTokenLength: 10})
	tokens := e.Extract("short CC(=O)O long CC(=O)Oc1ccccc1C(=O)O")
	require.Len(t, tokens, 1)
	assert.Equal(t, "CC(=O)Oc1ccccc1C(=O)O", tokens[0].Raw)
}
