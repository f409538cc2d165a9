package admet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolForge-AI/pkg/errors"
)

// scriptedPredictor returns canned results per category.
type scriptedPredictor struct {
	values map[string]PredictionValue
	fails  map[string]bool
}

func (s *scriptedPredictor) Predict(_ context.Context, _, category string) (PredictionValue, error) {
	if s.fails[category] {
		return PredictionValue{}, errors.New(errors.ErrCodePredictionFailed, "model offline")
	}
	return s.values[category], nil
}

func TestEnrichAllCategoriesSucceed(t *testing.T) {
	t.Parallel()

	p := &scriptedPredictor{values: map[string]PredictionValue{
		"absorption":   {Value: 0.82, Confidence: 0.9},
		"distribution": {Value: 1.4, Unit: "L/kg"},
		"toxicity":     {Value: 0.05},
	}}
	e := NewEnricher(p, []string{"absorption", "distribution", "toxicity"}, 2, nil)

	result := e.Enrich(context.Background(), "CCO")
	require.NotNil(t, result)
	assert.Len(t, result.Predictions, 3)
	assert.Empty(t, result.PredictionErrors)
	assert.Equal(t, 0.82, result.Predictions["absorption"].Value)
	assert.Equal(t, "L/kg", result.Predictions["distribution"].Unit)
}

func TestEnrichPartialFailureTwoOfThree(t *testing.T) {
	t.Parallel()

	p := &scriptedPredictor{
		values: map[string]PredictionValue{
			"absorption":   {Value: 0.82},
			"distribution": {Value: 1.4},
		},
		fails: map[string]bool{"toxicity": true},
	}
	e := NewEnricher(p, []string{"absorption", "distribution", "toxicity"}, 2, nil)

	result := e.Enrich(context.Background(), "CCO")

	assert.Len(t, result.Predictions, 2)
	assert.Contains(t, result.Predictions, "absorption")
	assert.Contains(t, result.Predictions, "distribution")
	// The failed category is absent from Predictions, present in errors, and
	// gets no default value.
	assert.NotContains(t, result.Predictions, "toxicity")
	require.Len(t, result.PredictionErrors, 1)
	require.Contains(t, result.PredictionErrors, "toxicity")
	assert.Contains(t, result.PredictionErrors["toxicity"], "model offline")
}

func TestEnrichAllCategoriesFail(t *testing.T) {
	t.Parallel()

	p := &scriptedPredictor{fails: map[string]bool{
		"absorption": true, "distribution": true, "toxicity": true,
	}}
	e := NewEnricher(p, []string{"absorption", "distribution", "toxicity"}, 2, nil)

	result := e.Enrich(context.Background(), "CCO")
	require.NotNil(t, result, "total prediction failure still yields a result")
	assert.Empty(t, result.Predictions)
	assert.Len(t, result.PredictionErrors, 3)
}

func TestEnrichDeterministicAcrossRuns(t *testing.T) {
	t.Parallel()

	p := &scriptedPredictor{
		values: map[string]PredictionValue{"absorption": {Value: 0.82}},
		fails:  map[string]bool{"distribution": true, "toxicity": true},
	}
	e := NewEnricher(p, []string{"absorption", "distribution", "toxicity"}, 3, nil)

	first := e.Enrich(context.Background(), "CCO")
	second := e.Enrich(context.Background(), "CCO")

	// Idempotent and independent of goroutine scheduling.
	assert.Equal(t, first.Predictions, second.Predictions)
	assert.Equal(t, first.PredictionErrors, second.PredictionErrors)
}

func TestEnrichDefaultCategories(t *testing.T) {
	t.Parallel()

	p := &scriptedPredictor{values: map[string]PredictionValue{}}
	e := NewEnricher(p, nil, 0, nil)

	result := e.Enrich(context.Background(), "CCO")
	assert.Len(t, result.Predictions, len(DefaultCategories))
}
