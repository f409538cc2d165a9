package admet

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
)

// EnrichedProperties carries the per-category outcome for one structure.
// A category appears as a key in exactly one of Predictions or
// PredictionErrors; a failed category never receives a default value.
// PredictionErrors maps the failed category to a human-readable detail.
type EnrichedProperties struct {
	Predictions      map[string]PredictionValue `json:"predictions"`
	PredictionErrors map[string]string          `json:"prediction_errors,omitempty"`
}

// Enricher fans a structure out over the configured category set.
type Enricher interface {
	// Enrich predicts every category concurrently and always returns a
	// result: categories that fail are recorded in PredictionErrors and the
	// rest proceed independently.  Zero successful categories is still a
	// usable (empty) result, not an error.
	Enrich(ctx context.Context, canonicalSMILES string) *EnrichedProperties
}

type enricher struct {
	predictor   Predictor
	categories  []string
	concurrency int64
	logger      logging.Logger
}

// NewEnricher constructs an Enricher.  An empty categories slice falls back
// to DefaultCategories.
func NewEnricher(predictor Predictor, categories []string, concurrency int, logger logging.Logger) Enricher {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &enricher{
		predictor:   predictor,
		categories:  categories,
		concurrency: int64(concurrency),
		logger:      logger.Named("enricher"),
	}
}

func (e *enricher) Enrich(ctx context.Context, canonicalSMILES string) *EnrichedProperties {
	result := &EnrichedProperties{Predictions: make(map[string]PredictionValue, len(e.categories))}

	var mu sync.Mutex
	recordFailure := func(category string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if result.PredictionErrors == nil {
			result.PredictionErrors = make(map[string]string)
		}
		result.PredictionErrors[category] = err.Error()
	}

	sem := semaphore.NewWeighted(e.concurrency)
	g, gctx := errgroup.WithContext(ctx)

	for _, category := range e.categories {
		category := category
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				recordFailure(category, err)
				return nil
			}
			defer sem.Release(1)

			value, err := e.predictor.Predict(gctx, canonicalSMILES, category)
			if err != nil {
				e.logger.Warn("category prediction failed",
					logging.String("category", category),
					logging.Err(err),
				)
				recordFailure(category, err)
				return nil
			}
			mu.Lock()
			result.Predictions[category] = value
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return result
}
