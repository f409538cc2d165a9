package chemistry

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolForge-AI/internal/intelligence/extraction"
)

// ValidationStats summarises one validation pass for logging and metrics.
type ValidationStats struct {
	Submitted int
	Valid     int
	Invalid   int
	Failed    int
}

// Validator screens candidate tokens through the chemistry engine.
type Validator interface {
	// Validate parses every token concurrently and returns the survivors in
	// token order.  A token that the engine rejects or that fails transport
	// is silently dropped (logged, counted in stats); validation itself never
	// returns an error short of context cancellation.
	Validate(ctx context.Context, tokens []extraction.StructureToken) ([]ValidatedStructure, ValidationStats, error)
}

type validator struct {
	engine      ChemEngine
	concurrency int64
	logger      logging.Logger
}

// NewValidator constructs a Validator with bounded engine concurrency.
func NewValidator(engine ChemEngine, concurrency int, logger logging.Logger) Validator {
	if concurrency <= 0 {
		concurrency = 8
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &validator{
		engine:      engine,
		concurrency: int64(concurrency),
		logger:      logger.Named("validator"),
	}
}

func (v *validator) Validate(ctx context.Context, tokens []extraction.StructureToken) ([]ValidatedStructure, ValidationStats, error) {
	stats := ValidationStats{Submitted: len(tokens)}
	if len(tokens) == 0 {
		return []ValidatedStructure{}, stats, nil
	}

	// Order-preserving result slots: slot i belongs to tokens[i] and stays
	// nil when the token is rejected.
	results := make([]*ValidatedStructure, len(tokens))
	outcomes := make([]int, len(tokens)) // 0 none, 1 valid, 2 invalid, 3 failed

	sem := semaphore.NewWeighted(v.concurrency)
	g, gctx := errgroup.WithContext(ctx)

	for i, tok := range tokens {
		i, tok := i, tok
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			parsed, err := v.engine.ParseStructure(gctx, tok.Raw)
			switch {
			case err == nil:
				results[i] = &ValidatedStructure{
					CanonicalSMILES:    parsed.CanonicalSMILES,
					RawToken:           tok.Raw,
					BaselineProperties: parsed.Properties,
				}
				outcomes[i] = 1
			case IsInvalidStructure(err):
				v.logger.Debug("token rejected by engine", logging.String("token", tok.Raw))
				outcomes[i] = 2
			default:
				// Transport or engine failure: reject this token only; an
				// unreachable engine must not fail the batch.
				v.logger.Warn("engine call failed for token",
					logging.String("token", tok.Raw),
					logging.Err(err),
				)
				outcomes[i] = 3
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Only context cancellation can land here.
		return nil, stats, err
	}

	validated := make([]ValidatedStructure, 0, len(tokens))
	for i := range results {
		switch outcomes[i] {
		case 1:
			validated = append(validated, *results[i])
			stats.Valid++
		case 2:
			stats.Invalid++
		case 3:
			stats.Failed++
		}
	}
	return validated, stats, nil
}
