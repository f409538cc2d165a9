// Package generation orchestrates the AI-to-chemistry validation pipeline:
// language-model completion, token extraction, structure validation, property
// enrichment, batch assembly, persistence and event publication.
package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/turtacn/MolForge-AI/internal/domain/batch"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolForge-AI/internal/intelligence/admet"
	"github.com/turtacn/MolForge-AI/internal/intelligence/chemistry"
	"github.com/turtacn/MolForge-AI/internal/intelligence/extraction"
	"github.com/turtacn/MolForge-AI/internal/intelligence/llm"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

// GenerateInput is the request for a de-novo generation run.
type GenerateInput struct {
	Requirements string `json:"requirements"`
}

// OptimizeInput is the request for a lead-optimisation run.
type OptimizeInput struct {
	SMILES         string   `json:"smiles"`
	TargetProperty string   `json:"target_property"`
	Constraints    []string `json:"constraints,omitempty"`
}

// Publisher emits batch lifecycle events.  Both methods are best-effort from
// the pipeline's perspective: a publish failure is logged and surfaced as a
// warning, never as a pipeline failure.
type Publisher interface {
	BatchCompleted(ctx context.Context, b *batch.PipelineBatch) error
	BatchFailed(ctx context.Context, kind batch.Kind, reason string) error
}

// Options holds pipeline execution tunables.
type Options struct {
	// EnrichmentConcurrency bounds concurrent structure enrichments.
	EnrichmentConcurrency int
	// MaxRecordsPerBatch caps the validated structures carried into
	// assembly; extras are dropped with a warning.
	MaxRecordsPerBatch int
}

func (o Options) withDefaults() Options {
	if o.EnrichmentConcurrency <= 0 {
		o.EnrichmentConcurrency = 4
	}
	if o.MaxRecordsPerBatch <= 0 {
		o.MaxRecordsPerBatch = 50
	}
	return o
}

// Service is the pipeline orchestrator.
type Service interface {
	Generate(ctx context.Context, input GenerateInput) (*batch.PipelineBatch, error)
	Optimize(ctx context.Context, input OptimizeInput) (*batch.PipelineBatch, error)
	GetBatch(ctx context.Context, id uuid.UUID) (*batch.PipelineBatch, error)
}

type service struct {
	completer llm.Client
	extractor extraction.Extractor
	validator chemistry.Validator
	enricher  admet.Enricher
	assembler batch.Assembler
	repo      batch.Repository
	publisher Publisher
	metrics   *prom.Metrics
	opts      Options
	logger    logging.Logger
	now       func() time.Time
}

// NewService wires the pipeline stages together.  Repo, publisher and metrics
// may be nil; the corresponding steps are then skipped.
func NewService(
	completer llm.Client,
	extractor extraction.Extractor,
	validator chemistry.Validator,
	enricher admet.Enricher,
	assembler batch.Assembler,
	repo batch.Repository,
	publisher Publisher,
	metrics *prom.Metrics,
	opts Options,
	logger logging.Logger,
) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &service{
		completer: completer,
		extractor: extractor,
		validator: validator,
		enricher:  enricher,
		assembler: assembler,
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		opts:      opts.withDefaults(),
		logger:    logger.Named("pipeline"),
		now:       time.Now,
	}
}

// Generate runs the full pipeline for free-text requirements.
func (s *service) Generate(ctx context.Context, input GenerateInput) (*batch.PipelineBatch, error) {
	if strings.TrimSpace(input.Requirements) == "" {
		return nil, errors.New(errors.ErrCodeEmptySourceText, "requirements text must not be empty")
	}
	userPrompt := llm.BuildGeneratePrompt(input.Requirements)
	return s.run(ctx, batch.KindGenerate, llm.GenerateSystemPrompt, userPrompt)
}

// Optimize runs the full pipeline for a lead structure.
func (s *service) Optimize(ctx context.Context, input OptimizeInput) (*batch.PipelineBatch, error) {
	if strings.TrimSpace(input.SMILES) == "" {
		return nil, errors.InvalidParam("smiles must not be empty")
	}
	if strings.TrimSpace(input.TargetProperty) == "" {
		return nil, errors.InvalidParam("target_property must not be empty")
	}
	userPrompt := llm.BuildOptimizePrompt(input.SMILES, input.TargetProperty, input.Constraints)
	return s.run(ctx, batch.KindOptimize, llm.OptimizeSystemPrompt, userPrompt)
}

// GetBatch loads a persisted batch.
func (s *service) GetBatch(ctx context.Context, id uuid.UUID) (*batch.PipelineBatch, error) {
	if s.repo == nil {
		return nil, errors.New(errors.ErrCodeBatchNotFound, "batch store not configured")
	}
	return s.repo.GetByID(ctx, id)
}

// run drives the staged pipeline.  Stages execute strictly in sequence with a
// barrier between them; within the validation and enrichment stages the work
// fans out with bounded concurrency and order-preserving result slots.
func (s *service) run(ctx context.Context, kind batch.Kind, systemPrompt, userPrompt string) (*batch.PipelineBatch, error) {
	start := s.now()
	log := s.logger.With(logging.String("kind", string(kind)))

	// Stage 1: completion.  The only stage besides input validation whose
	// failure aborts the run.
	completion, err := s.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		s.observe(kind, "error", s.now().Sub(start))
		s.publishFailure(ctx, kind, err)
		return nil, errors.Wrap(err, errors.CodeUnknown, "completion stage failed")
	}

	// Stage 2: extraction.  Pure; never fails.
	tokens := s.extractor.Extract(completion.Text)
	if s.metrics != nil {
		s.metrics.TokensExtractedTotal.Add(float64(len(tokens)))
	}
	log.Debug("extraction complete",
		logging.Int("tokens", len(tokens)),
		logging.String("model", completion.ModelID),
	)

	var warnings []string

	// Stage 3: validation fan-out.  Per-token failures are absorbed; an
	// error here means the context was cancelled.
	validated, stats, err := s.validator.Validate(ctx, tokens)
	if err != nil {
		s.observe(kind, "cancelled", s.now().Sub(start))
		return nil, errors.Wrap(err, errors.CodeUnknown, "validation stage cancelled")
	}
	if s.metrics != nil {
		s.metrics.StructuresValidated.WithLabelValues("valid").Add(float64(stats.Valid))
		s.metrics.StructuresValidated.WithLabelValues("invalid").Add(float64(stats.Invalid))
		s.metrics.StructuresValidated.WithLabelValues("error").Add(float64(stats.Failed))
	}
	if stats.Failed > 0 {
		warnings = append(warnings,
			fmt.Sprintf("%d candidate(s) skipped: chemistry engine unavailable", stats.Failed))
	}
	if len(validated) > s.opts.MaxRecordsPerBatch {
		warnings = append(warnings,
			fmt.Sprintf("batch truncated to %d records (%d validated)", s.opts.MaxRecordsPerBatch, len(validated)))
		validated = validated[:s.opts.MaxRecordsPerBatch]
	}

	// Stage 4: enrichment fan-out.  Per-category failures are absorbed by
	// the enricher; an error here means the context was cancelled, and a
	// cancelled run must not surface half-enriched records as a batch.
	enriched, err := s.enrichAll(ctx, validated)
	if err != nil {
		s.observe(kind, "cancelled", s.now().Sub(start))
		return nil, errors.Wrap(err, errors.CodeUnknown, "enrichment stage cancelled")
	}

	// Stage 5: assembly.
	records := s.assembler.Assemble(validated, enriched)

	result := &batch.PipelineBatch{
		BatchID:    uuid.New(),
		Kind:       kind,
		SourceText: completion.Text,
		ModelID:    completion.ModelID,
		Records:    records,
		Warnings:   warnings,
		CreatedAt:  s.now(),
	}

	// Stage 6: persistence.  A store failure degrades to a warning; the
	// caller still receives the complete batch.
	if s.repo != nil {
		if err := s.repo.Save(ctx, result); err != nil {
			log.Error("failed to persist batch",
				logging.String("batch_id", result.BatchID.String()),
				logging.Err(err),
			)
			result.Warnings = append(result.Warnings,
				"batch could not be persisted; results are returned but not stored")
		}
	}

	// Stage 7: event publication, best-effort.
	if s.publisher != nil {
		if err := s.publisher.BatchCompleted(ctx, result); err != nil {
			log.Warn("failed to publish batch.completed event",
				logging.String("batch_id", result.BatchID.String()),
				logging.Err(err),
			)
		}
	}

	elapsed := s.now().Sub(start)
	s.observe(kind, "success", elapsed)
	if s.metrics != nil {
		s.metrics.BatchRecordCount.Observe(float64(len(records)))
	}
	log.Info("pipeline run complete",
		logging.String("batch_id", result.BatchID.String()),
		logging.Int("records", len(records)),
		logging.Int("tokens", len(tokens)),
		logging.Duration("elapsed", elapsed),
	)
	return result, nil
}

// enrichAll fans out enrichment with bounded concurrency, writing results
// into index-aligned slots so record order matches validation order.  A
// cancelled context returns the context error and no results: structures
// enriched before the cancellation are discarded rather than mixed with
// abandoned ones.
func (s *service) enrichAll(ctx context.Context, validated []chemistry.ValidatedStructure) ([]*admet.EnrichedProperties, error) {
	if len(validated) == 0 || s.enricher == nil {
		return nil, ctx.Err()
	}

	enriched := make([]*admet.EnrichedProperties, len(validated))
	sem := semaphore.NewWeighted(int64(s.opts.EnrichmentConcurrency))
	g, gctx := errgroup.WithContext(ctx)

	for i, vs := range validated {
		i, vs := i, vs
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)
			enriched[i] = s.enricher.Enrich(gctx, vs.CanonicalSMILES)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return enriched, nil
}

func (s *service) observe(kind batch.Kind, outcome string, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.ObservePipeline(string(kind), outcome, elapsed)
	}
}

func (s *service) publishFailure(ctx context.Context, kind batch.Kind, cause error) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.BatchFailed(ctx, kind, cause.Error()); err != nil {
		s.logger.Warn("failed to publish batch.failed event", logging.Err(err))
	}
}
