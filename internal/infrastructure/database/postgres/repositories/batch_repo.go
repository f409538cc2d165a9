// Package repositories holds the PostgreSQL implementations of the domain
// repository interfaces.
package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/MolForge-AI/internal/domain/batch"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

// querier abstracts *pgxpool.Pool so the repository can be exercised with a
// fake in tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BatchRepository is the PostgreSQL implementation of batch.Repository.
// Records and warnings are stored as JSONB so the row mirrors the API shape.
type BatchRepository struct {
	q      querier
	logger logging.Logger
}

// NewBatchRepository constructs a BatchRepository over pool.
func NewBatchRepository(pool querier, logger logging.Logger) *BatchRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &BatchRepository{q: pool, logger: logger.Named("batch_repo")}
}

var _ batch.Repository = (*BatchRepository)(nil)

// Save inserts the batch.  Batches are append-only; a duplicate id is a
// conflict, every other failure maps to CodeBatchPersistFailed so the
// pipeline can degrade to a warning.
func (r *BatchRepository) Save(ctx context.Context, b *batch.PipelineBatch) error {
	if b == nil {
		return errors.New(errors.ErrCodeBadRequest, "batch must not be nil")
	}

	recordsJSON, err := json.Marshal(b.Records)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode batch records")
	}
	warningsJSON, err := json.Marshal(b.Warnings)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode batch warnings")
	}

	_, err = r.q.Exec(ctx, `
		INSERT INTO pipeline_batches (
			batch_id, kind, source_text, model_id, records, warnings, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.BatchID, string(b.Kind), b.SourceText, b.ModelID,
		recordsJSON, warningsJSON, b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.ErrCodeConflict, "batch already persisted").
				WithDetail(b.BatchID.String())
		}
		r.logger.Error("batch insert failed",
			logging.String("batch_id", b.BatchID.String()), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeBatchPersistFailed, "failed to persist batch")
	}
	return nil
}

// GetByID loads one batch; unknown ids yield CodeBatchNotFound.
func (r *BatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*batch.PipelineBatch, error) {
	row := r.q.QueryRow(ctx, `
		SELECT batch_id, kind, source_text, model_id, records, warnings, created_at
		FROM pipeline_batches
		WHERE batch_id = $1`, id)

	var (
		b            batch.PipelineBatch
		kind         string
		recordsJSON  []byte
		warningsJSON []byte
	)
	err := row.Scan(&b.BatchID, &kind, &b.SourceText, &b.ModelID,
		&recordsJSON, &warningsJSON, &b.CreatedAt)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New(errors.ErrCodeBatchNotFound, "batch not found").
			WithDetail(id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load batch")
	}

	b.Kind = batch.Kind(kind)
	if len(recordsJSON) > 0 {
		if err := json.Unmarshal(recordsJSON, &b.Records); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode batch records")
		}
	}
	if len(warningsJSON) > 0 {
		if err := json.Unmarshal(warningsJSON, &b.Warnings); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode batch warnings")
		}
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == "23505"
}
