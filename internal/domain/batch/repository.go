package batch

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the append-only batch store.  Batches are written exactly
// once and never updated; GetByID returns a CodeBatchNotFound AppError for
// unknown ids.
type Repository interface {
	Save(ctx context.Context, b *PipelineBatch) error
	GetByID(ctx context.Context, id uuid.UUID) (*PipelineBatch, error)
}
