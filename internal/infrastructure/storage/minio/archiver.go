// Package minio archives completed pipeline batches as JSON objects.  The
// worker writes one object per batch so downstream tooling can fetch results
// without touching the database.
package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/MolForge-AI/internal/config"
	"github.com/turtacn/MolForge-AI/internal/domain/batch"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

// objectStore is the slice of the minio client the archiver needs; it keeps
// the archiver testable without a live server.
type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// Archiver writes pipeline batches to object storage under
// batches/<batch_id>.json.
type Archiver struct {
	store         objectStore
	bucket        string
	presignExpiry time.Duration
	logger        logging.Logger
}

// NewArchiver connects to the endpoint in cfg and ensures the bucket exists.
func NewArchiver(ctx context.Context, cfg config.MinIOConfig, logger logging.Logger) (*Archiver, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create object storage client")
	}

	a := newArchiver(client, cfg, logger)
	if err := a.ensureBucket(ctx); err != nil {
		return nil, err
	}

	logger.Info("object storage ready",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
	)
	return a, nil
}

func newArchiver(store objectStore, cfg config.MinIOConfig, logger logging.Logger) *Archiver {
	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Archiver{
		store:         store,
		bucket:        cfg.Bucket,
		presignExpiry: expiry,
		logger:        logger.Named("archiver"),
	}
}

func (a *Archiver) ensureBucket(ctx context.Context) error {
	exists, err := a.store.BucketExists(ctx, a.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to check bucket")
	}
	if exists {
		return nil
	}
	if err := a.store.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket")
	}
	return nil
}

// ObjectName returns the storage key for a batch.
func ObjectName(id uuid.UUID) string {
	return fmt.Sprintf("batches/%s.json", id)
}

// ArchiveBatch stores the batch as a JSON object and returns its object name.
func (a *Archiver) ArchiveBatch(ctx context.Context, b *batch.PipelineBatch) (string, error) {
	if b == nil {
		return "", errors.New(errors.ErrCodeBadRequest, "batch must not be nil")
	}

	data, err := json.Marshal(b)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode batch")
	}

	name := ObjectName(b.BatchID)
	_, err = a.store.PutObject(ctx, a.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to store batch")
	}

	a.logger.Info("batch archived",
		logging.String("batch_id", b.BatchID.String()),
		logging.String("object", name),
		logging.Int("bytes", len(data)),
	)
	return name, nil
}

// PresignBatchURL returns a time-limited download link for an archived batch.
func (a *Archiver) PresignBatchURL(ctx context.Context, id uuid.UUID) (string, error) {
	u, err := a.store.PresignedGetObject(ctx, a.bucket, ObjectName(id), a.presignExpiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to presign batch url")
	}
	return u.String(), nil
}
