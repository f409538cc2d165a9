package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/turtacn/MolForge-AI/internal/application/generation"
	"github.com/turtacn/MolForge-AI/internal/domain/batch"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

// writer abstracts kafka.Writer for testing.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerConfig holds publishing parameters.
type ProducerConfig struct {
	Brokers      []string
	MaxRetries   int
	BatchSize    int
	WriteTimeout time.Duration
}

func (c *ProducerConfig) applyDefaults() {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
}

// Producer publishes pipeline lifecycle events.  It implements
// generation.Publisher; the orchestrator treats publish failures as
// best-effort, so Producer only reports them.
type Producer struct {
	w      writer
	logger logging.Logger
	closed atomic.Bool
	now    func() time.Time
}

// NewProducer constructs a Producer writing to cfg.Brokers.  Topic is set
// per message so one writer serves both pipeline topics.
func NewProducer(cfg ProducerConfig, logger logging.Logger) *Producer {
	cfg.applyDefaults()
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.MaxRetries,
		BatchSize:    cfg.BatchSize,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireAll,
	}
	return newProducer(w, logger)
}

func newProducer(w writer, logger logging.Logger) *Producer {
	return &Producer{w: w, logger: logger.Named("kafka_producer"), now: time.Now}
}

var _ generation.Publisher = (*Producer)(nil)

// BatchCompleted publishes the full batch to the completed topic, keyed by
// batch id so a batch's events stay on one partition.
func (p *Producer) BatchCompleted(ctx context.Context, b *batch.PipelineBatch) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode batch event")
	}
	return p.publish(ctx, TopicBatchCompleted, b.BatchID.String(), "batch.completed", payload)
}

// BatchFailed publishes an abort notification for a run that produced no batch.
func (p *Producer) BatchFailed(ctx context.Context, kind batch.Kind, reason string) error {
	payload, err := json.Marshal(BatchFailedPayload{Kind: string(kind), Reason: reason})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode failure event")
	}
	return p.publish(ctx, TopicBatchFailed, string(kind), "batch.failed", payload)
}

func (p *Producer) publish(ctx context.Context, topic, key, eventType string, payload json.RawMessage) error {
	if p.closed.Load() {
		return errors.New(errors.ErrCodeMessageQueueError, "producer closed")
	}

	envelope := EventEnvelope{
		EventID:   uuid.New(),
		Version:   EnvelopeVersion,
		Type:      eventType,
		Timestamp: p.now().UTC(),
		Payload:   payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event envelope")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("event publish failed",
			logging.String("topic", topic), logging.String("type", eventType), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeMessageQueueError, "failed to publish event")
	}
	return nil
}

// Close flushes and closes the writer.  Further publishes are rejected.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.w.Close()
}
