package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
)

// reader abstracts kafka.Reader for testing.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one decoded event.  A nil return commits the offset.
type Handler func(ctx context.Context, envelope EventEnvelope) error

// ConsumerConfig holds the reader parameters for one topic subscription.
type ConsumerConfig struct {
	Brokers      []string
	GroupID      string
	Topic        string
	StartOffset  string // "earliest" | "latest"
	MaxRetries   int
	RetryBackoff time.Duration
}

func (c *ConsumerConfig) applyDefaults() {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = time.Second
	}
}

// Consumer runs a fetch-handle-commit loop over one topic.  A message whose
// handler keeps failing after the retry budget is committed anyway so one
// poison message cannot stall the partition.
type Consumer struct {
	r       reader
	handler Handler
	logger  logging.Logger
	retries int
	backoff time.Duration
}

// NewConsumer constructs a Consumer in cfg.GroupID reading cfg.Topic.
func NewConsumer(cfg ConsumerConfig, handler Handler, logger logging.Logger) *Consumer {
	cfg.applyDefaults()
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	startOffset := kafka.LastOffset
	if cfg.StartOffset == "earliest" {
		startOffset = kafka.FirstOffset
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: startOffset,
		MinBytes:    1,
		MaxBytes:    10 << 20,
	})
	return newConsumer(r, cfg, handler, logger)
}

func newConsumer(r reader, cfg ConsumerConfig, handler Handler, logger logging.Logger) *Consumer {
	return &Consumer{
		r:       r,
		handler: handler,
		logger:  logger.Named("kafka_consumer"),
		retries: cfg.MaxRetries,
		backoff: cfg.RetryBackoff,
	}
}

// Run consumes until ctx is cancelled.  The context error is returned so the
// caller can distinguish shutdown from transport failure.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("fetch failed", logging.Err(err))
			return err
		}

		c.handle(ctx, msg)

		if err := c.r.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("offset commit failed", logging.Err(err))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	var envelope EventEnvelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		c.logger.Warn("discarding undecodable message",
			logging.String("topic", msg.Topic), logging.Int64("offset", msg.Offset), logging.Err(err))
		return
	}
	if envelope.Version > EnvelopeVersion {
		c.logger.Warn("skipping event from newer producer",
			logging.String("type", envelope.Type), logging.Int("version", envelope.Version))
		return
	}

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}
		err := c.handler(ctx, envelope)
		if err == nil {
			return
		}
		c.logger.Warn("event handler failed",
			logging.String("type", envelope.Type),
			logging.Int("attempt", attempt+1),
			logging.Err(err),
		)
	}
	c.logger.Error("dropping event after retries exhausted",
		logging.String("type", envelope.Type),
		logging.String("event_id", envelope.EventID.String()),
	)
}

// Close shuts the underlying reader down.
func (c *Consumer) Close() error {
	return c.r.Close()
}
