// The worker command consumes pipeline batch events and archives completed
// batches to object storage.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/MolForge-AI/internal/config"
	"github.com/turtacn/MolForge-AI/internal/domain/batch"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/storage/minio"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (env-only when empty)")
	flag.Parse()

	if err := run(*configPath); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	logger.Info("starting worker", logging.String("group", cfg.Kafka.GroupID))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	archiver, err := minio.NewArchiver(ctx, cfg.MinIO, logger)
	if err != nil {
		return err
	}

	consumer := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:      cfg.Kafka.Brokers,
		GroupID:      cfg.Kafka.GroupID,
		Topic:        kafka.TopicBatchCompleted,
		StartOffset:  cfg.Kafka.AutoOffsetReset,
		MaxRetries:   cfg.Worker.MaxRetries,
		RetryBackoff: cfg.Worker.RetryBackoff,
	}, archiveHandler(archiver), logger)
	defer consumer.Close()

	return consumer.Run(ctx)
}

// archiveHandler decodes completed-batch events and writes each batch to
// object storage.
func archiveHandler(archiver *minio.Archiver) kafka.Handler {
	return func(ctx context.Context, envelope kafka.EventEnvelope) error {
		var b batch.PipelineBatch
		if err := json.Unmarshal(envelope.Payload, &b); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "undecodable batch payload")
		}
		_, err := archiver.ArchiveBatch(ctx, &b)
		return err
	}
}
