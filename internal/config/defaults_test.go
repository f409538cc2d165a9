package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultDBHost, cfg.Database.Host)
	assert.Equal(t, DefaultDBPort, cfg.Database.Port)
	assert.Equal(t, DefaultDBName, cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, "molforge", cfg.Redis.KeyPrefix)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultKafkaGroupID, cfg.Kafka.GroupID)
	assert.Equal(t, "earliest", cfg.Kafka.AutoOffsetReset)
	assert.Equal(t, DefaultMinIOBucket, cfg.MinIO.Bucket)
	assert.Equal(t, DefaultChemistryBaseURL, cfg.Chemistry.BaseURL)
	assert.Equal(t, DefaultADMETBaseURL, cfg.ADMET.BaseURL)
	assert.Equal(t, DefaultLLMModel, cfg.LLM.Model)
	assert.Equal(t, float32(DefaultLLMTemperature), cfg.LLM.Temperature)
	assert.Equal(t, DefaultLLMMaxTokens, cfg.LLM.MaxTokens)
	assert.Equal(t, DefaultValidationConcurrency, cfg.Pipeline.ValidationConcurrency)
	assert.Equal(t, DefaultEnrichmentConcurrency, cfg.Pipeline.EnrichmentConcurrency)
	assert.Equal(t, DefaultMaxRecordsPerBatch, cfg.Pipeline.MaxRecordsPerBatch)
	assert.Equal(t, DefaultWorkerConcurrency, cfg.Worker.Concurrency)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Database.Host = "db.internal"
	cfg.Kafka.Brokers = []string{"kafka-1:9092", "kafka-2:9092"}
	cfg.LLM.Model = "llama-3-70b"
	cfg.Pipeline.ValidationConcurrency = 32
	cfg.Chemistry.CacheTTL = 30 * time.Minute

	ApplyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Len(t, cfg.Kafka.Brokers, 2)
	assert.Equal(t, "llama-3-70b", cfg.LLM.Model)
	assert.Equal(t, 32, cfg.Pipeline.ValidationConcurrency)
	assert.Equal(t, 30*time.Minute, cfg.Chemistry.CacheTTL)
}

func TestApplyDefaultsNilConfig(t *testing.T) {
	t.Parallel()

	// Must not panic.
	ApplyDefaults(nil)
}
