// The apiserver command runs the MolForge pipeline API: LLM-backed molecule
// generation and optimization, structure validation, ADMET enrichment, and
// batch retrieval.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/MolForge-AI/internal/application/generation"
	"github.com/turtacn/MolForge-AI/internal/config"
	"github.com/turtacn/MolForge-AI/internal/domain/batch"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/database/postgres"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/database/redis"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolForge-AI/internal/intelligence/admet"
	"github.com/turtacn/MolForge-AI/internal/intelligence/chemistry"
	"github.com/turtacn/MolForge-AI/internal/intelligence/extraction"
	"github.com/turtacn/MolForge-AI/internal/intelligence/llm"
	httpserver "github.com/turtacn/MolForge-AI/internal/interfaces/http"
	"github.com/turtacn/MolForge-AI/internal/interfaces/http/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (env-only when empty)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
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
	logger.Info("starting apiserver", logging.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Infrastructure.
	conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	if cfg.Database.MigrationPath != "" {
		if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := redis.NewClient(ctx, redis.ClientConfig{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:    cfg.Kafka.Brokers,
		MaxRetries: cfg.Kafka.ProducerRetries,
		BatchSize:  cfg.Kafka.BatchSize,
	}, logger)
	defer producer.Close()

	metrics := prometheus.NewMetrics()

	// Pipeline stages.
	cache := redis.NewCache(redisClient, logger)
	engine := chemistry.NewCachedEngine(
		chemistry.NewHTTPEngine(chemistry.EngineConfig{
			BaseURL:        cfg.Chemistry.BaseURL,
			RequestTimeout: cfg.Chemistry.RequestTimeout,
		}, logger),
		cache, cfg.Chemistry.CacheTTL, logger)

	svc := generation.NewService(
		llm.NewClient(llm.ClientConfig{
			BaseURL:        cfg.LLM.BaseURL,
			APIKey:         cfg.LLM.APIKey,
			Model:          cfg.LLM.Model,
			Temperature:    cfg.LLM.Temperature,
			MaxTokens:      cfg.LLM.MaxTokens,
			RequestTimeout: cfg.LLM.RequestTimeout,
		}, logger),
		extraction.NewExtractor(extraction.DefaultExtractorConfig()),
		chemistry.NewValidator(engine, cfg.Pipeline.ValidationConcurrency, logger),
		admet.NewEnricher(
			admet.NewHTTPPredictor(admet.PredictorConfig{
				BaseURL:        cfg.ADMET.BaseURL,
				RequestTimeout: cfg.ADMET.RequestTimeout,
			}, logger),
			admet.DefaultCategories,
			cfg.Pipeline.EnrichmentConcurrency,
			logger),
		batch.NewAssembler(nil),
		repositories.NewBatchRepository(pool, logger),
		producer,
		metrics,
		generation.Options{
			EnrichmentConcurrency: cfg.Pipeline.EnrichmentConcurrency,
			MaxRecordsPerBatch:    cfg.Pipeline.MaxRecordsPerBatch,
		},
		logger,
	)

	// HTTP surface.
	var limiter *redis.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = redis.NewRateLimiter(redisClient,
			cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window, logger)
	}

	routerCfg := httpserver.RouterConfig{
		GenerationHandler: handlers.NewGenerationHandler(svc, logger),
		BatchHandler:      handlers.NewBatchHandler(svc),
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.Check{
			"postgres": conn.HealthCheck,
			"redis":    redisClient.Ping,
		}, logger),
		Logger:  logger,
		Metrics: metrics,
	}
	if limiter != nil {
		routerCfg.RateLimiter = limiter
	}

	server := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return server.Stop(context.Background())
}
