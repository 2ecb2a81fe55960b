package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/legalintel/legal-intel/internal/common"
	"github.com/legalintel/legal-intel/internal/llm/openai"
	"github.com/legalintel/legal-intel/internal/metadata"
	"github.com/legalintel/legal-intel/internal/pipeline"
	repo "github.com/legalintel/legal-intel/internal/repository"
	"github.com/legalintel/legal-intel/internal/storage"
	"github.com/legalintel/legal-intel/internal/textract"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	pool, err := repo.Open(ctx, repo.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close(pool, logger)

	docsRepo := repo.NewDocumentRepository(pool, logger)
	contentsRepo := repo.NewContentRepository(pool, logger)
	metadataRepo := repo.NewMetadataRepository(pool, logger)
	jobsRepo := repo.NewJobRepository(pool, logger)

	store, err := storage.NewMinioStore(ctx, storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	}, logger)
	if err != nil {
		logger.Error("failed to connect object store", "error", err)
		os.Exit(1)
	}

	var ai metadata.Extractor
	if cfg.LLM.APIKey != "" {
		ai = openai.NewClient(openai.Config{
			Model:       cfg.LLM.Model,
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	} else {
		logger.Warn("OpenAI API key not configured, metadata extraction will use rules only")
	}

	coordinator := metadata.NewCoordinator(metadataRepo, ai, metadata.NewRuleEngine(logger), logger)
	processor := pipeline.NewProcessor(docsRepo, contentsRepo, jobsRepo, store,
		textract.New(logger), coordinator,
		pipeline.Config{MaxRetries: cfg.Extraction.MaxRetries, RetryDelay: cfg.Extraction.RetryDelay},
		logger)
	batch := pipeline.NewBatch(docsRepo, processor, logger)
	scheduler := pipeline.NewScheduler(batch, processor, cfg.Batch.SweepInterval, logger)

	if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler exited", "error", err)
		os.Exit(1)
	}
}
