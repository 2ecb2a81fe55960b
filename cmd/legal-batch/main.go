package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/legalintel/legal-intel/internal/common"
	"github.com/legalintel/legal-intel/internal/export"
	"github.com/legalintel/legal-intel/internal/llm/openai"
	"github.com/legalintel/legal-intel/internal/metadata"
	"github.com/legalintel/legal-intel/internal/pipeline"
	repo "github.com/legalintel/legal-intel/internal/repository"
	"github.com/legalintel/legal-intel/internal/storage"
	"github.com/legalintel/legal-intel/internal/textract"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		out     = flag.String("out", "batch-report.xlsx", "output XLSX report path")
		cleanup = flag.Bool("cleanup", true, "mark retry-exhausted documents as failed after the sweep")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
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

	// Wire repositories
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

	// Setup OpenAI client (graceful if missing)
	var ai metadata.Extractor
	if cfg.LLM.APIKey != "" {
		ai = openai.NewClient(openai.Config{
			Model:       cfg.LLM.Model,
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		logger.Info("OpenAI client initialized", "model", cfg.LLM.Model)
	} else {
		logger.Warn("OpenAI API key not configured, metadata extraction will use rules only")
	}

	coordinator := metadata.NewCoordinator(metadataRepo, ai, metadata.NewRuleEngine(logger), logger)
	processor := pipeline.NewProcessor(docsRepo, contentsRepo, jobsRepo, store,
		textract.New(logger), coordinator,
		pipeline.Config{MaxRetries: cfg.Extraction.MaxRetries, RetryDelay: cfg.Extraction.RetryDelay},
		logger)
	batch := pipeline.NewBatch(docsRepo, processor, logger)

	summary, err := batch.Run(ctx)
	if err != nil {
		logger.Error("batch sweep failed", "error", err)
		os.Exit(1)
	}

	if *cleanup {
		if n, err := processor.CleanupFailed(ctx); err != nil {
			logger.Error("cleanup failed", "error", err)
		} else if n > 0 {
			logger.Info("cleanup complete", "marked_failed", n)
		}
	}

	exportService := export.NewService(metadataRepo, logger)
	xlsxBytes, err := exportService.ExportBatchReportXLSX(summary, batch.Failures())
	if err != nil {
		logger.Error("failed to build batch report", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Batch sweep complete!\n")
	fmt.Printf("- Processed: %d\n", summary.Processed)
	fmt.Printf("- Failed: %d\n", summary.Failed)
	fmt.Printf("- Total: %d\n", summary.Total)
	fmt.Printf("- Report: %s\n", *out)
}
