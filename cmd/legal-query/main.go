package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/legalintel/legal-intel/internal/common"
	"github.com/legalintel/legal-intel/internal/export"
	"github.com/legalintel/legal-intel/internal/query"
	repo "github.com/legalintel/legal-intel/internal/repository"
)

func main() {
	var (
		limit = flag.Int("limit", 0, "maximum number of results (0 uses QUERY_DEFAULT_LIMIT)")
		out   = flag.String("out", "", "optional XLSX output path for the results")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: legal-query [flags] <natural language query>")
		os.Exit(2)
	}
	raw := strings.Join(flag.Args(), " ")

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	criteria := query.NewParser(cfg.Query.FuzzyThreshold).Parse(raw)
	if criteria == nil {
		fmt.Println("Could not understand query. Try one of:")
		for _, s := range query.Suggestions(raw) {
			fmt.Printf("  - %s\n", s)
		}
		os.Exit(1)
	}

	ctx := context.Background()
	if cfg.Database.DSN == "" {
		fmt.Fprintln(os.Stderr, "Error: DB_URL is required")
		os.Exit(1)
	}

	pool, err := repo.Open(ctx, repo.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening database: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close(pool, logger)

	executor := query.NewExecutor(pool, cfg.Query.DefaultLimit, logger)
	docs, err := executor.Search(ctx, criteria, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: query failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Query type: %s\n", criteria.QueryType)
	if len(docs) == 0 {
		fmt.Println("No documents found. Try one of:")
		for _, s := range query.Suggestions(raw) {
			fmt.Printf("  - %s\n", s)
		}
		return
	}

	fmt.Printf("Results: %d\n", len(docs))
	for _, d := range docs {
		fmt.Printf("  %s  %-12s  %s\n", d.ID, d.Status, d.Filename)
	}

	if *out != "" {
		metadataRepo := repo.NewMetadataRepository(pool, logger)
		exportService := export.NewService(metadataRepo, logger)
		xlsxBytes, err := exportService.ExportDocumentsXLSX(ctx, docs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: export failed: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", *out, err)
			os.Exit(1)
		}
		fmt.Printf("Exported: %s\n", *out)
	}
}
