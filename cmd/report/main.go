// Package main renders the comparison report from stored run summaries
// and the active baseline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"rentvsbuy-lab/internal/observability"
	"rentvsbuy-lab/internal/reporting"
	"rentvsbuy-lab/internal/storage/migrations"
	pgstore "rentvsbuy-lab/internal/storage/postgres"
)

func main() {
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	outputDir := flag.String("output-dir", "output", "Output directory for report files")
	stdout := flag.Bool("stdout", false, "Print markdown to stdout instead of writing files")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatalf("apply postgres migrations: %v", err)
	}

	gen := reporting.NewGenerator(
		pgstore.NewRunSummaryStore(pool),
		pgstore.NewBaselineStore(pool),
	)

	report, err := gen.Generate(ctx)
	if err != nil {
		logger.Fatalf("generate report: %v", err)
	}
	observability.DefaultMetrics.ReportsGenerated.Inc()

	markdown := reporting.RenderMarkdown(report)
	csv := reporting.RenderCSV(report.Runs)

	if *stdout {
		fmt.Print(markdown)
		return
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatalf("create output dir: %v", err)
	}

	mdPath := filepath.Join(*outputDir, "REPORT.md")
	if err := os.WriteFile(mdPath, []byte(markdown), 0o644); err != nil {
		logger.Fatalf("write markdown report: %v", err)
	}

	csvPath := filepath.Join(*outputDir, "runs.csv")
	if err := os.WriteFile(csvPath, []byte(csv), 0o644); err != nil {
		logger.Fatalf("write csv report: %v", err)
	}

	logger.Printf("Wrote %s and %s (%d runs)", mdPath, csvPath, report.DataSummary.TotalRuns)
}
