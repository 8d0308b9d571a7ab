// Package main provides a one-shot simulation CLI: resolve a city preset,
// apply flag overrides, run the fairness-composed comparison and print the
// aggregated result.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"rentvsbuy-lab/internal/compose"
	"rentvsbuy-lab/internal/domain"
	"rentvsbuy-lab/internal/idhash"
	"rentvsbuy-lab/internal/observability"
	"rentvsbuy-lab/internal/presets"
	"rentvsbuy-lab/internal/stats"
	"rentvsbuy-lab/internal/storage"
	chstore "rentvsbuy-lab/internal/storage/clickhouse"
	"rentvsbuy-lab/internal/storage/memory"
	"rentvsbuy-lab/internal/storage/migrations"
	pgstore "rentvsbuy-lab/internal/storage/postgres"
)

func main() {
	// Scenario selection
	city := flag.String("city", presets.CityGlobal, "City preset: "+strings.Join(presets.Names(), ", "))

	// Overrides (only applied when the flag is set explicitly)
	months := flag.Int("months", 0, "Horizon in months")
	paths := flag.Int("paths", 0, "Number of Monte Carlo paths")
	seed := flag.Int64("seed", 0, "Generator seed")
	savings := flag.Float64("savings", 0, "Monthly savings budget")
	incomeGrowth := flag.Float64("income-growth", 0, "Annual income growth rate")
	rent := flag.Float64("rent", 0, "Initial monthly rent")
	rentGrowth := flag.Float64("rent-growth", 0, "Annual rent growth rate")
	homePrice := flag.Float64("home-price", 0, "Home purchase price")
	downPaymentPct := flag.Float64("down-payment-pct", 0, "Down payment fraction of price")
	loanRate := flag.Float64("loan-rate", 0, "Annual loan rate")
	loanTermMonths := flag.Int("loan-term-months", 0, "Loan term in months")
	loanType := flag.String("loan-type", "", "Loan type: FHA or CONVENTIONAL")
	homeMu := flag.Float64("home-mu", 0, "Annual home appreciation drift")
	homeSigma := flag.Float64("home-sigma", 0, "Annual home volatility")
	equityMu := flag.Float64("equity-mu", 0, "Annual equity drift")
	equitySigma := flag.Float64("equity-sigma", 0, "Annual equity volatility")
	realDollars := flag.Bool("real-dollars", false, "Deflate outputs by CPI")
	noLiquidate := flag.Bool("no-liquidate", false, "Skip selling-cost liquidation at horizon")

	// Storage
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	persist := flag.Bool("persist", false, "Persist run summary and bands to storage")

	// Baseline
	captureBaseline := flag.Bool("capture-baseline", false, "Freeze this run as the new baseline snapshot")
	baselineLabel := flag.String("baseline-label", "", "Label for the captured baseline")
	diffBaseline := flag.Bool("diff-baseline", false, "Report deltas against the latest baseline")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[simulate] ", log.LstdFlags)

	cfg, err := presets.ForCity(*city)
	if err != nil {
		logger.Fatalf("resolve preset: %v", err)
	}

	// Apply only the overrides the caller actually set
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "months":
			cfg.Months = *months
		case "paths":
			cfg.Paths = *paths
		case "seed":
			cfg.Seed = *seed
		case "savings":
			cfg.MonthlySavings = *savings
		case "income-growth":
			cfg.IncomeGrowth = *incomeGrowth
		case "rent":
			cfg.Rent = *rent
		case "rent-growth":
			cfg.RentGrowth = *rentGrowth
		case "home-price":
			cfg.HomePrice = *homePrice
		case "down-payment-pct":
			cfg.DownPaymentPct = *downPaymentPct
		case "loan-rate":
			cfg.LoanRate = *loanRate
		case "loan-term-months":
			cfg.LoanTermMonths = *loanTermMonths
		case "loan-type":
			cfg.LoanType = domain.LoanType(strings.ToUpper(*loanType))
		case "home-mu":
			cfg.HomeMu = *homeMu
		case "home-sigma":
			cfg.HomeSigma = *homeSigma
		case "equity-mu":
			cfg.EquityMu = *equityMu
		case "equity-sigma":
			cfg.EquitySigma = *equitySigma
		case "real-dollars":
			cfg.RealDollars = *realDollars
		case "no-liquidate":
			cfg.LiquidateAtHorizon = !*noLiquidate
		}
	})

	if err := cfg.Validate(); err != nil {
		observability.RecordValidationFailure()
		logger.Fatalf("invalid configuration: %v", err)
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

	// Create stores
	var (
		baselineStore storage.BaselineStore = memory.NewBaselineStore()
		runStore      storage.RunSummaryStore
		bandStore     storage.BandTimeseriesStore
		cleanup       = func() {}
	)

	needsStorage := *persist || *captureBaseline || *diffBaseline
	if needsStorage && *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			logger.Fatalf("apply postgres migrations: %v", err)
		}
		baselineStore = pgstore.NewBaselineStore(pool)
		runStore = pgstore.NewRunSummaryStore(pool)
		cleanup = pool.Close

		if *clickhouseDSN != "" {
			conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
			if err != nil {
				pool.Close()
				logger.Fatalf("connect to clickhouse: %v", err)
			}
			bandStore = chstore.NewBandTimeseriesStore(conn)
			cleanup = func() {
				conn.Close()
				pool.Close()
			}
		}
	}
	defer cleanup()

	// Run simulation
	logger.Printf("Running comparison: city=%s months=%d paths=%d seed=%d",
		*city, cfg.Months, cfg.Paths, cfg.Seed)

	start := time.Now()
	res, err := compose.Compose(&cfg)
	if err != nil {
		observability.RecordRun(*city, "error", time.Since(start).Seconds(), cfg.Paths, cfg.Months)
		logger.Fatalf("simulation failed: %v", err)
	}
	result := stats.Summarize(res, &cfg)
	observability.RecordRun(*city, "ok", time.Since(start).Seconds(), cfg.Paths, cfg.Months)

	runID, err := idhash.ComputeRunID(&cfg)
	if err != nil {
		logger.Fatalf("compute run id: %v", err)
	}
	now := time.Now().UTC().Unix()

	// Persist run summary and band rows
	if *persist {
		if runStore == nil {
			logger.Fatal("--persist requires --postgres-dsn")
		}
		summary := buildRunSummary(runID, *city, now, &cfg, res, result)
		if err := runStore.Insert(ctx, summary); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				logger.Printf("run %s already recorded, skipping summary insert", runID)
			} else {
				logger.Fatalf("persist run summary: %v", err)
			}
		}
		if bandStore != nil {
			points := domain.FlattenBands(runID, domain.SeriesInvest, result.Invest)
			points = append(points, domain.FlattenBands(runID, domain.SeriesBuy, result.Buy)...)
			if err := bandStore.InsertBulk(ctx, points); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
				logger.Fatalf("persist bands: %v", err)
			}
		}
		logger.Printf("Persisted run %s", runID)
	}

	// Baseline operations
	var delta *domain.BaselineDelta
	if *diffBaseline {
		base, err := baselineStore.GetLatest(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				logger.Print("no baseline captured yet, skipping diff")
			} else {
				logger.Fatalf("load baseline: %v", err)
			}
		} else {
			delta = stats.DeltaVsBaseline(result, base)
			observability.RecordBaselineDiff()
		}
	}
	if *captureBaseline {
		snapID := idhash.ComputeSnapshotID(runID, now)
		snap := stats.Snapshot(snapID, *baselineLabel, now, result)
		if err := baselineStore.Insert(ctx, snap); err != nil {
			logger.Fatalf("capture baseline: %v", err)
		}
		observability.RecordBaselineCaptured()
		logger.Printf("Captured baseline %s", snapID)
	}

	// Output result
	if *outputJSON {
		payload := struct {
			RunID          string                `json:"runId"`
			City           string                `json:"city"`
			ClosingCash    float64               `json:"closingCash"`
			MonthlyPayment float64               `json:"monthlyPayment"`
			Stats          *domain.StatsResult   `json:"stats"`
			Delta          *domain.BaselineDelta `json:"delta,omitempty"`
		}{runID, *city, res.ClosingCash, res.MonthlyPayment, result, delta}
		output, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Println(string(output))
	} else {
		printResult(runID, *city, res, result, delta)
	}
}

// buildRunSummary flattens a finished run into its persisted scalar record.
func buildRunSummary(runID, city string, createdAt int64, cfg *domain.SimulationConfig, res *domain.ComposeResult, sr *domain.StatsResult) *domain.RunSummary {
	return &domain.RunSummary{
		RunID:               runID,
		City:                city,
		CreatedAt:           createdAt,
		Months:              cfg.Months,
		Paths:               cfg.Paths,
		Seed:                cfg.Seed,
		ClosingCash:         res.ClosingCash,
		MonthlyPayment:      res.MonthlyPayment,
		InvestTerminalP50:   sr.InvestTerminalP50,
		BuyTerminalP50:      sr.BuyTerminalP50,
		ProbInvestBeatsBuy:  sr.ProbInvestBeatsBuy,
		InvestWorstDrawdown: sr.InvestDrawdown.Worst,
		BuyWorstDrawdown:    sr.BuyDrawdown.Worst,
	}
}

// printResult writes a human-readable summary to stdout.
func printResult(runID, city string, res *domain.ComposeResult, sr *domain.StatsResult, delta *domain.BaselineDelta) {
	fmt.Printf("Run:             %s\n", runID)
	fmt.Printf("City:            %s\n", city)
	fmt.Printf("Closing cash:    %.2f\n", res.ClosingCash)
	fmt.Printf("Monthly payment: %.2f\n", res.MonthlyPayment)
	fmt.Println()
	fmt.Printf("Invest terminal P50: %.2f\n", sr.InvestTerminalP50)
	fmt.Printf("Buy terminal P50:    %.2f\n", sr.BuyTerminalP50)
	fmt.Printf("P(Invest > Buy):     %.4f\n", sr.ProbInvestBeatsBuy)
	fmt.Printf("Invest drawdown:     mean=%.4f median=%.4f worst=%.4f\n",
		sr.InvestDrawdown.Mean, sr.InvestDrawdown.Median, sr.InvestDrawdown.Worst)
	fmt.Printf("Buy drawdown:        mean=%.4f median=%.4f worst=%.4f\n",
		sr.BuyDrawdown.Mean, sr.BuyDrawdown.Median, sr.BuyDrawdown.Worst)
	if sr.RealDollars {
		fmt.Println("Values are in real (CPI-deflated) dollars.")
	}
	if delta != nil {
		fmt.Println()
		fmt.Printf("Vs baseline %s:\n", delta.SnapshotID)
		fmt.Printf("  Invest terminal delta: %.2f\n", delta.InvestTerminal)
		fmt.Printf("  Buy terminal delta:    %.2f\n", delta.BuyTerminal)
		fmt.Printf("  Probability delta:     %.4f\n", delta.Prob)
	}
}
