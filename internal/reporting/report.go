package reporting

import "time"

// Report summarizes every persisted run plus the active baseline.
type Report struct {
	// Metadata
	GeneratedAt time.Time

	// Data Summary
	DataSummary DataSummary

	// Run rows (sorted by created_at, run_id)
	Runs []RunRow

	// Per-city aggregation across runs
	CityComparison []CityComparisonRow

	// Latest baseline snapshot, nil when none has been captured
	Baseline *BaselineRow
}

// DataSummary describes the stored run population.
type DataSummary struct {
	TotalRuns      int
	Cities         int
	TotalPaths     int   // paths simulated across all runs
	DateRangeStart int64 // Unix seconds
	DateRangeEnd   int64 // Unix seconds
}

// RunRow represents one row in the run table.
type RunRow struct {
	RunID     string
	City      string
	CreatedAt int64
	Months    int
	Paths     int
	Seed      int64

	ClosingCash    float64
	MonthlyPayment float64

	InvestTerminalP50  float64
	BuyTerminalP50     float64
	ProbInvestBeatsBuy float64

	InvestWorstDrawdown float64
	BuyWorstDrawdown    float64
}

// CityComparisonRow aggregates run outcomes per city preset.
type CityComparisonRow struct {
	City string
	Runs int

	// Means across the city's runs.
	ProbInvestBeatsBuy float64
	InvestTerminalP50  float64
	BuyTerminalP50     float64
}

// BaselineRow summarizes the latest frozen snapshot.
type BaselineRow struct {
	SnapshotID string
	CreatedAt  int64
	Label      string

	ProbInvestBeatsBuy float64
	InvestTerminalP50  float64
	BuyTerminalP50     float64
}
