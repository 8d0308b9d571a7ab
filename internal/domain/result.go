package domain

// ComposeResult is the full output of one fairness-composed run. The
// composer owns and exclusively produces every matrix here; nothing is
// mutated after the result is handed to the aggregator.
type ComposeResult struct {
	// Net-worth trajectories, (paths x months+1).
	InvestPaths *PathMatrix
	BuyPaths    *PathMatrix

	// Intermediate series kept for diagnostics, reporting and tests.
	BuyLiquidPaths *PathMatrix // equity value of the buy leg's savings
	HomePaths      *PathMatrix // simulated home values, (paths x months+1)
	HomeEquity     *PathMatrix // home value minus remaining balance
	HousingOutflow *PathMatrix // (paths x months)
	InvestContrib  *PathMatrix // (paths x months), clamped non-negative
	BuyContrib     *PathMatrix // (paths x months), clamped non-negative

	// Deterministic per-month series shared by every path.
	Rent    []float64 // rent obligation per month
	Savings []float64 // savings budget per month (income growth applied)

	// Scalars.
	ClosingCash    float64 // cash committed at closing; parity start for Invest
	MonthlyPayment float64 // fixed P&I payment
	Schedule       *AmortizationSchedule

	Months int
	Paths  int
	Seed   int64
}

// BandSeries holds per-month percentile bands taken across the path
// dimension of one net-worth matrix.
type BandSeries struct {
	P10 []float64 `json:"p10"`
	P50 []float64 `json:"p50"`
	P90 []float64 `json:"p90"`
}

// TerminalP50 returns the median terminal value.
func (b BandSeries) TerminalP50() float64 {
	if len(b.P50) == 0 {
		return 0
	}
	return b.P50[len(b.P50)-1]
}

// DrawdownSummary reduces the per-path max-drawdown vector.
type DrawdownSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Worst  float64 `json:"worst"`
}

// StatsResult is the aggregator's read-only output for one run.
type StatsResult struct {
	Invest BandSeries `json:"invest"`
	Buy    BandSeries `json:"buy"`

	// Fraction of paths where Invest terminal net worth exceeds Buy.
	ProbInvestBeatsBuy float64 `json:"probInvestBeatsBuy"`

	InvestTerminalP50 float64 `json:"investTerminalP50"`
	BuyTerminalP50    float64 `json:"buyTerminalP50"`

	InvestDrawdown DrawdownSummary `json:"investDrawdown"`
	BuyDrawdown    DrawdownSummary `json:"buyDrawdown"`

	// RealDollars records whether the series were deflated before
	// percentile computation.
	RealDollars bool `json:"realDollars"`
}

// BaselineSnapshot is a frozen prior result used as an overlay reference.
// The engine never mutates a snapshot after creation; persistence is the
// storage layer's concern.
type BaselineSnapshot struct {
	SnapshotID string `json:"snapshotId"`
	CreatedAt  int64  `json:"createdAt"` // unix seconds
	Label      string `json:"label,omitempty"`

	Invest BandSeries `json:"invest"`
	Buy    BandSeries `json:"buy"`

	ProbInvestBeatsBuy float64 `json:"probInvestBeatsBuy"`
	InvestTerminalP50  float64 `json:"investTerminalP50"`
	BuyTerminalP50     float64 `json:"buyTerminalP50"`
}

// BaselineDelta restates a StatsResult against a frozen snapshot for
// overlay rendering. Band deltas are month-aligned P50 differences.
type BaselineDelta struct {
	SnapshotID string `json:"snapshotId"`

	InvestP50 []float64 `json:"investP50"` // current minus baseline, per month
	BuyP50    []float64 `json:"buyP50"`

	InvestTerminal float64 `json:"investTerminal"`
	BuyTerminal    float64 `json:"buyTerminal"`
	Prob           float64 `json:"prob"`
}

// RunSummary is the scalar record persisted per completed run.
type RunSummary struct {
	RunID     string
	City      string
	CreatedAt int64 // unix seconds

	Months int
	Paths  int
	Seed   int64

	ClosingCash    float64
	MonthlyPayment float64

	InvestTerminalP50  float64
	BuyTerminalP50     float64
	ProbInvestBeatsBuy float64

	InvestWorstDrawdown float64
	BuyWorstDrawdown    float64
}
