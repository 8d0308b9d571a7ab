package reporting

import (
	"context"
	"errors"
	"sort"
	"time"

	"rentvsbuy-lab/internal/domain"
	"rentvsbuy-lab/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	runStore      storage.RunSummaryStore
	baselineStore storage.BaselineStore
	now           func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(runStore storage.RunSummaryStore, baselineStore storage.BaselineStore) *Generator {
	return &Generator{
		runStore:      runStore,
		baselineStore: baselineStore,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete report over the stored runs.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	summaries, err := g.runStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt:    g.now(),
		DataSummary:    generateDataSummary(summaries),
		Runs:           generateRunRows(summaries),
		CityComparison: generateCityComparison(summaries),
	}

	baseline, err := g.baselineStore.GetLatest(ctx)
	switch {
	case err == nil:
		report.Baseline = &BaselineRow{
			SnapshotID:         baseline.SnapshotID,
			CreatedAt:          baseline.CreatedAt,
			Label:              baseline.Label,
			ProbInvestBeatsBuy: baseline.ProbInvestBeatsBuy,
			InvestTerminalP50:  baseline.InvestTerminalP50,
			BuyTerminalP50:     baseline.BuyTerminalP50,
		}
	case errors.Is(err, storage.ErrNotFound):
		// No baseline captured yet; the section is simply omitted.
	default:
		return nil, err
	}

	return report, nil
}

// generateDataSummary computes the population summary over run summaries.
func generateDataSummary(summaries []*domain.RunSummary) DataSummary {
	citySet := make(map[string]struct{})
	totalPaths := 0

	var dateRangeStart, dateRangeEnd int64
	if len(summaries) > 0 {
		dateRangeStart = summaries[0].CreatedAt
		dateRangeEnd = summaries[0].CreatedAt
	}

	for _, r := range summaries {
		citySet[r.City] = struct{}{}
		totalPaths += r.Paths
		if r.CreatedAt < dateRangeStart {
			dateRangeStart = r.CreatedAt
		}
		if r.CreatedAt > dateRangeEnd {
			dateRangeEnd = r.CreatedAt
		}
	}

	return DataSummary{
		TotalRuns:      len(summaries),
		Cities:         len(citySet),
		TotalPaths:     totalPaths,
		DateRangeStart: dateRangeStart,
		DateRangeEnd:   dateRangeEnd,
	}
}

// generateRunRows builds sorted run rows.
func generateRunRows(summaries []*domain.RunSummary) []RunRow {
	rows := make([]RunRow, len(summaries))
	for i, r := range summaries {
		rows[i] = RunRow{
			RunID:               r.RunID,
			City:                r.City,
			CreatedAt:           r.CreatedAt,
			Months:              r.Months,
			Paths:               r.Paths,
			Seed:                r.Seed,
			ClosingCash:         r.ClosingCash,
			MonthlyPayment:      r.MonthlyPayment,
			InvestTerminalP50:   r.InvestTerminalP50,
			BuyTerminalP50:      r.BuyTerminalP50,
			ProbInvestBeatsBuy:  r.ProbInvestBeatsBuy,
			InvestWorstDrawdown: r.InvestWorstDrawdown,
			BuyWorstDrawdown:    r.BuyWorstDrawdown,
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt != rows[j].CreatedAt {
			return rows[i].CreatedAt < rows[j].CreatedAt
		}
		return rows[i].RunID < rows[j].RunID
	})
	return rows
}

// generateCityComparison aggregates run outcomes per city.
func generateCityComparison(summaries []*domain.RunSummary) []CityComparisonRow {
	groups := make(map[string][]*domain.RunSummary)
	for _, r := range summaries {
		groups[r.City] = append(groups[r.City], r)
	}

	var rows []CityComparisonRow
	for city, runs := range groups {
		row := CityComparisonRow{City: city, Runs: len(runs)}
		for _, r := range runs {
			row.ProbInvestBeatsBuy += r.ProbInvestBeatsBuy
			row.InvestTerminalP50 += r.InvestTerminalP50
			row.BuyTerminalP50 += r.BuyTerminalP50
		}
		n := float64(len(runs))
		row.ProbInvestBeatsBuy /= n
		row.InvestTerminalP50 /= n
		row.BuyTerminalP50 /= n
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].City < rows[j].City
	})
	return rows
}
