// Package stats reduces path matrices to percentile bands, comparison
// probabilities and drawdown metrics.
package stats

import (
	"math"
	"sort"

	"rentvsbuy-lab/internal/domain"
)

// Bands computes P10/P50/P90 per month across the path dimension. A
// single scratch buffer is sorted column by column; the input is not
// modified.
func Bands(m *domain.PathMatrix) domain.BandSeries {
	bands := domain.BandSeries{
		P10: make([]float64, m.Cols),
		P50: make([]float64, m.Cols),
		P90: make([]float64, m.Cols),
	}
	scratch := make([]float64, m.Paths)
	for col := 0; col < m.Cols; col++ {
		m.Column(col, scratch)
		sort.Float64s(scratch)
		bands.P10[col] = percentile(scratch, 0.10)
		bands.P50[col] = percentile(scratch, 0.50)
		bands.P90[col] = percentile(scratch, 0.90)
	}
	return bands
}

// ProbAGreaterB returns the fraction of paths where a exceeds b at the
// given month index. Negative index counts from the end (-1 = terminal).
func ProbAGreaterB(a, b *domain.PathMatrix, month int) float64 {
	domain.MustSameShape(a, b)
	if month < 0 {
		month += a.Cols
	}
	count := 0
	for p := 0; p < a.Paths; p++ {
		if a.At(p, month) > b.At(p, month) {
			count++
		}
	}
	return float64(count) / float64(a.Paths)
}

// MaxDrawdown returns each path's worst running peak-to-trough decline as
// a negative fraction of the peak (0 means the path never declined).
func MaxDrawdown(m *domain.PathMatrix) []float64 {
	out := make([]float64, m.Paths)
	for p := 0; p < m.Paths; p++ {
		row := m.Row(p)
		peak := row[0]
		worst := 0.0
		for _, v := range row {
			if v > peak {
				peak = v
			}
			if peak != 0 {
				if dd := (v - peak) / peak; dd < worst {
					worst = dd
				}
			}
		}
		out[p] = worst
	}
	return out
}

// DeflateInPlace restates every value at month t in real dollars by
// dividing by (1+cpiMonthly)^t. The monthly rate is derived geometrically
// from the annual CPI so annual compounding matches the configured rate.
// Deflation is monotonic within a month, so percentile ordering survives.
func DeflateInPlace(m *domain.PathMatrix, annualCPI float64) {
	if annualCPI == 0 {
		return
	}
	monthly := math.Pow(1+annualCPI, 1.0/12) - 1
	factors := make([]float64, m.Cols)
	for t := range factors {
		factors[t] = 1 / math.Pow(1+monthly, float64(t))
	}
	for p := 0; p < m.Paths; p++ {
		row := m.Row(p)
		for t, f := range factors {
			row[t] *= f
		}
	}
}

// Summarize aggregates a composed run. When the config requests real
// dollars both net-worth matrices are deflated first (on copies; the
// compose result stays in nominal terms).
func Summarize(res *domain.ComposeResult, cfg *domain.SimulationConfig) *domain.StatsResult {
	invest := res.InvestPaths
	buy := res.BuyPaths
	if cfg.RealDollars {
		invest = invest.Clone()
		buy = buy.Clone()
		DeflateInPlace(invest, cfg.CPI)
		DeflateInPlace(buy, cfg.CPI)
	}

	out := &domain.StatsResult{
		Invest:             Bands(invest),
		Buy:                Bands(buy),
		ProbInvestBeatsBuy: ProbAGreaterB(invest, buy, -1),
		InvestDrawdown:     summarizeDrawdown(MaxDrawdown(invest)),
		BuyDrawdown:        summarizeDrawdown(MaxDrawdown(buy)),
		RealDollars:        cfg.RealDollars,
	}
	out.InvestTerminalP50 = out.Invest.TerminalP50()
	out.BuyTerminalP50 = out.Buy.TerminalP50()
	return out
}

// Snapshot freezes a stats result into an immutable baseline capture.
func Snapshot(id, label string, createdAt int64, res *domain.StatsResult) *domain.BaselineSnapshot {
	return &domain.BaselineSnapshot{
		SnapshotID:         id,
		CreatedAt:          createdAt,
		Label:              label,
		Invest:             cloneBands(res.Invest),
		Buy:                cloneBands(res.Buy),
		ProbInvestBeatsBuy: res.ProbInvestBeatsBuy,
		InvestTerminalP50:  res.InvestTerminalP50,
		BuyTerminalP50:     res.BuyTerminalP50,
	}
}

// DeltaVsBaseline restates a result as differences against a frozen
// snapshot. Band deltas are truncated to the shorter horizon when the
// baseline was captured with a different one.
func DeltaVsBaseline(res *domain.StatsResult, base *domain.BaselineSnapshot) *domain.BaselineDelta {
	n := len(res.Invest.P50)
	if len(base.Invest.P50) < n {
		n = len(base.Invest.P50)
	}
	delta := &domain.BaselineDelta{
		SnapshotID:     base.SnapshotID,
		InvestP50:      make([]float64, n),
		BuyP50:         make([]float64, n),
		InvestTerminal: res.InvestTerminalP50 - base.InvestTerminalP50,
		BuyTerminal:    res.BuyTerminalP50 - base.BuyTerminalP50,
		Prob:           res.ProbInvestBeatsBuy - base.ProbInvestBeatsBuy,
	}
	for t := 0; t < n; t++ {
		delta.InvestP50[t] = res.Invest.P50[t] - base.Invest.P50[t]
		delta.BuyP50[t] = res.Buy.P50[t] - base.Buy.P50[t]
	}
	return delta
}

// percentile uses linear interpolation. sorted must be pre-sorted ASC.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

func summarizeDrawdown(dd []float64) domain.DrawdownSummary {
	if len(dd) == 0 {
		return domain.DrawdownSummary{}
	}
	sorted := make([]float64, len(dd))
	copy(sorted, dd)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range dd {
		sum += v
	}
	return domain.DrawdownSummary{
		Mean:   sum / float64(len(dd)),
		Median: percentile(sorted, 0.50),
		Worst:  sorted[0],
	}
}

func cloneBands(b domain.BandSeries) domain.BandSeries {
	out := domain.BandSeries{
		P10: make([]float64, len(b.P10)),
		P50: make([]float64, len(b.P50)),
		P90: make([]float64, len(b.P90)),
	}
	copy(out.P10, b.P10)
	copy(out.P50, b.P50)
	copy(out.P90, b.P90)
	return out
}
