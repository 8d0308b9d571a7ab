package montecarlo

import (
	"math"

	"rentvsbuy-lab/internal/domain"
)

// EquityParams configures one equity simulation leg.
type EquityParams struct {
	InitialValue float64
	Mu           float64 // annual drift
	Sigma        float64 // annual volatility
	Fee          float64 // annual fee drag subtracted from drift
}

// SimulateEquity grows a portfolio under monthly GBM with per-path,
// per-month contributions added post-growth at the end of each month:
//
//	value[t+1] = value[t] * exp(logReturn[t]) + contribution[t]
//
// Monthly log-returns have mean (mu - fee - sigma^2/2)/12 and standard
// deviation sigma/sqrt(12). With mu = sigma = 0 the recurrence collapses
// to pure linear accumulation of contributions, exactly.
//
// Contributions must already be non-negative; clamping is the composer's
// job, not re-done here. The returned matrix has months+1 columns with
// the initial value at column 0.
func SimulateEquity(gen *Generator, contributions *domain.PathMatrix, p EquityParams) *domain.PathMatrix {
	paths := contributions.Paths
	months := contributions.Cols

	noise := gen.NoiseGrid(paths, months)

	drift := (p.Mu - p.Fee - 0.5*p.Sigma*p.Sigma) / 12
	vol := p.Sigma / math.Sqrt(12)

	// Reuse the noise grid in place as the growth-factor grid.
	for i, z := range noise.Data {
		noise.Data[i] = math.Exp(drift + vol*z)
	}

	values := domain.NewPathMatrix(paths, months+1)
	for path := 0; path < paths; path++ {
		growth := noise.Row(path)
		contrib := contributions.Row(path)
		row := values.Row(path)
		row[0] = p.InitialValue
		for t := 0; t < months; t++ {
			row[t+1] = row[t]*growth[t] + contrib[t]
		}
	}
	return values
}
