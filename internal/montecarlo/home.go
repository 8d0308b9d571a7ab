package montecarlo

import (
	"math"

	"rentvsbuy-lab/internal/domain"
)

// HomeParams configures a home value simulation.
type HomeParams struct {
	InitialValue float64
	Mu           float64 // annual appreciation drift
	Sigma        float64 // annual volatility
}

// SimulateHome compounds home values under the same monthly GBM as equity
// but with no contribution term:
//
//	value[t+1] = value[t] * exp(logReturn[t])
//
// The result serves both as the terminal sale value and, under the
// current tax basis, as the live base for property tax and insurance.
func SimulateHome(gen *Generator, paths, months int, p HomeParams) *domain.PathMatrix {
	noise := gen.NoiseGrid(paths, months)

	drift := (p.Mu - 0.5*p.Sigma*p.Sigma) / 12
	vol := p.Sigma / math.Sqrt(12)

	for i, z := range noise.Data {
		noise.Data[i] = math.Exp(drift + vol*z)
	}

	values := domain.NewPathMatrix(paths, months+1)
	for path := 0; path < paths; path++ {
		growth := noise.Row(path)
		row := values.Row(path)
		row[0] = p.InitialValue
		for t := 0; t < months; t++ {
			row[t+1] = row[t] * growth[t]
		}
	}
	return values
}
