package mortgage

import (
	"rentvsbuy-lab/internal/domain"
)

// InsuranceInput bundles the streams the premium policy evaluates against.
// Basis is the (paths x months) LTV denominator and PMI premium base:
// simulated home values under the current tax basis, the constant original
// price otherwise.
type InsuranceInput struct {
	Config   *domain.SimulationConfig
	Schedule *domain.AmortizationSchedule
	Basis    *domain.PathMatrix
}

// PremiumStream computes the monthly PMI/MIP charge per path per month.
//
// Conventional: PMI = basis * rate/12, charged while LTV > PMIRemoveLTV.
// Removal is monotonic per path: once LTV crosses the threshold downward
// the premium stays zero even if a later value dip re-crosses it.
//
// FHA: MIP = remaining balance * rate/12 for the life of the loan, unless
// MIPRemoveLTV is configured, in which case removal follows the same
// monotonic rule once LTV falls below the threshold.
func PremiumStream(in InsuranceInput) *domain.PathMatrix {
	cfg := in.Config
	months := in.Basis.Cols
	premiums := domain.NewPathMatrix(in.Basis.Paths, months)

	switch cfg.LoanType {
	case domain.LoanTypeConventional:
		monthlyRate := cfg.PMIRate / 12
		for p := 0; p < in.Basis.Paths; p++ {
			basis := in.Basis.Row(p)
			out := premiums.Row(p)
			removed := false
			for t := 0; t < months; t++ {
				if removed {
					break // zero thereafter, permanently
				}
				balance := in.Schedule.BalanceAt(t)
				if balance/basis[t] <= cfg.PMIRemoveLTV {
					removed = true
					continue
				}
				out[t] = basis[t] * monthlyRate
			}
		}

	case domain.LoanTypeFHA:
		monthlyRate := cfg.MIPRate / 12
		for p := 0; p < in.Basis.Paths; p++ {
			basis := in.Basis.Row(p)
			out := premiums.Row(p)
			removed := false
			for t := 0; t < months; t++ {
				if removed {
					break
				}
				balance := in.Schedule.BalanceAt(t)
				if cfg.MIPRemoveLTV != nil && balance/basis[t] < *cfg.MIPRemoveLTV {
					removed = true
					continue
				}
				out[t] = balance * monthlyRate
			}
		}
	}

	return premiums
}

// UpfrontMIP returns (principalAddon, closingCash) for the one-time FHA
// premium. Financing and paying cash are mutually exclusive; conventional
// loans return zeros.
func UpfrontMIP(cfg *domain.SimulationConfig) (financed, cash float64) {
	if cfg.LoanType != domain.LoanTypeFHA {
		return 0, 0
	}
	upfront := cfg.BaseLoanAmount() * cfg.MIPUpfrontRate
	if cfg.FinanceUpfrontMIP {
		return upfront, 0
	}
	return 0, upfront
}
