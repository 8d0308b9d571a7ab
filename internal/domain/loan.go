package domain

// LoanTerms is the amortizer input derived from a SimulationConfig.
type LoanTerms struct {
	Principal  float64
	AnnualRate float64
	TermMonths int
}

// MonthlyRate returns the periodic rate. Zero-rate loans are a required
// closed-form path, not an error.
func (t LoanTerms) MonthlyRate() float64 {
	return t.AnnualRate / 12
}

// AmortizationSchedule holds per-month payment decomposition as parallel
// slices of length TermMonths so downstream math can operate on whole
// columns at once.
//
// Invariants: Interest[i] + Principal[i] == Payment for every month except
// possibly the final clamped month; Balance[len-1] == 0; the principal
// column sums to the original principal.
type AmortizationSchedule struct {
	Payment   float64   // fixed monthly P&I payment
	Interest  []float64 // interest portion per month
	Principal []float64 // principal portion per month
	Balance   []float64 // remaining balance after each month's payment
}

// TermMonths returns the schedule length.
func (s *AmortizationSchedule) TermMonths() int {
	return len(s.Balance)
}

// BalanceAt returns the remaining balance after month m's payment. Months
// beyond the loan term report zero (the loan is paid off).
func (s *AmortizationSchedule) BalanceAt(m int) float64 {
	if m >= len(s.Balance) {
		return 0
	}
	return s.Balance[m]
}
