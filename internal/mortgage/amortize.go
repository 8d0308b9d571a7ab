// Package mortgage provides deterministic loan amortization and the
// mortgage-insurance premium policy. Nothing here is randomized.
package mortgage

import (
	"fmt"
	"math"

	"rentvsbuy-lab/internal/domain"
)

// MonthlyPayment returns the fixed P&I payment for the terms using the
// standard annuity formula. A zero-rate loan pays principal/term exactly.
func MonthlyPayment(terms domain.LoanTerms) float64 {
	n := float64(terms.TermMonths)
	r := terms.MonthlyRate()
	if r == 0 {
		return terms.Principal / n
	}
	return terms.Principal * r / (1 - math.Pow(1+r, -n))
}

// Amortize produces the full monthly schedule for the terms.
// Steps:
//  1. Validate terms (term > 0, principal >= 0)
//  2. Compute the fixed payment
//  3. Walk the balance month by month: interest = balance * r,
//     principal = payment - interest
//  4. Clamp the final month's principal to the remaining balance so the
//     schedule terminates at exactly zero despite float drift
func Amortize(terms domain.LoanTerms) (*domain.AmortizationSchedule, error) {
	if terms.TermMonths <= 0 {
		return nil, fmt.Errorf("%w: loan term must be positive, got %d", domain.ErrInvalidConfig, terms.TermMonths)
	}
	if terms.Principal < 0 {
		return nil, fmt.Errorf("%w: principal must be non-negative, got %f", domain.ErrInvalidConfig, terms.Principal)
	}

	n := terms.TermMonths
	payment := MonthlyPayment(terms)
	r := terms.MonthlyRate()

	sched := &domain.AmortizationSchedule{
		Payment:   payment,
		Interest:  make([]float64, n),
		Principal: make([]float64, n),
		Balance:   make([]float64, n),
	}

	if r == 0 {
		// Zero-rate closed form: every payment is pure principal.
		remaining := terms.Principal
		for i := 0; i < n; i++ {
			sched.Principal[i] = payment
			remaining -= payment
			sched.Balance[i] = remaining
		}
		sched.Principal[n-1] += sched.Balance[n-1]
		sched.Balance[n-1] = 0
		return sched, nil
	}

	remaining := terms.Principal
	for i := 0; i < n; i++ {
		interest := remaining * r
		principal := payment - interest
		if i == n-1 {
			// Final month absorbs accumulated rounding drift.
			principal = remaining
		}
		remaining -= principal
		sched.Interest[i] = interest
		sched.Principal[i] = principal
		sched.Balance[i] = remaining
	}
	sched.Balance[n-1] = 0

	return sched, nil
}
