// Package compose orchestrates the amortizer and the path simulators into
// fairness-adjusted Invest and Buy net-worth trajectories under a shared
// monthly savings budget.
package compose

import (
	"math"

	"rentvsbuy-lab/internal/domain"
	"rentvsbuy-lab/internal/montecarlo"
	"rentvsbuy-lab/internal/mortgage"
)

// Compose runs one full comparison. The engine is a stateless pure
// function of the config and its seed.
//
// Steps:
//  1. Validate the config; fail fast before any simulation
//  2. Resolve closing cash and loan principal (down-payment parity)
//  3. Amortize the loan
//  4. Simulate home value paths
//  5. Build the tax-basis grid and the PMI/MIP premium stream
//  6. Assemble monthly housing outflow
//  7. Derive non-negative contribution streams
//  8. Simulate the buy-side liquid portfolio, then the invest portfolio
//  9. Assemble net-worth matrices, applying selling costs at the horizon
//
// A single generator seeds the whole run and is consumed in fixed order
// (home values, buy liquid, invest), so both legs see the same market
// regime and two runs with the same config are bit-identical.
func Compose(cfg *domain.SimulationConfig) (*domain.ComposeResult, error) {
	// 1. Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	paths := cfg.Paths
	months := cfg.Months

	// 2. Closing cash and principal. Financing the upfront MIP inflates
	// the principal; paying it cash inflates the day-0 closing outlay.
	downPayment := cfg.DownPayment()
	financedMIP, cashMIP := mortgage.UpfrontMIP(cfg)
	principal := cfg.BaseLoanAmount() + financedMIP
	closingCash := downPayment + cfg.HomePrice*cfg.ClosingCostRate + cashMIP

	// 3. Amortize
	sched, err := mortgage.Amortize(domain.LoanTerms{
		Principal:  principal,
		AnnualRate: cfg.LoanRate,
		TermMonths: cfg.LoanTermMonths,
	})
	if err != nil {
		return nil, err
	}

	// 4. Home value paths
	gen := montecarlo.NewGenerator(cfg.Seed)
	homePaths := montecarlo.SimulateHome(gen, paths, months, montecarlo.HomeParams{
		InitialValue: cfg.HomePrice,
		Mu:           cfg.HomeMu,
		Sigma:        cfg.HomeSigma,
	})

	// 5. Tax-basis grid and insurance premiums
	basis := basisGrid(cfg, homePaths)
	premiums := mortgage.PremiumStream(mortgage.InsuranceInput{
		Config:   cfg,
		Schedule: sched,
		Basis:    basis,
	})

	// 6. Housing outflow = P&I + property tax + insurance + maintenance
	// + HOA + PMI/MIP. Written in one pass over the premium grid, which
	// is reused in place as the outflow matrix.
	recurringRate := (cfg.PropertyTaxRate + cfg.InsuranceRate + cfg.MaintenanceRate) / 12
	outflow := premiums
	for p := 0; p < paths; p++ {
		basisRow := basis.Row(p)
		row := outflow.Row(p)
		for t := 0; t < months; t++ {
			row[t] += basisRow[t]*recurringRate + cfg.HOAMonthly
			if t < sched.TermMonths() {
				row[t] += sched.Payment
			}
		}
	}

	// 7. Contribution streams. Both legs draw on the same budget; the
	// clamp guarantees no negative contribution ever reaches a simulator.
	savings := growthSeries(cfg.MonthlySavings, cfg.IncomeGrowth, months)
	rent := growthSeries(cfg.Rent, cfg.RentGrowth, months)

	investContrib := domain.NewPathMatrix(paths, months)
	buyContrib := domain.NewPathMatrix(paths, months)
	if cfg.UseSavingsBudget {
		for p := 0; p < paths; p++ {
			outRow := outflow.Row(p)
			iRow := investContrib.Row(p)
			bRow := buyContrib.Row(p)
			for t := 0; t < months; t++ {
				iRow[t] = math.Max(0, savings[t]-rent[t])
				bRow[t] = math.Max(0, savings[t]-outRow[t])
			}
		}
	} else {
		manualInvest := math.Max(0, cfg.ManualInvestMonthly)
		manualBuy := math.Max(0, cfg.ManualBuyMonthly)
		for i := range investContrib.Data {
			investContrib.Data[i] = manualInvest
			buyContrib.Data[i] = manualBuy
		}
	}

	// 8. Equity legs. Buy starts at zero (the cash went into the house);
	// Invest starts at parity with the closing outlay unless overridden.
	equity := montecarlo.EquityParams{
		Mu:    cfg.EquityMu,
		Sigma: cfg.EquitySigma,
		Fee:   cfg.EquityFee,
	}

	buyParams := equity
	buyParams.InitialValue = 0
	buyLiquid := montecarlo.SimulateEquity(gen, buyContrib, buyParams)

	investParams := equity
	if cfg.EnforceParity {
		investParams.InitialValue = closingCash
	} else {
		investParams.InitialValue = cfg.InvestInitial
	}
	investPaths := montecarlo.SimulateEquity(gen, investContrib, investParams)

	// 9. Net worth. Home equity subtracts the balance outstanding at each
	// month (full principal at month 0, zero once the loan terminates).
	homeEquity := homePaths.Clone()
	for p := 0; p < paths; p++ {
		row := homeEquity.Row(p)
		row[0] -= principal
		for t := 1; t <= months; t++ {
			row[t] -= sched.BalanceAt(t - 1)
		}
	}

	if cfg.LiquidateAtHorizon && cfg.SellingCostRate > 0 {
		for p := 0; p < paths; p++ {
			homeEquity.Row(p)[months] -= homePaths.Row(p)[months] * cfg.SellingCostRate
		}
	}

	buyPaths := buyLiquid.Clone()
	buyPaths.AddInPlace(homeEquity)

	return &domain.ComposeResult{
		InvestPaths:    investPaths,
		BuyPaths:       buyPaths,
		BuyLiquidPaths: buyLiquid,
		HomePaths:      homePaths,
		HomeEquity:     homeEquity,
		HousingOutflow: outflow,
		InvestContrib:  investContrib,
		BuyContrib:     buyContrib,
		Rent:           rent,
		Savings:        savings,
		ClosingCash:    closingCash,
		MonthlyPayment: sched.Payment,
		Schedule:       sched,
		Months:         months,
		Paths:          paths,
		Seed:           cfg.Seed,
	}, nil
}

// basisGrid returns the (paths x months) tax-basis values: live simulated
// home values under the current basis, the fixed purchase price otherwise.
func basisGrid(cfg *domain.SimulationConfig, homePaths *domain.PathMatrix) *domain.PathMatrix {
	basis := domain.NewPathMatrix(cfg.Paths, cfg.Months)
	if cfg.TaxBasis == domain.TaxBasisCurrent {
		for p := 0; p < cfg.Paths; p++ {
			copy(basis.Row(p), homePaths.Row(p)[:cfg.Months])
		}
		return basis
	}
	for i := range basis.Data {
		basis.Data[i] = cfg.HomePrice
	}
	return basis
}

// growthSeries builds a monthly series compounding annually from an
// initial value: v * (1+g)^(t/12).
func growthSeries(initial, annualGrowth float64, months int) []float64 {
	out := make([]float64, months)
	if annualGrowth == 0 {
		for t := range out {
			out[t] = initial
		}
		return out
	}
	for t := range out {
		out[t] = initial * math.Pow(1+annualGrowth, float64(t)/12)
	}
	return out
}
