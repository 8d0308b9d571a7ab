package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a SimulationConfig fails validation.
// A run either fully succeeds or reports the first validation violation;
// nothing is simulated on failure.
var ErrInvalidConfig = errors.New("invalid simulation config")

// LoanType selects the mortgage-insurance regime.
type LoanType string

// Loan type constants.
const (
	LoanTypeFHA          LoanType = "FHA"
	LoanTypeConventional LoanType = "CONVENTIONAL"
)

// TaxBasis selects the base value for property tax, insurance and
// maintenance (and the LTV denominator for insurance removal).
type TaxBasis string

// Tax basis constants.
const (
	TaxBasisCurrent  TaxBasis = "current"  // simulated home value, per path per month
	TaxBasisOriginal TaxBasis = "original" // fixed purchase price
)

// SimulationConfig is the immutable input bundle for one composer run.
// All rates are annual fractions (0.06 = 6%) unless named otherwise.
// Callers own the config; the engine treats it as read-only.
type SimulationConfig struct {
	// Horizon and sampling
	Months int   // simulation horizon in months
	Paths  int   // number of Monte Carlo paths
	Seed   int64 // deterministic generator seed

	// Shared budget
	MonthlySavings float64 // S: total monthly savings budget at month 0
	IncomeGrowth   float64 // annual growth applied to the savings budget

	// Rent leg
	Rent       float64 // initial monthly rent
	RentGrowth float64 // annual rent growth

	// Purchase and loan
	HomePrice      float64
	DownPaymentPct float64 // fraction of home price
	LoanRate       float64 // annual mortgage rate
	LoanTermMonths int

	// Recurring ownership costs
	PropertyTaxRate float64 // annual, on the tax-basis value
	InsuranceRate   float64 // annual homeowners insurance, on the tax-basis value
	MaintenanceRate float64 // annual, on the tax-basis value
	HOAMonthly      float64 // flat monthly dollars
	TaxBasis        TaxBasis

	// Mortgage insurance
	LoanType          LoanType
	PMIRate           float64  // Conventional: annual rate on the tax-basis value
	PMIRemoveLTV      float64  // Conventional: PMI removed once LTV falls to/below this
	MIPRate           float64  // FHA: annual rate on remaining balance
	MIPUpfrontRate    float64  // FHA: one-time fraction of the base loan amount
	FinanceUpfrontMIP bool     // FHA: roll upfront MIP into principal instead of paying cash
	MIPRemoveLTV      *float64 // FHA: nil means life-of-loan MIP

	// Market processes
	HomeMu      float64 // annual home appreciation drift
	HomeSigma   float64 // annual home value volatility
	EquityMu    float64 // annual equity return drift
	EquitySigma float64 // annual equity volatility
	EquityFee   float64 // annual fee drag subtracted from equity drift

	// Transaction costs
	ClosingCostRate    float64 // fraction of home price paid in cash at closing
	SellingCostRate    float64 // fraction of terminal home value
	LiquidateAtHorizon bool    // apply selling costs to the final month

	// Presentation basis
	CPI         float64 // annual inflation rate for real-dollar restatement
	RealDollars bool    // deflate outputs before percentile computation

	// Contribution model. When UseSavingsBudget is false the S-obligation
	// formula is bypassed and the manual constants feed the simulators
	// directly (still clamped at zero).
	UseSavingsBudget    bool
	ManualInvestMonthly float64
	ManualBuyMonthly    float64

	// Parity override. EnforceParity is the default fairness rule: the
	// Invest leg starts with exactly the Buy leg's closing cash. When
	// disabled, InvestInitial is used verbatim.
	EnforceParity bool
	InvestInitial float64
}

// Validate checks the config before any simulation runs. It returns the
// first violation found, wrapped around ErrInvalidConfig.
func (c *SimulationConfig) Validate() error {
	if c.Months <= 0 {
		return fmt.Errorf("%w: months must be positive, got %d", ErrInvalidConfig, c.Months)
	}
	if c.Paths <= 0 {
		return fmt.Errorf("%w: paths must be positive, got %d", ErrInvalidConfig, c.Paths)
	}
	if c.LoanTermMonths <= 0 {
		return fmt.Errorf("%w: loan term must be positive, got %d", ErrInvalidConfig, c.LoanTermMonths)
	}
	if c.MonthlySavings < 0 {
		return fmt.Errorf("%w: monthly savings must be non-negative, got %f", ErrInvalidConfig, c.MonthlySavings)
	}
	if c.HomePrice <= 0 {
		return fmt.Errorf("%w: home price must be positive, got %f", ErrInvalidConfig, c.HomePrice)
	}
	if c.DownPaymentPct < 0 || c.DownPaymentPct > 1 {
		return fmt.Errorf("%w: down payment pct must be in [0,1], got %f", ErrInvalidConfig, c.DownPaymentPct)
	}
	if c.Rent < 0 {
		return fmt.Errorf("%w: rent must be non-negative, got %f", ErrInvalidConfig, c.Rent)
	}

	for _, r := range []struct {
		name string
		val  float64
	}{
		{"loan rate", c.LoanRate},
		{"property tax rate", c.PropertyTaxRate},
		{"insurance rate", c.InsuranceRate},
		{"maintenance rate", c.MaintenanceRate},
		{"hoa monthly", c.HOAMonthly},
		{"pmi rate", c.PMIRate},
		{"mip rate", c.MIPRate},
		{"mip upfront rate", c.MIPUpfrontRate},
		{"home sigma", c.HomeSigma},
		{"equity sigma", c.EquitySigma},
		{"equity fee", c.EquityFee},
		{"closing cost rate", c.ClosingCostRate},
		{"selling cost rate", c.SellingCostRate},
		{"cpi", c.CPI},
	} {
		if r.val < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %f", ErrInvalidConfig, r.name, r.val)
		}
	}

	switch c.TaxBasis {
	case TaxBasisCurrent, TaxBasisOriginal:
	default:
		return fmt.Errorf("%w: unknown tax basis %q", ErrInvalidConfig, c.TaxBasis)
	}

	switch c.LoanType {
	case LoanTypeFHA:
		if c.MIPRemoveLTV != nil && (*c.MIPRemoveLTV <= 0 || *c.MIPRemoveLTV >= 1) {
			return fmt.Errorf("%w: mip remove ltv must be in (0,1), got %f", ErrInvalidConfig, *c.MIPRemoveLTV)
		}
	case LoanTypeConventional:
		if c.FinanceUpfrontMIP {
			return fmt.Errorf("%w: finance-upfront-mip only applies to FHA loans", ErrInvalidConfig)
		}
		if c.MIPRemoveLTV != nil {
			return fmt.Errorf("%w: mip remove ltv only applies to FHA loans", ErrInvalidConfig)
		}
		if c.PMIRemoveLTV <= 0 || c.PMIRemoveLTV >= 1 {
			return fmt.Errorf("%w: pmi remove ltv must be in (0,1), got %f", ErrInvalidConfig, c.PMIRemoveLTV)
		}
	default:
		return fmt.Errorf("%w: unknown loan type %q", ErrInvalidConfig, c.LoanType)
	}

	if !c.UseSavingsBudget {
		if c.ManualInvestMonthly < 0 || c.ManualBuyMonthly < 0 {
			return fmt.Errorf("%w: manual contributions must be non-negative", ErrInvalidConfig)
		}
	}
	if !c.EnforceParity && c.InvestInitial < 0 {
		return fmt.Errorf("%w: invest initial must be non-negative, got %f", ErrInvalidConfig, c.InvestInitial)
	}

	return nil
}

// DownPayment returns the cash down payment in dollars.
func (c *SimulationConfig) DownPayment() float64 {
	return c.HomePrice * c.DownPaymentPct
}

// BaseLoanAmount returns the loan principal before any financed upfront MIP.
func (c *SimulationConfig) BaseLoanAmount() float64 {
	return c.HomePrice - c.DownPayment()
}
