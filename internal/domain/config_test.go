package domain

import (
	"errors"
	"testing"
)

func validConfig() SimulationConfig {
	return SimulationConfig{
		Months:           360,
		Paths:            100,
		Seed:             42,
		MonthlySavings:   5000,
		Rent:             2500,
		RentGrowth:       0.03,
		HomePrice:        500000,
		DownPaymentPct:   0.20,
		LoanRate:         0.065,
		LoanTermMonths:   360,
		PropertyTaxRate:  0.015,
		InsuranceRate:    0.004,
		MaintenanceRate:  0.01,
		HOAMonthly:       100,
		TaxBasis:         TaxBasisCurrent,
		LoanType:         LoanTypeConventional,
		PMIRate:          0.005,
		PMIRemoveLTV:     0.78,
		HomeMu:           0.04,
		HomeSigma:        0.10,
		EquityMu:         0.07,
		EquitySigma:      0.15,
		EquityFee:        0.0015,
		SellingCostRate:  0.07,
		CPI:              0.025,
		UseSavingsBudget: true,
		EnforceParity:    true,
	}
}

func TestValidate_AcceptsValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidate_RejectsInvalidConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SimulationConfig)
	}{
		{"zero months", func(c *SimulationConfig) { c.Months = 0 }},
		{"zero paths", func(c *SimulationConfig) { c.Paths = 0 }},
		{"zero loan term", func(c *SimulationConfig) { c.LoanTermMonths = 0 }},
		{"negative savings", func(c *SimulationConfig) { c.MonthlySavings = -1 }},
		{"zero home price", func(c *SimulationConfig) { c.HomePrice = 0 }},
		{"down payment above 1", func(c *SimulationConfig) { c.DownPaymentPct = 1.5 }},
		{"negative rent", func(c *SimulationConfig) { c.Rent = -100 }},
		{"negative loan rate", func(c *SimulationConfig) { c.LoanRate = -0.01 }},
		{"negative sigma", func(c *SimulationConfig) { c.EquitySigma = -0.1 }},
		{"unknown tax basis", func(c *SimulationConfig) { c.TaxBasis = "assessed" }},
		{"unknown loan type", func(c *SimulationConfig) { c.LoanType = "VA" }},
		{"conventional with financed MIP", func(c *SimulationConfig) { c.FinanceUpfrontMIP = true }},
		{"conventional with MIP removal", func(c *SimulationConfig) {
			ltv := 0.78
			c.MIPRemoveLTV = &ltv
		}},
		{"pmi removal ltv out of range", func(c *SimulationConfig) { c.PMIRemoveLTV = 1.2 }},
		{"fha mip removal ltv out of range", func(c *SimulationConfig) {
			c.LoanType = LoanTypeFHA
			ltv := 1.5
			c.MIPRemoveLTV = &ltv
		}},
		{"negative manual contribution", func(c *SimulationConfig) {
			c.UseSavingsBudget = false
			c.ManualBuyMonthly = -50
		}},
		{"negative invest initial", func(c *SimulationConfig) {
			c.EnforceParity = false
			c.InvestInitial = -1
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestDerivedLoanAmounts(t *testing.T) {
	cfg := validConfig()

	if got := cfg.DownPayment(); got != 100000 {
		t.Errorf("down payment = %f, want 100000", got)
	}
	if got := cfg.BaseLoanAmount(); got != 400000 {
		t.Errorf("base loan = %f, want 400000", got)
	}
}
