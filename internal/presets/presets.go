// Package presets supplies fully-resolved default configurations. The
// engine itself knows nothing about named cities; it only ever sees the
// numeric config a preset resolves to.
package presets

import (
	"fmt"
	"sort"

	"rentvsbuy-lab/internal/domain"
)

// City name constants.
const (
	CityGlobal  = "global"
	CityChicago = "chicago"
	CityTampa   = "tampa"
)

// Default returns the global baseline configuration.
func Default() domain.SimulationConfig {
	return domain.SimulationConfig{
		Months: 360,
		Paths:  5000,
		Seed:   42,

		MonthlySavings: 5000,
		IncomeGrowth:   0,

		Rent:       2500,
		RentGrowth: 0.03,

		HomePrice:      500000,
		DownPaymentPct: 0.035,
		LoanRate:       0.065,
		LoanTermMonths: 360,

		PropertyTaxRate: 0.015,
		InsuranceRate:   0.004,
		MaintenanceRate: 0.01,
		HOAMonthly:      100,
		TaxBasis:        domain.TaxBasisCurrent,

		LoanType:          domain.LoanTypeFHA,
		PMIRate:           0.005,
		PMIRemoveLTV:      0.78,
		MIPRate:           0.0085,
		MIPUpfrontRate:    0.0175,
		FinanceUpfrontMIP: true,
		MIPRemoveLTV:      nil, // life-of-loan MIP

		HomeMu:      0.04,
		HomeSigma:   0.10,
		EquityMu:    0.07,
		EquitySigma: 0.15,
		EquityFee:   0.0015,

		ClosingCostRate:    0,
		SellingCostRate:    0.07,
		LiquidateAtHorizon: true,

		CPI:         0.025,
		RealDollars: false,

		UseSavingsBudget: true,
		EnforceParity:    true,
	}
}

// cityOverride mutates a copy of the global defaults.
type cityOverride func(*domain.SimulationConfig)

var cities = map[string]cityOverride{
	CityGlobal: func(*domain.SimulationConfig) {},
	CityChicago: func(c *domain.SimulationConfig) {
		c.HomePrice = 450000
		c.Rent = 2200
		c.HomeMu = 0.035
		c.HomeSigma = 0.08
		c.PropertyTaxRate = 0.018
		c.InsuranceRate = 0.0045
		c.HOAMonthly = 150
		c.RentGrowth = 0.025
	},
	CityTampa: func(c *domain.SimulationConfig) {
		c.HomePrice = 400000
		c.Rent = 2000
		c.HomeMu = 0.05
		c.HomeSigma = 0.12
		c.PropertyTaxRate = 0.012
		c.InsuranceRate = 0.006
		c.HOAMonthly = 75
		c.RentGrowth = 0.035
	},
}

// ForCity resolves a named preset on top of the global defaults.
func ForCity(city string) (domain.SimulationConfig, error) {
	override, ok := cities[city]
	if !ok {
		return domain.SimulationConfig{}, fmt.Errorf("unknown city preset %q", city)
	}
	cfg := Default()
	override(&cfg)
	return cfg, nil
}

// Names returns the known preset names sorted for deterministic output.
func Names() []string {
	names := make([]string, 0, len(cities))
	for name := range cities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
