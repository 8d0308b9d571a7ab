package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Rent vs Buy Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Runs | %d |\n", r.DataSummary.TotalRuns))
	sb.WriteString(fmt.Sprintf("| Cities | %d |\n", r.DataSummary.Cities))
	sb.WriteString(fmt.Sprintf("| Total Paths Simulated | %d |\n", r.DataSummary.TotalPaths))
	sb.WriteString(fmt.Sprintf("| Date Range Start (s) | %d |\n", r.DataSummary.DateRangeStart))
	sb.WriteString(fmt.Sprintf("| Date Range End (s) | %d |\n", r.DataSummary.DateRangeEnd))
	sb.WriteString("\n")

	// Runs
	sb.WriteString("## Runs\n\n")
	if len(r.Runs) > 0 {
		sb.WriteString("| Run | City | Months | Paths | Seed | Closing | Payment | Invest P50 | Buy P50 | P(Invest>Buy) | Invest MaxDD | Buy MaxDD |\n")
		sb.WriteString("|-----|------|--------|-------|------|---------|---------|------------|---------|---------------|--------------|----------|\n")
		for _, run := range r.Runs {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %.2f | %.2f | %.2f | %.2f | %.4f | %.4f | %.4f |\n",
				run.RunID, run.City, run.Months, run.Paths, run.Seed,
				run.ClosingCash, run.MonthlyPayment,
				run.InvestTerminalP50, run.BuyTerminalP50, run.ProbInvestBeatsBuy,
				run.InvestWorstDrawdown, run.BuyWorstDrawdown))
		}
	} else {
		sb.WriteString("No runs recorded.\n")
	}
	sb.WriteString("\n")

	// City Comparison
	sb.WriteString("## City Comparison\n\n")
	if len(r.CityComparison) > 0 {
		sb.WriteString("| City | Runs | P(Invest>Buy) | Invest P50 | Buy P50 |\n")
		sb.WriteString("|------|------|---------------|------------|--------|\n")
		for _, c := range r.CityComparison {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.4f | %.2f | %.2f |\n",
				c.City, c.Runs, c.ProbInvestBeatsBuy, c.InvestTerminalP50, c.BuyTerminalP50))
		}
	} else {
		sb.WriteString("No city comparison available.\n")
	}
	sb.WriteString("\n")

	// Baseline
	sb.WriteString("## Baseline\n\n")
	if r.Baseline != nil {
		sb.WriteString("| Snapshot | Captured (s) | Label | P(Invest>Buy) | Invest P50 | Buy P50 |\n")
		sb.WriteString("|----------|--------------|-------|---------------|------------|--------|\n")
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %.4f | %.2f | %.2f |\n",
			r.Baseline.SnapshotID, r.Baseline.CreatedAt, r.Baseline.Label,
			r.Baseline.ProbInvestBeatsBuy, r.Baseline.InvestTerminalP50, r.Baseline.BuyTerminalP50))
	} else {
		sb.WriteString("No baseline captured.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
