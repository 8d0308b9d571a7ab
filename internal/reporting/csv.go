package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders run rows as CSV string.
func RenderCSV(rows []RunRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("run_id,city,created_at,months,paths,seed,closing_cash,monthly_payment,")
	sb.WriteString("invest_terminal_p50,buy_terminal_p50,prob_invest_beats_buy,")
	sb.WriteString("invest_worst_drawdown,buy_worst_drawdown\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%d,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			r.RunID,
			r.City,
			r.CreatedAt,
			r.Months,
			r.Paths,
			r.Seed,
			r.ClosingCash,
			r.MonthlyPayment,
			r.InvestTerminalP50,
			r.BuyTerminalP50,
			r.ProbInvestBeatsBuy,
			r.InvestWorstDrawdown,
			r.BuyWorstDrawdown,
		))
	}

	return sb.String()
}
