package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"CagrSentinel/internal/backtest"
	"CagrSentinel/internal/model"
)

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func percent(v float64) string {
	return decimal.NewFromFloat(v).Shift(2).StringFixed(2) + "%"
}

// FormatSummary renders the run summary for a terminal.
func FormatSummary(res *backtest.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Run %s\n", res.RunID))
	if n := len(res.Ledger); n > 0 {
		b.WriteString(fmt.Sprintf("Period: %s → %s (%d windows, holding %d)\n\n",
			res.Ledger[0].Date.Format("2006-01-02"), res.Ledger[n-1].Date.Format("2006-01-02"),
			len(res.Classified), res.Params.HoldingPeriod))
	}

	b.WriteString("Performance Summary\n")
	for _, m := range SummaryMetrics(res.Summary) {
		v := money(m.Value)
		if m.Name == "CAGR (on capital)" {
			v = percent(m.Value)
		}
		b.WriteString(fmt.Sprintf("  %-22s %18s\n", m.Name, v))
	}

	b.WriteString("\n")
	b.WriteString(FormatStats(&res.Stats))
	return b.String()
}

// FormatStats renders regime counts and rate statistics.
func FormatStats(st *model.RunStats) string {
	var b strings.Builder
	b.WriteString("Regimes\n")
	for _, c := range model.Categories {
		b.WriteString(fmt.Sprintf("  %-18s %6d\n", c, st.CategoryCounts[c]))
	}
	b.WriteString(fmt.Sprintf("Rates: mean %s, std %s, min %s, max %s\n",
		percent(st.Rates.Mean), percent(st.Rates.StdDev), percent(st.Rates.Min), percent(st.Rates.Max)))
	b.WriteString(fmt.Sprintf("Trades: %d buys, %d sells | Max drawdown %s\n",
		st.BuyCount, st.SellCount, percent(st.MaxDrawdown)))
	return b.String()
}
