package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"spesedesk/internal/core"
)

// NoExpensesText is the summary of an empty collection.
const NoExpensesText = "No expenses recorded."

type monthKey struct {
	year  int
	month int
}

// Summarize groups records by calendar month of their date, most recent first.
func Summarize(records []core.Record) []core.MonthTotal {
	groups := make(map[monthKey]*core.MonthTotal)
	for _, r := range records {
		k := monthKey{year: r.Date.Year(), month: int(r.Date.Month())}
		g, ok := groups[k]
		if !ok {
			g = &core.MonthTotal{Year: k.year, Month: r.Date.Month(), Total: decimal.Zero}
			groups[k] = g
		}
		g.Total = g.Total.Add(r.Amount)
		g.Count++
	}

	totals := make([]core.MonthTotal, 0, len(groups))
	for _, g := range groups {
		totals = append(totals, *g)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year > totals[j].Year
		}
		return totals[i].Month > totals[j].Month
	})
	return totals
}

// FormatSummary renders one "<Month> <Year>: <amount>" line per month.
func FormatSummary(totals []core.MonthTotal, symbol string) string {
	if len(totals) == 0 {
		return NoExpensesText
	}
	lines := make([]string, len(totals))
	for i, t := range totals {
		lines[i] = t.Label() + ": " + core.FormatCurrency(symbol, t.Total)
	}
	return strings.Join(lines, "\n")
}
