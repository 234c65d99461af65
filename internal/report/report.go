// Package report holds the result of one analysis run as handed to the
// HTTP layer, the CLI and the exporters.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"profitpilot/internal/finance"
	"profitpilot/internal/insights"
)

// SourceInfo describes what was read from one input.
type SourceInfo struct {
	Source  string `json:"source"`
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Dropped int    `json:"dropped"`
}

// Report is the complete output of an analysis run.
type Report struct {
	RunID           string                      `json:"run_id"`
	GeneratedAt     time.Time                   `json:"generated_at"`
	Strategy        string                      `json:"category_strategy"`
	Summary         finance.FinancialSummary    `json:"summary"`
	QuickProjection decimal.Decimal             `json:"quick_projection"`
	Projection      finance.NarrativeProjection `json:"projection"`
	Insights        insights.NarrativeBundle    `json:"insights"`
	Sales           []finance.SaleEntry         `json:"sales"`
	Costs           []finance.CostEntry         `json:"costs"`
	Sources         []SourceInfo                `json:"sources"`
	Warnings        []string                    `json:"warnings,omitempty"`
	SourceErrors    map[string]string           `json:"source_errors,omitempty"`
}

// MonthRow is one line of the monthly table.
type MonthRow struct {
	Month   finance.YearMonth
	Revenue decimal.Decimal
	Costs   decimal.Decimal
	Profit  decimal.Decimal
}

// Monthly joins revenue and cost months in chronological order. Months
// missing from one side read as zero.
func (r Report) Monthly() []MonthRow {
	months := r.Summary.Months()
	rows := make([]MonthRow, 0, len(months))
	for _, ym := range months {
		rev := valueOrZero(r.Summary.RevenueByMonth, ym)
		cost := valueOrZero(r.Summary.CostsByMonth, ym)
		rows = append(rows, MonthRow{Month: ym, Revenue: rev, Costs: cost, Profit: rev.Sub(cost)})
	}
	return rows
}

func valueOrZero(m map[finance.YearMonth]decimal.Decimal, ym finance.YearMonth) decimal.Decimal {
	if v, ok := m[ym]; ok {
		return v
	}
	return decimal.Zero
}
