package exporter

import (
	"profitpilot/internal/report"
)

// Table is a named grid shared by the CSV and workbook exporters.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// SummaryTable lists the headline metrics as metric/value pairs.
func SummaryTable(r report.Report) Table {
	s := r.Summary
	return Table{
		Name:    "summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Revenue", formatAmount(s.TotalRevenue)},
			{"Total Costs", formatAmount(s.TotalCosts)},
			{"Net Profit", formatAmount(s.NetProfit)},
			{"Profit Margin %", formatPercent(s.ProfitMargin)},
			{"Average Order Value", formatAmount(s.AverageOrderValue())},
			{"Orders", formatInt(s.OrderCount)},
			{"Sales", formatInt(s.SaleCount)},
			{"Expenses", formatInt(s.ExpenseCount)},
			{"Completed Expenses", formatInt(s.CompletedCostCount)},
			{"3-Month Revenue Estimate", formatAmount(r.QuickProjection)},
		},
	}
}

// MonthlyTable lists revenue, costs and profit per month.
func MonthlyTable(r report.Report) Table {
	t := Table{Name: "monthly", Headers: []string{"Month", "Revenue", "Costs", "Profit"}}
	for _, m := range r.Monthly() {
		t.Rows = append(t.Rows, []string{
			m.Month.String(), formatAmount(m.Revenue), formatAmount(m.Costs), formatAmount(m.Profit),
		})
	}
	return t
}

// CategoriesTable lists spend per expense category, largest first.
func CategoriesTable(r report.Report) Table {
	t := Table{Name: "categories", Headers: []string{"Category", "Amount", "Share %"}}
	total := r.Summary.TotalCosts
	for _, c := range r.Summary.ExpenseCategories() {
		amount := r.Summary.CategorizedExpenses[c]
		share := "0.0"
		if total.IsPositive() {
			share = formatPercent(amount.Div(total).Mul(hundred))
		}
		t.Rows = append(t.Rows, []string{string(c), formatAmount(amount), share})
	}
	return t
}

// InsightsTable flattens the narrative bundle into section/text rows.
func InsightsTable(r report.Report) Table {
	t := Table{Name: "insights", Headers: []string{"Section", "Insight"}}
	b := r.Insights
	for _, sec := range []struct {
		name  string
		lines []string
	}{
		{"Performance", b.Performance},
		{"Optimization", b.Optimization},
		{"Categories", b.Categories},
		{"Projections", b.Projections},
	} {
		for _, line := range sec.lines {
			t.Rows = append(t.Rows, []string{sec.name, line})
		}
	}
	return t
}

// SalesTable is the sales ledger.
func SalesTable(r report.Report) Table {
	t := Table{
		Name:    "sales_ledger",
		Headers: []string{"Date", "Order ID", "Title", "Amount", "Fees & Taxes", "Counted"},
	}
	for _, e := range r.Sales {
		t.Rows = append(t.Rows, []string{
			e.Date, e.OrderID, e.Title, formatAmount(e.Amount), formatAmount(e.FeesTaxes), formatBool(e.Counted),
		})
	}
	return t
}

// CostsTable is the cost ledger.
func CostsTable(r report.Report) Table {
	t := Table{
		Name:    "cost_ledger",
		Headers: []string{"Date", "Description", "Shop", "Amount", "Category", "Counted"},
	}
	for _, e := range r.Costs {
		t.Rows = append(t.Rows, []string{
			e.Date, e.Description, e.Shop, formatAmount(e.Amount), string(e.Category), formatBool(e.Counted),
		})
	}
	return t
}

// Tables returns every exported table in file order.
func Tables(r report.Report) []Table {
	return []Table{
		SummaryTable(r),
		MonthlyTable(r),
		CategoriesTable(r),
		InsightsTable(r),
		SalesTable(r),
		CostsTable(r),
	}
}
