package insights

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"profitpilot/internal/finance"
)

var (
	marginExcellent   = decimal.NewFromInt(20)
	marginGood        = decimal.NewFromInt(10)
	marginTarget      = decimal.NewFromInt(15)
	lowOrderValue     = decimal.NewFromInt(50)
	highCategoryShare = decimal.NewFromInt(30)
	hundred           = decimal.NewFromInt(100)
)

// Static advice appended to every optimization section.
const (
	TipSeasonal   = "Track seasonal patterns to optimize inventory and marketing timing"
	TipAutomation = "Automate expense tracking to identify cost-saving opportunities faster"
)

// NoExpenseData is the category section when nothing was spent.
const NoExpenseData = "No expense data available for categorization."

// InsufficientData is the projection section with fewer than two months.
const InsufficientData = "Insufficient data for accurate projections. Upload more historical data for better predictions."

// LocalHeuristicProvider derives insights from fixed thresholds. It never
// fails and makes no outside calls.
type LocalHeuristicProvider struct{}

// NewLocalHeuristicProvider returns the local provider.
func NewLocalHeuristicProvider() *LocalHeuristicProvider {
	return &LocalHeuristicProvider{}
}

// Generate implements InsightProvider.
func (p *LocalHeuristicProvider) Generate(_ context.Context, s finance.FinancialSummary) (NarrativeBundle, error) {
	return LocalBundle(s), nil
}

// LocalBundle builds all four sections.
func LocalBundle(s finance.FinancialSummary) NarrativeBundle {
	return NarrativeBundle{
		Performance:  Performance(s),
		Optimization: Optimization(s),
		Categories:   CategoryBreakdown(s),
		Projections:  Projections(s),
		Origin:       OriginLocal,
	}
}

// Performance comments on margin, average order value and the latest
// month-over-month change.
func Performance(s finance.FinancialSummary) []string {
	var out []string

	margin := s.ProfitMargin
	switch {
	case margin.GreaterThan(marginExcellent):
		out = append(out, fmt.Sprintf("Excellent profit margin of %s - well above industry average", FormatPercent(margin)))
	case margin.GreaterThan(marginGood):
		out = append(out, fmt.Sprintf("Good profit margin of %s - room for improvement", FormatPercent(margin)))
	case margin.IsPositive():
		out = append(out, fmt.Sprintf("Low profit margin of %s - needs attention", FormatPercent(margin)))
	default:
		out = append(out, "Negative profit margin - immediate action required")
	}

	out = append(out, "Average order value: "+FormatUSD(s.AverageOrderValue()))

	if growth, ok := monthOverMonth(s); ok {
		if growth.IsPositive() {
			out = append(out, fmt.Sprintf("Growing trend: %s increase from last month", FormatPercent(growth)))
		} else {
			out = append(out, fmt.Sprintf("Declining trend: %s decrease from last month", FormatPercent(growth.Abs())))
		}
	}
	return out
}

// monthOverMonth is the percentage change between the last two revenue months.
func monthOverMonth(s finance.FinancialSummary) (decimal.Decimal, bool) {
	series := s.MonthlyRevenue()
	if len(series) < 2 {
		return decimal.Zero, false
	}
	last, prev := series[len(series)-1], series[len(series)-2]
	if !prev.IsPositive() {
		return decimal.Zero, false
	}
	return last.Sub(prev).Div(prev).Mul(hundred), true
}

// Optimization lists cost and pricing tips triggered by thresholds, followed
// by the two standing tips.
func Optimization(s finance.FinancialSummary) []string {
	var out []string

	for _, share := range categoryShares(s) {
		if share.Percent.GreaterThan(highCategoryShare) {
			out = append(out, fmt.Sprintf("%s costs are high (%s of total) - consider negotiating better rates",
				share.Category, FormatPercent(share.Percent)))
		}
	}
	if s.AverageOrderValue().LessThan(lowOrderValue) {
		out = append(out, "Increase average order value through bundling or upselling")
	}
	if s.ProfitMargin.LessThan(marginTarget) {
		out = append(out, "Improve profit margins by reducing costs or increasing prices by 5-10%")
	}

	return append(out, TipSeasonal, TipAutomation)
}

// CategoryBreakdown lists each expense category with its amount and share.
func CategoryBreakdown(s finance.FinancialSummary) []string {
	shares := categoryShares(s)
	if len(shares) == 0 {
		return []string{NoExpenseData}
	}
	out := make([]string, 0, len(shares))
	for _, share := range shares {
		out = append(out, fmt.Sprintf("%s: %s (%s)", share.Category, FormatUSD(share.Amount), FormatPercent(share.Percent)))
	}
	return out
}

// CategoryShare is one category's part of total spend.
type CategoryShare struct {
	Category finance.Category `json:"category"`
	Amount   decimal.Decimal  `json:"amount"`
	Percent  decimal.Decimal  `json:"percent"`
}

func categoryShares(s finance.FinancialSummary) []CategoryShare {
	total := decimal.Zero
	for _, amount := range s.CategorizedExpenses {
		total = total.Add(amount)
	}
	if !total.IsPositive() {
		return nil
	}

	cats := s.ExpenseCategories()
	out := make([]CategoryShare, 0, len(cats))
	for _, c := range cats {
		amount := s.CategorizedExpenses[c]
		out = append(out, CategoryShare{
			Category: c,
			Amount:   amount,
			Percent:  amount.Div(total).Mul(hundred),
		})
	}
	return out
}

// CategoryShares exposes the breakdown used by the category section.
func CategoryShares(s finance.FinancialSummary) []CategoryShare {
	return categoryShares(s)
}

// Projections renders the narrative projection.
func Projections(s finance.FinancialSummary) []string {
	p := finance.ProjectNarrative(s)
	if !p.Sufficient {
		return []string{InsufficientData}
	}

	out := []string{
		"3-Month Revenue Projection: " + FormatUSD(p.ThreeMonthRevenue),
		"Monthly Average Projection: " + FormatUSD(p.MonthlyRevenue),
	}
	if p.GrowthRate.IsPositive() {
		out = append(out, fmt.Sprintf("Growth Rate: %s monthly growth trend", FormatPercent(p.GrowthRate)))
	} else {
		out = append(out, fmt.Sprintf("Growth Rate: %s monthly decline - focus on customer retention", FormatPercent(p.GrowthRate.Abs())))
	}
	return append(out, "Projected 3-Month Profit: "+FormatUSD(p.ThreeMonthProfit))
}
