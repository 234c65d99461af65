package finance

import (
	"github.com/shopspring/decimal"
)

var three = decimal.NewFromInt(3)

// narrativeWindow is the number of trailing months the narrative projection uses.
const narrativeWindow = 3

// AverageGrowth returns the mean period-over-period growth rate of series.
// Pairs whose earlier value is not positive are skipped and do not count in
// the mean. With no usable pair the result is zero.
func AverageGrowth(series []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	pairs := 0
	for i := 1; i < len(series); i++ {
		prev := series[i-1]
		if !prev.IsPositive() {
			continue
		}
		sum = sum.Add(series[i].Sub(prev).Div(prev))
		pairs++
	}
	if pairs == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(pairs)))
}

// ProjectRevenue is the quick 3-month estimate: the last monthly revenue grown
// once by the average growth of the whole series, times three. With fewer than
// two months it returns total revenue unchanged.
func ProjectRevenue(s FinancialSummary) decimal.Decimal {
	series := s.MonthlyRevenue()
	if len(series) < 2 {
		return s.TotalRevenue
	}
	last := series[len(series)-1]
	growth := AverageGrowth(series)
	return last.Mul(decimal.NewFromInt(1).Add(growth)).Mul(three)
}

// NarrativeProjection is the projection shown in the insight bundle.
type NarrativeProjection struct {
	Sufficient        bool            `json:"sufficient"`
	MonthlyRevenue    decimal.Decimal `json:"monthly_revenue"`
	ThreeMonthRevenue decimal.Decimal `json:"three_month_revenue"`
	GrowthRate        decimal.Decimal `json:"growth_rate"`
	ThreeMonthProfit  decimal.Decimal `json:"three_month_profit"`
}

// ProjectNarrative averages the last three months of revenue, applies their
// growth rate and subtracts three months of average cost. Average cost is total
// costs over the number of revenue months. It needs at least two months.
func ProjectNarrative(s FinancialSummary) NarrativeProjection {
	series := s.MonthlyRevenue()
	if len(series) < 2 {
		return NarrativeProjection{
			MonthlyRevenue:    decimal.Zero,
			ThreeMonthRevenue: decimal.Zero,
			GrowthRate:        decimal.Zero,
			ThreeMonthProfit:  decimal.Zero,
		}
	}

	window := series
	if len(window) > narrativeWindow {
		window = window[len(window)-narrativeWindow:]
	}
	sum := decimal.Zero
	for _, v := range window {
		sum = sum.Add(v)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(window))))
	growth := AverageGrowth(window)

	monthly := avg.Mul(decimal.NewFromInt(1).Add(growth))
	quarter := monthly.Mul(three)
	avgCost := s.TotalCosts.Div(decimal.NewFromInt(int64(len(series))))

	return NarrativeProjection{
		Sufficient:        true,
		MonthlyRevenue:    monthly,
		ThreeMonthRevenue: quarter,
		GrowthRate:        growth.Mul(hundred),
		ThreeMonthProfit:  quarter.Sub(avgCost.Mul(three)),
	}
}
