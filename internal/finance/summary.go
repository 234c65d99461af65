package finance

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FinancialSummary is the frozen result of one analysis run.
type FinancialSummary struct {
	TotalRevenue        decimal.Decimal               `json:"total_revenue"`
	TotalCosts          decimal.Decimal               `json:"total_costs"`
	NetProfit           decimal.Decimal               `json:"net_profit"`
	ProfitMargin        decimal.Decimal               `json:"profit_margin"`
	RevenueByMonth      map[YearMonth]decimal.Decimal `json:"revenue_by_month"`
	CostsByMonth        map[YearMonth]decimal.Decimal `json:"costs_by_month"`
	CategorizedExpenses map[Category]decimal.Decimal  `json:"categorized_expenses"`
	OrderCount          int                           `json:"order_count"`
	SaleCount           int                           `json:"sale_count"`
	ExpenseCount        int                           `json:"expense_count"`
	CompletedCostCount  int                           `json:"completed_cost_count"`
	UndatedRevenue      int                           `json:"undated_revenue"`
	UndatedCosts        int                           `json:"undated_costs"`
}

// NewFinancialSummary returns an empty summary with initialized maps.
func NewFinancialSummary() FinancialSummary {
	return FinancialSummary{
		TotalRevenue:        decimal.Zero,
		TotalCosts:          decimal.Zero,
		NetProfit:           decimal.Zero,
		ProfitMargin:        decimal.Zero,
		RevenueByMonth:      make(map[YearMonth]decimal.Decimal),
		CostsByMonth:        make(map[YearMonth]decimal.Decimal),
		CategorizedExpenses: make(map[Category]decimal.Decimal),
	}
}

// RevenueMonths returns the revenue buckets in chronological order.
func (s FinancialSummary) RevenueMonths() []YearMonth {
	return sortedMonths(s.RevenueByMonth)
}

// CostMonths returns the cost buckets in chronological order.
func (s FinancialSummary) CostMonths() []YearMonth {
	return sortedMonths(s.CostsByMonth)
}

// Months returns every bucket seen in either series, chronologically.
func (s FinancialSummary) Months() []YearMonth {
	seen := make(map[YearMonth]decimal.Decimal, len(s.RevenueByMonth)+len(s.CostsByMonth))
	for ym := range s.RevenueByMonth {
		seen[ym] = decimal.Zero
	}
	for ym := range s.CostsByMonth {
		seen[ym] = decimal.Zero
	}
	return sortedMonths(seen)
}

// MonthlyRevenue returns revenue values in chronological order.
func (s FinancialSummary) MonthlyRevenue() []decimal.Decimal {
	months := s.RevenueMonths()
	out := make([]decimal.Decimal, len(months))
	for i, ym := range months {
		out[i] = s.RevenueByMonth[ym]
	}
	return out
}

// ExpenseCategories returns categories with a recorded amount, largest first.
// Ties keep display order.
func (s FinancialSummary) ExpenseCategories() []Category {
	out := make([]Category, 0, len(s.CategorizedExpenses))
	for _, c := range Categories {
		if _, ok := s.CategorizedExpenses[c]; ok {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.CategorizedExpenses[out[i]].GreaterThan(s.CategorizedExpenses[out[j]])
	})
	return out
}

// AverageOrderValue is revenue divided by the number of ingested order rows.
func (s FinancialSummary) AverageOrderValue() decimal.Decimal {
	if s.OrderCount == 0 {
		return decimal.Zero
	}
	return s.TotalRevenue.Div(decimal.NewFromInt(int64(s.OrderCount)))
}

func sortedMonths(m map[YearMonth]decimal.Decimal) []YearMonth {
	out := make([]YearMonth, 0, len(m))
	for ym := range m {
		out = append(out, ym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Aggregator folds raw rows into a FinancialSummary. It holds no state between
// calls, so one instance can serve concurrent runs.
type Aggregator struct {
	classifier *Classifier
}

// NewAggregator builds an aggregator around a cost categorization strategy.
// A nil categorizer selects Materials.
func NewAggregator(categorizer Categorizer) *Aggregator {
	return &Aggregator{classifier: NewClassifier(categorizer)}
}

// Aggregate folds both sources with the default categorizer.
func Aggregate(orders, costs []RawRecord) FinancialSummary {
	return NewAggregator(nil).Aggregate(orders, costs)
}

// Aggregate builds a fresh summary from the given rows.
func (a *Aggregator) Aggregate(orders, costs []RawRecord) FinancialSummary {
	s := NewFinancialSummary()
	s.OrderCount = len(orders)
	s.ExpenseCount = len(costs)

	for _, rec := range orders {
		tx, ok := a.classifier.ClassifyOrder(rec)
		if !ok {
			continue
		}
		s.SaleCount++
		s.TotalRevenue = s.TotalRevenue.Add(tx.Amount)
		if !tx.Dated() {
			s.UndatedRevenue++
			continue
		}
		s.RevenueByMonth[tx.Period] = s.RevenueByMonth[tx.Period].Add(tx.Amount)
	}

	for _, rec := range costs {
		tx, ok := a.classifier.ClassifyCost(rec)
		if !ok {
			continue
		}
		s.CompletedCostCount++
		s.TotalCosts = s.TotalCosts.Add(tx.Amount)
		s.CategorizedExpenses[tx.Category] = s.CategorizedExpenses[tx.Category].Add(tx.Amount)
		if !tx.Dated() {
			s.UndatedCosts++
			continue
		}
		s.CostsByMonth[tx.Period] = s.CostsByMonth[tx.Period].Add(tx.Amount)
	}

	s.NetProfit = s.TotalRevenue.Sub(s.TotalCosts)
	if s.TotalRevenue.IsPositive() {
		s.ProfitMargin = s.NetProfit.Div(s.TotalRevenue).Mul(hundred)
	}
	return s
}
