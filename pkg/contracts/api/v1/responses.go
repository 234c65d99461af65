package api

// AnalysisResponse is the JSON body of POST /api/analyze. Amounts are decimal
// strings with two places; display fields are formatted for the dashboard.
type AnalysisResponse struct {
	RunID        string             `json:"run_id"`
	GeneratedAt  string             `json:"generated_at"`
	Strategy     string             `json:"category_strategy"`
	Summary      SummaryResponse    `json:"summary"`
	Monthly      []MonthResponse    `json:"monthly"`
	Categories   []CategoryResponse `json:"categories"`
	Projection   ProjectionResponse `json:"projection"`
	Insights     InsightsResponse   `json:"insights"`
	Sales        []SaleResponse     `json:"sales"`
	Costs        []CostResponse     `json:"costs"`
	Sources      []SourceResponse   `json:"sources"`
	Warnings     []string           `json:"warnings,omitempty"`
	SourceErrors map[string]string  `json:"source_errors,omitempty"`
}

// SummaryResponse holds the headline metrics.
type SummaryResponse struct {
	TotalRevenue      string         `json:"total_revenue"`
	TotalCosts        string         `json:"total_costs"`
	NetProfit         string         `json:"net_profit"`
	ProfitMargin      string         `json:"profit_margin"`
	AverageOrderValue string         `json:"average_order_value"`
	OrderCount        int            `json:"order_count"`
	SaleCount         int            `json:"sale_count"`
	ExpenseCount      int            `json:"expense_count"`
	Display           SummaryDisplay `json:"display"`
}

// SummaryDisplay holds the headline metrics as shown on the cards.
type SummaryDisplay struct {
	TotalRevenue string `json:"total_revenue"`
	TotalCosts   string `json:"total_costs"`
	NetProfit    string `json:"net_profit"`
	ProfitMargin string `json:"profit_margin"`
}

// MonthResponse is one point of the monthly chart.
type MonthResponse struct {
	Month   string `json:"month"`
	Revenue string `json:"revenue"`
	Costs   string `json:"costs"`
	Profit  string `json:"profit"`
}

// CategoryResponse is one slice of the expense chart.
type CategoryResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Share    string `json:"share"`
}

// ProjectionResponse carries both projections.
type ProjectionResponse struct {
	QuickThreeMonthRevenue string `json:"quick_three_month_revenue"`
	Sufficient             bool   `json:"sufficient"`
	MonthlyRevenue         string `json:"monthly_revenue"`
	ThreeMonthRevenue      string `json:"three_month_revenue"`
	GrowthRate             string `json:"growth_rate"`
	ThreeMonthProfit       string `json:"three_month_profit"`
}

// InsightsResponse is the narrative bundle.
type InsightsResponse struct {
	Performance  []string `json:"performance"`
	Optimization []string `json:"optimization"`
	Categories   []string `json:"categories"`
	Projections  []string `json:"projections"`
	Origin       string   `json:"origin"`
	Warning      string   `json:"warning,omitempty"`
}

// SaleResponse is one sales ledger row.
type SaleResponse struct {
	Date      string `json:"date"`
	OrderID   string `json:"order_id"`
	Title     string `json:"title"`
	Amount    string `json:"amount"`
	FeesTaxes string `json:"fees_taxes"`
	Counted   bool   `json:"counted"`
}

// CostResponse is one cost ledger row.
type CostResponse struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Shop        string `json:"shop"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Counted     bool   `json:"counted"`
}

// SourceResponse describes one ingested input.
type SourceResponse struct {
	Source  string `json:"source"`
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Dropped int    `json:"dropped"`
}

// TipResponse is the JSON body of POST /api/insights/tip.
type TipResponse struct {
	Success      bool   `json:"success"`
	Optimization string `json:"optimization"`
	Origin       string `json:"origin"`
}

// CategoriesResponse lists the closed category set.
type CategoriesResponse struct {
	Categories      []string `json:"categories"`
	InferenceLabels []string `json:"inference_labels"`
	Strategies      []string `json:"strategies"`
}
