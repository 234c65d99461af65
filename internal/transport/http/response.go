package http

import (
	"time"

	"github.com/shopspring/decimal"

	"profitpilot/internal/insights"
	"profitpilot/internal/report"
	api "profitpilot/pkg/contracts/api/v1"
)

// NewAnalysisResponse maps a report onto the v1 wire contract.
func NewAnalysisResponse(rep *report.Report) api.AnalysisResponse {
	s := rep.Summary

	resp := api.AnalysisResponse{
		RunID:       rep.RunID,
		GeneratedAt: rep.GeneratedAt.UTC().Format(time.RFC3339),
		Strategy:    rep.Strategy,
		Summary: api.SummaryResponse{
			TotalRevenue:      amount(s.TotalRevenue),
			TotalCosts:        amount(s.TotalCosts),
			NetProfit:         amount(s.NetProfit),
			ProfitMargin:      s.ProfitMargin.StringFixed(1),
			AverageOrderValue: amount(s.AverageOrderValue()),
			OrderCount:        s.OrderCount,
			SaleCount:         s.SaleCount,
			ExpenseCount:      s.ExpenseCount,
			Display: api.SummaryDisplay{
				TotalRevenue: insights.FormatUSD(s.TotalRevenue),
				TotalCosts:   insights.FormatUSD(s.TotalCosts),
				NetProfit:    insights.FormatUSD(s.NetProfit),
				ProfitMargin: insights.FormatPercent(s.ProfitMargin),
			},
		},
		Projection: api.ProjectionResponse{
			QuickThreeMonthRevenue: amount(rep.QuickProjection),
			Sufficient:             rep.Projection.Sufficient,
			MonthlyRevenue:         amount(rep.Projection.MonthlyRevenue),
			ThreeMonthRevenue:      amount(rep.Projection.ThreeMonthRevenue),
			GrowthRate:             rep.Projection.GrowthRate.StringFixed(1),
			ThreeMonthProfit:       amount(rep.Projection.ThreeMonthProfit),
		},
		Insights: api.InsightsResponse{
			Performance:  lines(rep.Insights.Performance),
			Optimization: lines(rep.Insights.Optimization),
			Categories:   lines(rep.Insights.Categories),
			Projections:  lines(rep.Insights.Projections),
			Origin:       string(rep.Insights.Origin),
			Warning:      rep.Insights.Warning,
		},
		Monthly:      make([]api.MonthResponse, 0),
		Categories:   make([]api.CategoryResponse, 0),
		Sales:        make([]api.SaleResponse, 0, len(rep.Sales)),
		Costs:        make([]api.CostResponse, 0, len(rep.Costs)),
		Sources:      make([]api.SourceResponse, 0, len(rep.Sources)),
		Warnings:     rep.Warnings,
		SourceErrors: rep.SourceErrors,
	}

	for _, m := range rep.Monthly() {
		resp.Monthly = append(resp.Monthly, api.MonthResponse{
			Month:   m.Month.String(),
			Revenue: amount(m.Revenue),
			Costs:   amount(m.Costs),
			Profit:  amount(m.Profit),
		})
	}

	for _, share := range insights.CategoryShares(s) {
		resp.Categories = append(resp.Categories, api.CategoryResponse{
			Category: string(share.Category),
			Amount:   amount(share.Amount),
			Share:    share.Percent.StringFixed(1),
		})
	}

	for _, e := range rep.Sales {
		resp.Sales = append(resp.Sales, api.SaleResponse{
			Date:      e.Date,
			OrderID:   e.OrderID,
			Title:     e.Title,
			Amount:    amount(e.Amount),
			FeesTaxes: amount(e.FeesTaxes),
			Counted:   e.Counted,
		})
	}

	for _, e := range rep.Costs {
		resp.Costs = append(resp.Costs, api.CostResponse{
			Date:        e.Date,
			Description: e.Description,
			Shop:        e.Shop,
			Amount:      amount(e.Amount),
			Category:    string(e.Category),
			Counted:     e.Counted,
		})
	}

	for _, src := range rep.Sources {
		resp.Sources = append(resp.Sources, api.SourceResponse{
			Source:  src.Source,
			Name:    src.Name,
			Rows:    src.Rows,
			Dropped: src.Dropped,
		})
	}

	return resp
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// lines keeps empty sections as [] rather than null on the wire.
func lines(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
