package http

import (
	"context"

	"profitpilot/internal/dataprocessing"
	"profitpilot/internal/insights"
	"profitpilot/internal/report"
	api "profitpilot/pkg/contracts/api/v1"
)

// AnalysisService runs one analysis over the uploaded sources.
type AnalysisService interface {
	Analyze(ctx context.Context, orders, costs dataprocessing.SourceReader, strategy string) (*report.Report, error)
}

// TipService serves single optimization tips.
type TipService interface {
	RefreshTip(ctx context.Context, req api.TipRequest) insights.Tip
}
