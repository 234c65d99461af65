package services

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"profitpilot/internal/insights"
	api "profitpilot/pkg/contracts/api/v1"
)

// TipService serves single optimization tips for the dashboard refresh
// button.
type TipService struct {
	rotator *insights.TipRotator
	logger  *slog.Logger
}

// NewTipService creates the service. remote may be nil.
func NewTipService(remote *insights.RemoteProvider, logger *slog.Logger) *TipService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "tip_service"))
	return &TipService{
		rotator: insights.NewTipRotator(remote, logger),
		logger:  logger,
	}
}

// RefreshTip returns one tip tailored to the request figures. It never
// fails; without a usable remote provider it rotates through local tips.
func (s *TipService) RefreshTip(ctx context.Context, req api.TipRequest) insights.Tip {
	tip := s.rotator.Next(ctx, insights.TipRequest{
		Revenue:    decimal.NewFromFloat(req.Revenue),
		Costs:      decimal.NewFromFloat(req.Costs),
		Margin:     decimal.NewFromFloat(req.Margin),
		SalesCount: req.SalesCount,
	})
	s.logger.DebugContext(ctx, "tip served", slog.String("origin", string(tip.Origin)))
	return tip
}
