package insights

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/shopspring/decimal"
)

// RemoteTipPrefix marks tips written by the language model.
const RemoteTipPrefix = "AI Insight: "

const maxRemoteTipRunes = 200

// NoKeyTips are rotated when no credential is configured.
var NoKeyTips = []string{
	"Focus on high-margin products with 3x+ markup to maximize profit per sale.",
	"Optimize your product descriptions with trending keywords to improve conversion rates.",
	"Consider seasonal products and trending niches for higher demand and pricing power.",
	"Negotiate better shipping rates with suppliers to reduce your cost per order.",
	"Test different pricing strategies - sometimes higher prices increase perceived value.",
}

// FallbackTips are rotated when the remote call fails or returns nothing.
var FallbackTips = []string{
	"Test trending products with high social media engagement for better conversion rates.",
	"Implement abandoned cart recovery emails to recapture 15-25% of lost sales.",
	"Use dynamic pricing based on competitor analysis and demand fluctuations.",
	"Focus on building relationships with 2-3 reliable suppliers for better terms and faster shipping.",
	"Create product bundles to increase average order value and improve profit margins.",
	"Optimize your checkout process - reduce steps to decrease cart abandonment rates.",
	"Invest in high-quality product images and videos to increase customer trust and conversions.",
}

// TipRequest carries the headline figures a tip is tailored to.
type TipRequest struct {
	Revenue    decimal.Decimal
	Costs      decimal.Decimal
	Margin     decimal.Decimal
	SalesCount int
}

// Tip is a single optimization suggestion.
type Tip struct {
	Text   string `json:"optimization"`
	Origin Origin `json:"origin"`
}

// TipRotator returns one fresh optimization tip per call.
type TipRotator struct {
	remote *RemoteProvider
	logger *slog.Logger
	intn   func(n int) int
}

// NewTipRotator creates a rotator. remote may be nil.
func NewTipRotator(remote *RemoteProvider, logger *slog.Logger) *TipRotator {
	if logger == nil {
		logger = slog.Default()
	}
	return &TipRotator{
		remote: remote,
		logger: logger.With(slog.String("component", "tips")),
		intn:   rand.Intn,
	}
}

// Next returns a remote tip when possible and a canned one otherwise. It
// never fails.
func (t *TipRotator) Next(ctx context.Context, req TipRequest) Tip {
	if !t.remote.Configured() {
		return Tip{Text: t.pick(NoKeyTips), Origin: OriginLocal}
	}

	prompts := tipPrompts(req)
	text, err := t.remote.Ask(ctx, prompts[t.intn(len(prompts))])
	if err != nil {
		t.logger.WarnContext(ctx, "remote tip failed", slog.String("error", err.Error()))
		return Tip{Text: t.pick(FallbackTips), Origin: OriginLocal}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Tip{Text: t.pick(FallbackTips), Origin: OriginLocal}
	}
	return Tip{Text: RemoteTipPrefix + truncateRunes(text, maxRemoteTipRunes) + "...", Origin: OriginRemote}
}

func (t *TipRotator) pick(tips []string) string {
	return tips[t.intn(len(tips))]
}

func tipPrompts(req TipRequest) []string {
	revenue := req.Revenue.StringFixed(2)
	costs := req.Costs.StringFixed(2)
	margin := req.Margin.StringFixed(1)
	return []string{
		fmt.Sprintf("Based on $%s revenue and %s%% margin, suggest 3 specific dropshipping optimization strategies for product selection, pricing, and supplier management.", revenue, margin),
		fmt.Sprintf("Analyze this dropshipping business: %d sales, $%s costs. Provide actionable tips for scaling and improving profit margins.", req.SalesCount, costs),
		fmt.Sprintf("For a dropshipping store with %s%% profit margin, recommend specific strategies to reduce costs, increase average order value, and optimize product mix.", margin),
		fmt.Sprintf("Given $%s in revenue from %d orders, suggest dropshipping-specific tactics for customer acquisition, retention, and upselling.", revenue, req.SalesCount),
		fmt.Sprintf("Dropshipping business analysis: $%s revenue, $%s costs. Recommend supplier negotiation tactics and inventory optimization strategies.", revenue, costs),
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
