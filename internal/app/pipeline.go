package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"profitpilot/internal/config"
	"profitpilot/internal/finance"
	"profitpilot/internal/infrastructure"
	"profitpilot/internal/insights"
	"profitpilot/internal/services"
)

// Pipeline bundles the analysis collaborators shared by the server and
// the CLI.
type Pipeline struct {
	Remote   *insights.RemoteProvider
	Analysis *services.AnalysisService
	Tips     *services.TipService
	Metrics  *infrastructure.AnalysisMetrics
}

// NewPipeline wires the insight providers, categorization rules and the
// analysis service from cfg. publisher may be nil.
func NewPipeline(ctx context.Context, cfg *config.Config, providers *infrastructure.OTelProviders, publisher services.EventPublisher, logger *slog.Logger) (*Pipeline, error) {
	remote, err := newRemoteProvider(ctx, cfg.Insights, logger)
	if err != nil {
		return nil, err
	}

	rules := finance.DefaultKeywordRules()
	if path := cfg.Analysis.KeywordRulesFile; path != "" {
		rules, err = finance.LoadKeywordRules(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load keyword rules: %w", err)
		}
		logger.InfoContext(ctx, "Keyword rules loaded",
			slog.String("path", path),
			slog.Int("rules", len(rules.Rules)))
	}

	metrics, err := infrastructure.CreateAnalysisMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis metrics: %w", err)
	}

	deps := services.AnalysisDeps{
		Insights:        insights.NewFallbackProvider(remote, logger).WithObserver(metrics),
		Classifier:      insights.NewRemoteClassifier(remote),
		KeywordRules:    rules,
		DefaultStrategy: cfg.Analysis.CategoryStrategy,
		Metrics:         metrics,
		Tracer:          providers.Tracer,
		Logger:          logger,
	}
	if publisher != nil {
		deps.Publisher = publisher
	}

	return &Pipeline{
		Remote:   remote,
		Analysis: services.NewAnalysisService(deps),
		Tips:     services.NewTipService(remote, logger),
		Metrics:  metrics,
	}, nil
}

// newGenerator builds the remote text generator. Replaced in tests.
var newGenerator = func(ctx context.Context, apiKey, model string) (insights.TextGenerator, error) {
	return insights.NewGeminiGenerator(ctx, apiKey, model)
}

// newRemoteProvider returns a provider without a generator when no
// credential is configured or the client cannot be built; callers fall
// back to local heuristics.
func newRemoteProvider(ctx context.Context, cfg config.InsightsConfig, logger *slog.Logger) (*insights.RemoteProvider, error) {
	if !insights.HasCredential(cfg.APIKey) {
		logger.InfoContext(ctx, "Remote insights disabled, no API key configured")
		return insights.NewRemoteProvider(nil, nil, logger), nil
	}

	gen, err := newGenerator(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		logger.WarnContext(ctx, "Remote insights disabled, generator unavailable",
			slog.String("model", cfg.Model),
			slog.String("error", err.Error()))
		return insights.NewRemoteProvider(nil, nil, logger), nil
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		every := time.Duration(float64(time.Minute) / cfg.RequestsPerMinute)
		limiter = rate.NewLimiter(rate.Every(every), cfg.Burst)
	}

	logger.InfoContext(ctx, "Remote insights enabled",
		slog.String("model", cfg.Model),
		slog.Float64("requests_per_minute", cfg.RequestsPerMinute))

	return insights.NewRemoteProvider(gen, limiter, logger).WithTimeout(cfg.Timeout), nil
}
