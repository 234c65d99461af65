package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"profitpilot/internal/config"
	"profitpilot/internal/dataprocessing"
	apperrors "profitpilot/internal/errors"
	"profitpilot/internal/finance"
	"profitpilot/internal/infrastructure"
	"profitpilot/internal/insights"
	"profitpilot/internal/report"
	"profitpilot/pkg/contracts/events"
)

// Warnings attached to the report when the requested categorization could
// not be honoured.
const (
	WarningRemoteCategorizerUnavailable = "AI categorization is not configured. Keyword rules were used instead."
	WarningRemoteCategorizerFailed      = "AI categorization failed. Keyword rules were used instead."
)

// EventPublisher receives analysis lifecycle events. The websocket hub
// implements it.
type EventPublisher interface {
	Publish(msg events.WebSocketMessage)
}

// AnalysisDeps are the collaborators of AnalysisService. Only Insights is
// required in practice; everything else has a working zero value.
type AnalysisDeps struct {
	Insights        *insights.FallbackProvider
	Classifier      *insights.RemoteClassifier
	KeywordRules    finance.KeywordRules
	DefaultStrategy string
	Publisher       EventPublisher
	Metrics         *infrastructure.AnalysisMetrics
	Tracer          trace.Tracer
	Logger          *slog.Logger
}

// AnalysisService runs the ingest, aggregate, project and narrate pipeline
// for one pair of sources.
type AnalysisService struct {
	loader          *dataprocessing.Loader
	insights        *insights.FallbackProvider
	classifier      *insights.RemoteClassifier
	keywordRules    finance.KeywordRules
	defaultStrategy string
	publisher       EventPublisher
	metrics         *infrastructure.AnalysisMetrics
	tracer          trace.Tracer
	logger          *slog.Logger
	now             func() time.Time
}

// NewAnalysisService creates the service.
func NewAnalysisService(deps AnalysisDeps) *AnalysisService {
	logger := infrastructure.WithComponent(deps.Logger, "analysis_service")

	provider := deps.Insights
	if provider == nil {
		provider = insights.NewFallbackProvider(nil, logger)
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer("profitpilot/services")
	}
	strategy := deps.DefaultStrategy
	if strategy == "" {
		strategy = config.StrategyMaterials
	}
	rules := deps.KeywordRules
	if len(rules.Rules) == 0 {
		rules = finance.DefaultKeywordRules()
	}

	return &AnalysisService{
		loader:          dataprocessing.NewLoader(logger),
		insights:        provider,
		classifier:      deps.Classifier,
		keywordRules:    rules,
		defaultStrategy: strategy,
		publisher:       deps.Publisher,
		metrics:         deps.Metrics,
		tracer:          tracer,
		logger:          logger,
		now:             time.Now,
	}
}

// DefaultStrategy is the categorization used when a request names none.
func (s *AnalysisService) DefaultStrategy() string {
	return s.defaultStrategy
}

// Analyze loads the supplied sources and builds the full report. Either
// reader may be nil, but at least one source must yield rows. Ingestion
// failures of a single source are reported on the report when the other
// source still has data.
func (s *AnalysisService) Analyze(ctx context.Context, orders, costs dataprocessing.SourceReader, strategy string) (rep *report.Report, err error) {
	strategy = strings.ToLower(strings.TrimSpace(strategy))
	if strategy == "" {
		strategy = s.defaultStrategy
	}
	if !validStrategy(strategy) {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unknown category strategy %q", strategy))
	}

	runID := uuid.New().String()
	ctx = infrastructure.WithRunID(ctx, runID)
	if infrastructure.GetTraceID(ctx) == "" {
		ctx = infrastructure.WithTraceID(ctx, runID)
	}
	traceID := infrastructure.GetTraceID(ctx)

	ctx, span := s.tracer.Start(ctx, "analysis.run", trace.WithAttributes(
		attribute.String("analysis.run_id", runID),
		attribute.String("analysis.strategy", strategy),
	))
	defer span.End()

	start := s.now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "analysis panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			rep = nil
			err = apperrors.NewAnalysisError("analysis failed unexpectedly", fmt.Errorf("panic: %v", r))
		}
		elapsed := s.now().Sub(start)
		s.metrics.RecordRun(ctx, strategy, elapsed, err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			s.publish(events.MessageTypeAnalysisFailed, traceID, events.AnalysisFailed{
				RunID:   runID,
				Code:    failureCode(err),
				Message: err.Error(),
			})
			s.logger.WarnContext(ctx, "analysis failed",
				slog.String("error", err.Error()),
				slog.Duration("duration", elapsed))
			return
		}
		s.publish(events.MessageTypeAnalysisCompleted, traceID, events.AnalysisCompleted{
			RunID:         runID,
			TotalRevenue:  rep.Summary.TotalRevenue.StringFixed(2),
			TotalCosts:    rep.Summary.TotalCosts.StringFixed(2),
			NetProfit:     rep.Summary.NetProfit.StringFixed(2),
			ProfitMargin:  rep.Summary.ProfitMargin.StringFixed(1),
			Months:        len(rep.Summary.Months()),
			InsightOrigin: string(rep.Insights.Origin),
			DurationMS:    elapsed.Milliseconds(),
		})
		s.logger.InfoContext(ctx, "analysis completed",
			slog.String("total_revenue", rep.Summary.TotalRevenue.StringFixed(2)),
			slog.String("total_costs", rep.Summary.TotalCosts.StringFixed(2)),
			slog.String("insight_origin", string(rep.Insights.Origin)),
			slog.Duration("duration", elapsed))
	}()

	s.publish(events.MessageTypeAnalysisStarted, traceID, events.AnalysisStarted{
		RunID:    runID,
		Sources:  suppliedSources(orders, costs),
		Strategy: strategy,
	})
	s.logger.InfoContext(ctx, "analysis started", slog.String("strategy", strategy))

	loaded := s.loader.Load(ctx, orders, costs)
	for _, d := range []*dataprocessing.SourceData{loaded.Orders, loaded.Costs} {
		if d != nil {
			s.metrics.RecordIngested(ctx, string(d.Source), d.Len(), d.Dropped)
		}
	}

	if loaded.Empty() {
		for _, src := range []dataprocessing.Source{dataprocessing.SourceOrders, dataprocessing.SourceCosts} {
			if e, ok := loaded.Errors[src]; ok {
				return nil, e
			}
		}
		return nil, apperrors.ErrNoSourceData
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	orderRecs := records(loaded.Orders)
	costRecs := records(loaded.Costs)

	warnings := loaded.Warnings()
	categorizer, note := s.categorizer(ctx, strategy, costRecs)
	if note != "" {
		warnings = append(warnings, note)
	}

	agg := finance.NewAggregator(categorizer)
	summary := agg.Aggregate(orderRecs, costRecs)

	bundle, _ := s.insights.Generate(ctx, summary)
	if bundle.Warning != "" {
		reason := insights.ReasonRemoteError
		if !s.insights.RemoteConfigured() {
			reason = insights.ReasonNotConfigured
		}
		s.publish(events.MessageTypeInsightsFallback, traceID, events.InsightsFallback{
			RunID:   runID,
			Reason:  reason,
			Warning: bundle.Warning,
		})
	}

	rep = &report.Report{
		RunID:           runID,
		GeneratedAt:     s.now().UTC(),
		Strategy:        strategy,
		Summary:         summary,
		QuickProjection: finance.ProjectRevenue(summary),
		Projection:      finance.ProjectNarrative(summary),
		Insights:        bundle,
		Sales:           finance.SalesLedger(orderRecs),
		Costs:           agg.CostLedger(costRecs),
		Sources:         sourceInfo(loaded),
		Warnings:        warnings,
		SourceErrors:    sourceErrors(loaded),
	}
	return rep, nil
}

// categorizer picks the cost categorizer for strategy. The returned note is
// a user-facing warning when the remote strategy had to fall back.
func (s *AnalysisService) categorizer(ctx context.Context, strategy string, costs []finance.RawRecord) (finance.Categorizer, string) {
	switch strategy {
	case config.StrategyKeyword:
		return finance.NewKeywordCategorizer(s.keywordRules), ""
	case config.StrategyRemote:
		fallback := finance.NewKeywordCategorizer(s.keywordRules)
		if s.classifier == nil || !s.insights.RemoteConfigured() {
			return fallback, WarningRemoteCategorizerUnavailable
		}
		c, err := s.classifier.Categorizer(ctx, costs, fallback)
		if err != nil {
			s.logger.WarnContext(ctx, "remote categorization failed, using keyword rules",
				slog.String("error", err.Error()))
			return c, WarningRemoteCategorizerFailed
		}
		return c, ""
	default:
		return finance.MaterialsCategorizer(), ""
	}
}

func (s *AnalysisService) publish(t events.MessageType, traceID string, data interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.NewMessage(t, traceID, data))
}

func validStrategy(s string) bool {
	switch s {
	case config.StrategyMaterials, config.StrategyKeyword, config.StrategyRemote:
		return true
	}
	return false
}

func suppliedSources(orders, costs dataprocessing.SourceReader) []string {
	var out []string
	if orders != nil {
		out = append(out, string(dataprocessing.SourceOrders))
	}
	if costs != nil {
		out = append(out, string(dataprocessing.SourceCosts))
	}
	return out
}

func records(d *dataprocessing.SourceData) []finance.RawRecord {
	if d == nil {
		return nil
	}
	return d.Records
}

func sourceInfo(r dataprocessing.LoadResult) []report.SourceInfo {
	var out []report.SourceInfo
	for _, d := range []*dataprocessing.SourceData{r.Orders, r.Costs} {
		if d == nil {
			continue
		}
		out = append(out, report.SourceInfo{
			Source:  string(d.Source),
			Name:    d.Name,
			Rows:    d.Len(),
			Dropped: d.Dropped,
		})
	}
	return out
}

func sourceErrors(r dataprocessing.LoadResult) map[string]string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Errors))
	for src, err := range r.Errors {
		out[string(src)] = err.Error()
	}
	return out
}

// failureCode is the short code sent in analysis:failed events.
func failureCode(err error) string {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return string(appErr.Type)
	}
	return "INTERNAL"
}
