package insights

import (
	"context"
	"log/slog"
	"time"

	"profitpilot/internal/finance"
)

// User-facing notes attached when local insights replace remote ones.
const (
	WarningRemoteFailed  = "AI analysis failed. Using local analysis instead."
	WarningNotConfigured = "AI analysis is not configured. Showing local analysis."
)

// Fallback reasons reported to the Observer.
const (
	ReasonNotConfigured = "not_configured"
	ReasonRemoteError   = "remote_error"
)

// Observer receives remote call outcomes, typically to record metrics.
type Observer interface {
	ObserveRemote(ctx context.Context, elapsed time.Duration, err error)
	ObserveFallback(ctx context.Context, reason string)
}

// FallbackProvider prefers the remote provider and falls back to the local
// heuristics. Generate never returns an error.
type FallbackProvider struct {
	remote   *RemoteProvider
	local    InsightProvider
	logger   *slog.Logger
	observer Observer
}

// NewFallbackProvider creates the orchestrator. remote may be nil.
func NewFallbackProvider(remote *RemoteProvider, logger *slog.Logger) *FallbackProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackProvider{
		remote: remote,
		local:  NewLocalHeuristicProvider(),
		logger: logger.With(slog.String("component", "insights")),
	}
}

// WithObserver sets the outcome observer.
func (f *FallbackProvider) WithObserver(o Observer) *FallbackProvider {
	f.observer = o
	return f
}

// RemoteConfigured reports whether remote insights will be attempted.
func (f *FallbackProvider) RemoteConfigured() bool {
	return f.remote.Configured()
}

// Generate implements InsightProvider.
func (f *FallbackProvider) Generate(ctx context.Context, s finance.FinancialSummary) (NarrativeBundle, error) {
	if !f.remote.Configured() {
		f.observeFallback(ctx, ReasonNotConfigured)
		bundle := LocalBundle(s)
		bundle.Warning = WarningNotConfigured
		return bundle, nil
	}

	start := time.Now()
	bundle, err := f.remote.Generate(ctx, s)
	if f.observer != nil {
		f.observer.ObserveRemote(ctx, time.Since(start), err)
	}
	if err == nil {
		return bundle, nil
	}

	f.logger.WarnContext(ctx, "remote insights failed, using local heuristics",
		slog.String("error", err.Error()))
	f.observeFallback(ctx, ReasonRemoteError)

	local, _ := f.local.Generate(ctx, s)
	local.Warning = WarningRemoteFailed
	return local, nil
}

func (f *FallbackProvider) observeFallback(ctx context.Context, reason string) {
	if f.observer != nil {
		f.observer.ObserveFallback(ctx, reason)
	}
}
