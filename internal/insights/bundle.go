package insights

import (
	"context"

	"profitpilot/internal/finance"
)

// Origin says which provider produced a bundle.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// NarrativeBundle is the set of short insight lines shown next to the figures.
type NarrativeBundle struct {
	Performance  []string `json:"performance"`
	Optimization []string `json:"optimization"`
	Categories   []string `json:"categories"`
	Projections  []string `json:"projections"`
	Origin       Origin   `json:"origin"`
	// Warning is a soft, user-facing note, set when remote insights were
	// requested but local ones are shown.
	Warning string `json:"warning,omitempty"`
}

// Empty reports whether no section has content.
func (b NarrativeBundle) Empty() bool {
	return len(b.Performance) == 0 && len(b.Optimization) == 0 &&
		len(b.Categories) == 0 && len(b.Projections) == 0
}

// InsightProvider turns a summary into narrative text.
type InsightProvider interface {
	Generate(ctx context.Context, summary finance.FinancialSummary) (NarrativeBundle, error)
}
