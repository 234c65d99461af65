package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "profitpilot/internal/errors"
)

// LoadResult holds both sources after loading. A source that was not supplied
// or failed to load is nil; its error, if any, is in Errors.
type LoadResult struct {
	Orders *SourceData
	Costs  *SourceData
	Errors map[Source]error
}

// Empty reports whether neither source produced a record.
func (r LoadResult) Empty() bool {
	return r.Orders.Len() == 0 && r.Costs.Len() == 0
}

// Warnings collects field-count and similar notes from both sources.
func (r LoadResult) Warnings() []string {
	var out []string
	for _, d := range []*SourceData{r.Orders, r.Costs} {
		if d != nil {
			out = append(out, d.Warnings...)
		}
	}
	return out
}

// Loader reads the orders and costs sources side by side.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger.With(slog.String("component", "source_loader"))}
}

// Load reads both sources concurrently. A failure in one source is recorded
// and never cancels the other. Nil readers are skipped.
func (l *Loader) Load(ctx context.Context, orders, costs SourceReader) LoadResult {
	result := LoadResult{Errors: make(map[Source]error)}
	var mu sync.Mutex

	var g errgroup.Group
	load := func(source Source, reader SourceReader, dst **SourceData) {
		if reader == nil {
			return
		}
		g.Go(func() error {
			start := time.Now()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					result.Errors[source] = apperrors.NewIngestionError(string(source),
						"reader panicked", fmt.Errorf("%v", r))
					mu.Unlock()
				}
			}()
			data, err := reader.Read(ctx, source)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors[source] = err
				l.logger.WarnContext(ctx, "source failed to load",
					slog.String("source", string(source)),
					slog.String("error", err.Error()))
				return nil
			}
			*dst = data
			l.logger.InfoContext(ctx, "source loaded",
				slog.String("source", string(source)),
				slog.String("name", data.Name),
				slog.String("sheet", data.Sheet),
				slog.Int("records", data.Len()),
				slog.Int("dropped", data.Dropped),
				slog.Int("warnings", len(data.Warnings)),
				slog.Duration("duration", time.Since(start)))
			return nil
		})
	}

	load(SourceOrders, orders, &result.Orders)
	load(SourceCosts, costs, &result.Costs)
	_ = g.Wait()

	return result
}
