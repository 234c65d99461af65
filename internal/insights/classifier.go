package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "profitpilot/internal/errors"
	"profitpilot/internal/finance"
)

// RemoteClassifier labels supplier purchase descriptions with an expense
// category using the language model.
type RemoteClassifier struct {
	remote *RemoteProvider
}

// NewRemoteClassifier creates a classifier on top of remote.
func NewRemoteClassifier(remote *RemoteProvider) *RemoteClassifier {
	return &RemoteClassifier{remote: remote}
}

// ClassifyDescriptions returns a category for each description the model
// labelled with a known label. Unknown labels are left out.
func (c *RemoteClassifier) ClassifyDescriptions(ctx context.Context, descriptions []string) (map[string]finance.Category, error) {
	unique := dedupe(descriptions)
	if len(unique) == 0 {
		return map[string]finance.Category{}, nil
	}

	text, err := c.remote.Ask(ctx, classificationPrompt(unique))
	if err != nil {
		return nil, err
	}

	var labels map[string]string
	if err := json.Unmarshal([]byte(cleanModelJSON(text)), &labels); err != nil {
		return nil, apperrors.NewRemoteError("decode classification output", err)
	}

	out := make(map[string]finance.Category, len(labels))
	for _, d := range unique {
		if c, ok := finance.CategoryForLabel(labels[d]); ok {
			out[d] = c
		}
	}
	return out, nil
}

// Categorizer classifies descriptions up front and returns a categorizer
// that reads from the result, falling back to fallback on any miss.
func (c *RemoteClassifier) Categorizer(ctx context.Context, costs []finance.RawRecord, fallback finance.Categorizer) (finance.Categorizer, error) {
	descriptions := make([]string, 0, len(costs))
	for _, rec := range costs {
		if finance.IsCompleted(rec) {
			descriptions = append(descriptions, finance.CostDescription(rec))
		}
	}
	index, err := c.ClassifyDescriptions(ctx, descriptions)
	if err != nil {
		return fallback, err
	}
	return finance.LookupCategorizer{
		Describe: describeCost,
		Index:    index,
		Fallback: fallback,
	}, nil
}

func describeCost(rec finance.RawRecord) string {
	return strings.TrimSpace(finance.CostDescription(rec))
}

func classificationPrompt(descriptions []string) string {
	var b strings.Builder
	b.WriteString("Classify each business expense into exactly one of these labels:\n")
	for _, l := range finance.InferenceLabels {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	b.WriteString("\nExpenses:\n")
	for _, d := range descriptions {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	b.WriteString("\nReturn ONLY a raw JSON object mapping each expense text exactly as given to its label.\n")
	return b.String()
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
