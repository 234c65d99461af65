package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	apperrors "profitpilot/internal/errors"
	"profitpilot/internal/finance"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// placeholderKeys are sample values shipped in example configs.
var placeholderKeys = map[string]bool{
	"your_api_key_here":             true,
	"your_gemini_api_key_here":      true,
	"your_huggingface_api_key_here": true,
}

// HasCredential reports whether key looks like a real credential.
func HasCredential(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && !placeholderKeys[strings.ToLower(key)]
}

// TextGenerator sends a single prompt to a language model.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator implements TextGenerator on the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini client for apiKey.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if !HasCredential(apiKey) {
		return nil, apperrors.NewConfigError("insights API key is not configured", nil)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperrors.NewRemoteError("create genai client", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// GenerateText implements TextGenerator.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// RemoteProvider asks a language model for the narrative sections. It makes
// one attempt per call.
type RemoteProvider struct {
	generator TextGenerator
	limiter   *rate.Limiter
	timeout   time.Duration
	logger    *slog.Logger
}

// NewRemoteProvider wires a generator behind limiter. A nil generator means
// no credential was configured; a nil limiter disables throttling.
func NewRemoteProvider(generator TextGenerator, limiter *rate.Limiter, logger *slog.Logger) *RemoteProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteProvider{
		generator: generator,
		limiter:   limiter,
		logger:    logger.With(slog.String("component", "remote_insights")),
	}
}

// WithTimeout bounds every model call. Zero leaves the caller's deadline.
func (p *RemoteProvider) WithTimeout(d time.Duration) *RemoteProvider {
	p.timeout = d
	return p
}

// ErrNoCredential is returned when the provider has no generator.
var ErrNoCredential = apperrors.NewConfigError("insights API key is not configured", nil)

// ErrThrottled is returned when the limiter denies a call.
var ErrThrottled = apperrors.NewRemoteError("insight request rate exceeded", nil)

// Configured reports whether a generator is wired.
func (p *RemoteProvider) Configured() bool {
	return p != nil && p.generator != nil
}

// Ask sends one prompt through the limiter.
func (p *RemoteProvider) Ask(ctx context.Context, prompt string) (string, error) {
	if !p.Configured() {
		return "", ErrNoCredential
	}
	if p.limiter != nil && !p.limiter.Allow() {
		return "", ErrThrottled
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	text, err := p.generator.GenerateText(ctx, prompt)
	if err != nil {
		return "", apperrors.NewRemoteError("insight request failed", err)
	}
	return text, nil
}

type remoteSections struct {
	Performance  []string `json:"performance"`
	Optimization []string `json:"optimization"`
	Projections  []string `json:"projections"`
}

// Generate implements InsightProvider. Categories are always derived locally.
func (p *RemoteProvider) Generate(ctx context.Context, s finance.FinancialSummary) (NarrativeBundle, error) {
	text, err := p.Ask(ctx, summaryPrompt(s))
	if err != nil {
		return NarrativeBundle{}, err
	}

	var sections remoteSections
	if err := json.Unmarshal([]byte(cleanModelJSON(text)), &sections); err != nil {
		p.logger.WarnContext(ctx, "unparseable model output", slog.Int("length", len(text)))
		return NarrativeBundle{}, apperrors.NewRemoteError("decode model output", err)
	}
	if len(sections.Performance)+len(sections.Optimization)+len(sections.Projections) == 0 {
		return NarrativeBundle{}, apperrors.NewRemoteError("model returned no insights", nil)
	}

	return NarrativeBundle{
		Performance:  sections.Performance,
		Optimization: sections.Optimization,
		Categories:   CategoryBreakdown(s),
		Projections:  sections.Projections,
		Origin:       OriginRemote,
	}, nil
}

func summaryPrompt(s finance.FinancialSummary) string {
	var b strings.Builder
	b.WriteString("You are a financial analyst for a small online shop.\n\n")
	fmt.Fprintf(&b, "Total revenue: %s\n", FormatUSD(s.TotalRevenue))
	fmt.Fprintf(&b, "Total costs: %s\n", FormatUSD(s.TotalCosts))
	fmt.Fprintf(&b, "Net profit: %s\n", FormatUSD(s.NetProfit))
	fmt.Fprintf(&b, "Profit margin: %s\n", FormatPercent(s.ProfitMargin))
	fmt.Fprintf(&b, "Orders: %d\n", s.OrderCount)
	b.WriteString("Monthly revenue:\n")
	for _, ym := range s.RevenueMonths() {
		fmt.Fprintf(&b, "- %s: %s\n", ym, FormatUSD(s.RevenueByMonth[ym]))
	}
	b.WriteString("Expenses by category:\n")
	for _, c := range s.ExpenseCategories() {
		fmt.Fprintf(&b, "- %s: %s\n", c, FormatUSD(s.CategorizedExpenses[c]))
	}
	b.WriteString("\nReturn ONLY a raw JSON object with the string arrays " +
		"\"performance\", \"optimization\" and \"projections\", each with 2 to 4 short sentences.\n" +
		"Do NOT wrap the response in code fences.\n")
	return b.String()
}

// cleanModelJSON strips code fences and any prose around the outermost
// JSON object.
func cleanModelJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
