package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"profitpilot/internal/finance"
	"profitpilot/internal/shared/testutil"
)

func fixedIndex(i int) func(int) int {
	return func(n int) int { return i % n }
}

func tipRequest() TipRequest {
	return TipRequest{Revenue: dec("1500"), Costs: dec("900.5"), Margin: dec("39.97"), SalesCount: 12}
}

func TestTipRotatorWithoutCredential(t *testing.T) {
	r := NewTipRotator(nil, nil)
	r.intn = fixedIndex(3)

	tip := r.Next(context.Background(), tipRequest())
	assert.Equal(t, Tip{Text: NoKeyTips[3], Origin: OriginLocal}, tip)
}

func TestTipRotatorRemoteTip(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("GenerateText", mock.Anything,
		"Based on $1500.00 revenue and 40.0% margin, suggest 3 specific dropshipping optimization strategies for product selection, pricing, and supplier management.",
	).Return("  Raise prices on bestsellers.  ", nil)

	logger, _ := testutil.NewTestLogger(t)
	r := NewTipRotator(NewRemoteProvider(gen, nil, logger), logger)
	r.intn = fixedIndex(0)

	tip := r.Next(context.Background(), tipRequest())
	assert.Equal(t, Tip{Text: "AI Insight: Raise prices on bestsellers....", Origin: OriginRemote}, tip)
	gen.AssertExpectations(t)
}

func TestTipRotatorTruncatesLongTips(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("GenerateText", mock.Anything, mock.Anything).Return(strings.Repeat("é", 250), nil)

	r := NewTipRotator(NewRemoteProvider(gen, nil, nil), nil)
	r.intn = fixedIndex(1)

	tip := r.Next(context.Background(), tipRequest())
	assert.Equal(t, RemoteTipPrefix+strings.Repeat("é", 200)+"...", tip.Text)
}

func TestTipRotatorFallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"error", "", errors.New("timeout")},
		{"blank reply", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(mockGenerator)
			gen.On("GenerateText", mock.Anything, mock.Anything).Return(tt.reply, tt.err)

			r := NewTipRotator(NewRemoteProvider(gen, nil, nil), nil)
			r.intn = fixedIndex(6)

			tip := r.Next(context.Background(), tipRequest())
			assert.Equal(t, Tip{Text: FallbackTips[6], Origin: OriginLocal}, tip)
		})
	}
}

func TestTipPromptsUseRequestFigures(t *testing.T) {
	prompts := tipPrompts(tipRequest())
	require.Len(t, prompts, 5)
	assert.Contains(t, prompts[1], "12 sales, $900.50 costs")
	assert.Contains(t, prompts[4], "$1500.00 revenue, $900.50 costs")
}

func TestRemoteClassifier(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, finance.LabelShipping) &&
			strings.Count(p, "- Gift box set\n") == 1
	})).Return(`{"Gift box set":"Materials and Supplies","Shipping labels":"shipping and fulfillment","Sticker":"Snacks"}`, nil)

	c := NewRemoteClassifier(NewRemoteProvider(gen, nil, nil))
	got, err := c.ClassifyDescriptions(context.Background(),
		[]string{"Gift box set", " Gift box set ", "Shipping labels", "Sticker", ""})
	require.NoError(t, err)

	assert.Equal(t, map[string]finance.Category{
		"Gift box set":    finance.CategoryMaterials,
		"Shipping labels": finance.CategoryShipping,
	}, got)
}

func TestRemoteClassifierCategorizer(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("GenerateText", mock.Anything, mock.Anything).
		Return(`{"Shipping labels":"Shipping and Fulfillment"}`, nil)

	headers := []string{finance.ColOrderStatus, finance.ColProductTitle}
	costs := []finance.RawRecord{
		finance.NewRawRecord(headers, []finance.Value{finance.Text("Completed"), finance.Text("Shipping labels")}),
		finance.NewRawRecord(headers, []finance.Value{finance.Text("Completed"), finance.Text("Gift box set")}),
	}

	c := NewRemoteClassifier(NewRemoteProvider(gen, nil, nil))
	cat, err := c.Categorizer(context.Background(), costs, finance.MaterialsCategorizer())
	require.NoError(t, err)

	assert.Equal(t, finance.CategoryShipping, cat.Categorize(costs[0]))
	assert.Equal(t, finance.CategoryMaterials, cat.Categorize(costs[1]))
}

func TestRemoteClassifierWithoutCredential(t *testing.T) {
	costs := []finance.RawRecord{
		finance.NewRawRecord([]string{finance.ColOrderStatus, finance.ColProductTitle},
			[]finance.Value{finance.Text("Completed"), finance.Text("Ribbon")}),
	}
	fallback := finance.MaterialsCategorizer()
	cat, err := NewRemoteClassifier(NewRemoteProvider(nil, nil, nil)).
		Categorizer(context.Background(), costs, fallback)

	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Equal(t, fallback, cat)
}
