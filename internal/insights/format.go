package insights

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatUSD renders an amount as US dollars with grouping, e.g. "$1,234.56"
// or "-$12.00".
func FormatUSD(d decimal.Decimal) string {
	p := message.NewPrinter(language.AmericanEnglish)
	rounded := d.Round(2)
	if rounded.IsNegative() {
		return p.Sprintf("-$%.2f", rounded.Neg().InexactFloat64())
	}
	return p.Sprintf("$%.2f", rounded.InexactFloat64())
}

// FormatPercent renders a percentage with one decimal, e.g. "60.0%".
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}
