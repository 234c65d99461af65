package finance

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// placeholderTokens are exporter conventions for "no value".
var placeholderTokens = map[string]bool{
	"--": true,
}

var amountNoise = strings.NewReplacer("$", "", ",", "", " ", "", "\u00a0", "")

// NormalizeAmount converts a currency-like cell into a decimal.
//
// Currency symbols and thousands separators are stripped. Placeholders, blank
// text, absent cells and anything that is not a plain decimal number yield
// ok=false. Zero and negative amounts are returned as parsed; deciding whether
// they count is up to the caller.
func NormalizeAmount(v Value) (decimal.Decimal, bool) {
	switch v.Kind() {
	case KindNumber:
		f, _ := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(f), true
	case KindString:
		return parseAmountText(v.String())
	default:
		return decimal.Zero, false
	}
}

func parseAmountText(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || placeholderTokens[s] {
		return decimal.Zero, false
	}
	s = amountNoise.Replace(s)
	if s == "" || placeholderTokens[s] {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// PositiveAmount normalizes v and reports ok only for strictly positive values.
func PositiveAmount(v Value) (decimal.Decimal, bool) {
	d, ok := NormalizeAmount(v)
	if !ok || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}
