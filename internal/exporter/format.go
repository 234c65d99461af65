package exporter

import (
	"strconv"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// formatAmount renders money with exactly 2 decimal places, e.g. 13.4 as 13.40.
func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatPercent renders a percentage with one decimal place.
func formatPercent(d decimal.Decimal) string {
	return d.StringFixed(1)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
