package finance

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCostDescription labels purchases that carry no product title.
const DefaultCostDescription = "Supplier Order"

var orderNumber = regexp.MustCompile(`Order #\s*(\S+)`)

// SaleEntry is one row of the sales ledger.
type SaleEntry struct {
	Date      string          `json:"date"`
	OrderID   string          `json:"order_id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	FeesTaxes decimal.Decimal `json:"fees_taxes"`
	Counted   bool            `json:"counted"`

	when  time.Time
	dated bool
}

// CostEntry is one row of the cost ledger.
type CostEntry struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Shop        string          `json:"shop"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Counted     bool            `json:"counted"`

	when  time.Time
	dated bool
}

// OrderID extracts the order number from a sale title such as
// "Payment for Order #3784084180".
func OrderID(title string) (string, bool) {
	m := orderNumber.FindStringSubmatch(title)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// SalesLedger lists sale rows, most recent first. Fees and taxes are summed from
// Fee and Tax rows whose Info mentions the sale's order number.
func SalesLedger(orders []RawRecord) []SaleEntry {
	var charges []RawRecord
	for _, rec := range orders {
		t := strings.ToLower(rec.Text(ColType))
		if t == "fee" || t == "tax" {
			charges = append(charges, rec)
		}
	}

	var out []SaleEntry
	for _, rec := range orders {
		if !IsSale(rec) {
			continue
		}
		title := rec.Text(ColTitle)
		if title == "" {
			title = rec.Text(ColInfo)
		}
		entry := SaleEntry{
			Date:      rec.Text(ColDate),
			Title:     title,
			Amount:    decimal.Zero,
			FeesTaxes: decimal.Zero,
		}
		if amount, ok := SaleAmount(rec); ok {
			entry.Amount = amount
			entry.Counted = true
		}
		if id, ok := OrderID(rec.Text(ColTitle)); ok {
			entry.OrderID = id
			entry.FeesTaxes = sumCharges(charges, id)
		}
		entry.when, entry.dated = ParseDate(entry.Date)
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].when, out[i].dated, out[j].when, out[j].dated)
	})
	return out
}

func sumCharges(charges []RawRecord, orderID string) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range charges {
		if !strings.Contains(rec.Text(ColInfo), orderID) {
			continue
		}
		if d, ok := NormalizeAmount(rec.Get(ColFeesTaxes)); ok {
			total = total.Add(d)
		}
	}
	return total.Abs()
}

// CostLedger lists completed purchases, most recent first, categorized with the
// aggregator's strategy.
func (a *Aggregator) CostLedger(costs []RawRecord) []CostEntry {
	var out []CostEntry
	for _, rec := range costs {
		if !IsCompleted(rec) {
			continue
		}
		desc := CostDescription(rec)
		if desc == "" {
			desc = DefaultCostDescription
		}
		entry := CostEntry{
			Date:        rec.Text(ColOrderDate),
			Description: desc,
			Shop:        rec.Text(ColShopName),
			Amount:      decimal.Zero,
		}
		if tx, ok := a.classifier.ClassifyCost(rec); ok {
			entry.Amount = tx.Amount
			entry.Category = tx.Category
			entry.Counted = true
		}
		entry.when, entry.dated = ParseDate(entry.Date)
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].when, out[i].dated, out[j].when, out[j].dated)
	})
	return out
}

// newerFirst orders dated rows descending and pushes undated rows last.
func newerFirst(a time.Time, aDated bool, b time.Time, bDated bool) bool {
	if aDated != bDated {
		return aDated
	}
	return a.After(b)
}
