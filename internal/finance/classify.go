package finance

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Column names of the orders export.
const (
	ColType       = "Type"
	ColAmount     = "Amount"
	ColNet        = "Net"
	ColDate       = "Date"
	ColTitle      = "Title"
	ColInfo       = "Info"
	ColFeesTaxes  = "Fees & Taxes"
	ColTaxDetails = "Tax Details"
)

// Column names of the supplier costs export.
const (
	ColOrderStatus   = "Order Status"
	ColOrderValue    = "Order Value"
	ColOrderValueAlt = "Order_Value"
	ColOrderDate     = "Order Date"
	ColProductTitle  = "product_title"
	ColShopName      = "Shop Name"
)

// OrderAmountColumns are the columns that can carry an order's dollar value.
var OrderAmountColumns = []string{ColAmount, ColNet, ColOrderValue}

// TransactionKind says whether a transaction is revenue or cost.
type TransactionKind int

const (
	KindRevenue TransactionKind = iota + 1
	KindCost
)

// String returns the kind name.
func (k TransactionKind) String() string {
	switch k {
	case KindRevenue:
		return "revenue"
	case KindCost:
		return "cost"
	default:
		return "unknown"
	}
}

// ClassifiedTransaction is a counted revenue or cost event. Amount is always
// positive. Period is zero when the row's date could not be bucketed.
type ClassifiedTransaction struct {
	Kind     TransactionKind
	Amount   decimal.Decimal
	Period   YearMonth
	Category Category
}

// Dated reports whether the transaction has a monthly bucket.
func (t ClassifiedTransaction) Dated() bool {
	return !t.Period.IsZero()
}

// IsSale reports whether an order row is a sale transaction.
func IsSale(rec RawRecord) bool {
	return strings.EqualFold(rec.Text(ColType), "sale")
}

// IsCompleted reports whether a cost row is a completed purchase.
func IsCompleted(rec RawRecord) bool {
	return strings.EqualFold(rec.Text(ColOrderStatus), "completed")
}

// ClassifyOrder applies the revenue rule: only sales count, valued by Amount
// or, when Amount is not positive, by Net.
func ClassifyOrder(rec RawRecord) (ClassifiedTransaction, bool) {
	if !IsSale(rec) {
		return ClassifiedTransaction{}, false
	}
	amount, ok := SaleAmount(rec)
	if !ok {
		return ClassifiedTransaction{}, false
	}
	period, _ := BucketDate(rec.Text(ColDate))
	return ClassifiedTransaction{
		Kind:   KindRevenue,
		Amount: amount,
		Period: period,
	}, true
}

// SaleAmount returns the first positive amount among Amount and Net.
func SaleAmount(rec RawRecord) (decimal.Decimal, bool) {
	if d, ok := PositiveAmount(rec.Get(ColAmount)); ok {
		return d, true
	}
	return PositiveAmount(rec.Get(ColNet))
}

// CostAmount returns the positive Order Value of a cost row.
func CostAmount(rec RawRecord) (decimal.Decimal, bool) {
	v := rec.Get(ColOrderValue)
	if v.IsAbsent() {
		v = rec.Get(ColOrderValueAlt)
	}
	return PositiveAmount(v)
}

// Classifier applies the per-source rules with a configurable cost
// categorization strategy.
type Classifier struct {
	categorizer Categorizer
}

// NewClassifier returns a classifier. A nil categorizer means Materials.
func NewClassifier(categorizer Categorizer) *Classifier {
	if categorizer == nil {
		categorizer = MaterialsCategorizer()
	}
	return &Classifier{categorizer: categorizer}
}

// ClassifyOrder applies the revenue rule.
func (c *Classifier) ClassifyOrder(rec RawRecord) (ClassifiedTransaction, bool) {
	return ClassifyOrder(rec)
}

// ClassifyCost applies the cost rule: only completed purchases with a positive
// order value count.
func (c *Classifier) ClassifyCost(rec RawRecord) (ClassifiedTransaction, bool) {
	if !IsCompleted(rec) {
		return ClassifiedTransaction{}, false
	}
	amount, ok := CostAmount(rec)
	if !ok {
		return ClassifiedTransaction{}, false
	}
	period, _ := BucketDate(rec.Text(ColOrderDate))
	category := c.categorizer.Categorize(rec)
	if !category.Valid() {
		category = CategoryOther
	}
	return ClassifiedTransaction{
		Kind:     KindCost,
		Amount:   amount,
		Period:   period,
		Category: category,
	}, true
}
