package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerOrder(typ, title, info, amount, fees, date string) RawRecord {
	return NewRawRecord(
		[]string{ColDate, ColType, ColTitle, ColInfo, ColAmount, ColFeesTaxes},
		[]Value{Text(date), Text(typ), Text(title), Text(info), Text(amount), Text(fees)},
	)
}

func TestOrderID(t *testing.T) {
	id, ok := OrderID("Payment for Order #3784084180")
	require.True(t, ok)
	assert.Equal(t, "3784084180", id)

	_, ok = OrderID("Listing fee")
	assert.False(t, ok)
}

func TestSalesLedger(t *testing.T) {
	orders := []RawRecord{
		ledgerOrder("Sale", "Payment for Order #111", "", "$20.00", "--", "01-Jan-25"),
		ledgerOrder("Fee", "Transaction fee", "Order #111", "--", "-$1.50", "01-Jan-25"),
		ledgerOrder("Tax", "Sales tax", "Tax for Order #111", "--", "-$0.50", "01-Jan-25"),
		ledgerOrder("Sale", "Payment for Order #222", "", "$35.00", "--", "15-Feb-25"),
		ledgerOrder("Fee", "Transaction fee", "Order #222", "--", "-$2.00", "15-Feb-25"),
		ledgerOrder("Sale", "Payment for Order #333", "", "$5.00", "--", ""),
	}

	ledger := SalesLedger(orders)
	require.Len(t, ledger, 3)

	assert.Equal(t, "222", ledger[0].OrderID)
	assertDecimal(t, "35", ledger[0].Amount)
	assertDecimal(t, "2", ledger[0].FeesTaxes)

	assert.Equal(t, "111", ledger[1].OrderID)
	assertDecimal(t, "2", ledger[1].FeesTaxes)

	assert.Equal(t, "333", ledger[2].OrderID, "undated sales go last")
	assert.True(t, ledger[2].FeesTaxes.IsZero())
}

func TestCostLedger(t *testing.T) {
	rec := func(status, title, shop, value, date string) RawRecord {
		return NewRawRecord(
			[]string{ColOrderStatus, ColProductTitle, ColShopName, ColOrderValue, ColOrderDate},
			[]Value{Text(status), Text(title), Text(shop), Text(value), Text(date)},
		)
	}
	costs := []RawRecord{
		rec("Completed", "Gift boxes", "Pack Store", "$12.00", "2025-01-10"),
		rec("Pending", "Ribbon", "Pack Store", "$3.00", "2025-03-01"),
		rec("Completed", "", "Label Co", "$4.00", "2025-02-02"),
	}

	ledger := NewAggregator(nil).CostLedger(costs)
	require.Len(t, ledger, 2)

	assert.Equal(t, DefaultCostDescription, ledger[0].Description)
	assert.Equal(t, "Label Co", ledger[0].Shop)
	assertDecimal(t, "4", ledger[0].Amount)
	assert.Equal(t, CategoryMaterials, ledger[0].Category)

	assert.Equal(t, "Gift boxes", ledger[1].Description)
	assert.True(t, ledger[1].Counted)
}
