package dataprocessing

import (
	"profitpilot/internal/finance"
)

// FilterRecords drops rows that carry no data, and order rows that carry none
// of the amount columns. It returns the kept rows and the number dropped.
func FilterRecords(source Source, records []finance.RawRecord) ([]finance.RawRecord, int) {
	kept := make([]finance.RawRecord, 0, len(records))
	for _, rec := range records {
		if !rec.HasData() {
			continue
		}
		if source == SourceOrders && !hasAmountColumn(rec) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept, len(records) - len(kept)
}

func hasAmountColumn(rec finance.RawRecord) bool {
	for _, col := range finance.OrderAmountColumns {
		if !rec.Get(col).IsEmpty() {
			return true
		}
	}
	return false
}
