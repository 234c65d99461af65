// Package dataprocessing ingests the two tabular sources the analyzer works
// from: sales orders and supplier costs.
//
// Sources arrive as CSV exports, XLSX workbooks or Google Sheets ranges. Every
// reader produces the same SourceData: trimmed headers, one finance.RawRecord
// per row with cells typed as text, number or absent, and the warnings raised
// while reading.
//
// # Tolerance
//
// Exports from marketplaces are messy. Rows with a different field count than
// the header are kept and flagged. A leading "sep=|" line switches the CSV
// delimiter. Blank rows and order rows without any amount column are dropped
// before aggregation. Any other parse failure, such as an unterminated quote,
// aborts that source with an INGESTION AppError while the other source stays
// usable.
//
// # Loading
//
// Loader.Load reads orders and costs concurrently and reports per-source
// errors rather than failing the whole run:
//
//	result := dataprocessing.NewLoader(logger).Load(ctx,
//	    dataprocessing.PathInput{Path: "orders.csv"},
//	    dataprocessing.PathInput{Path: "costs.xlsx"},
//	)
//	if result.Empty() {
//	    // nothing to analyze
//	}
package dataprocessing
