// Package exporter writes analysis reports to disk or a response body.
//
// CSVWriter is the low-level writer with optional UTF-8 BOM for Excel.
// ReportExporter writes one CSV per table (summary, monthly, categories,
// insights and both ledgers). WriteWorkbook renders the Summary, Monthly,
// Categories and Insights tables as sheets of one XLSX workbook.
//
// Example usage:
//
//	exp := exporter.NewReportExporter("out", true, logger)
//	paths, err := exp.ExportCSV(rep, "march")
//
//	var buf bytes.Buffer
//	err = exporter.WriteWorkbook(&buf, rep)
package exporter
