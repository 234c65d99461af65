package exporter

import (
	"io"

	"github.com/xuri/excelize/v2"

	apperrors "profitpilot/internal/errors"
	"profitpilot/internal/report"
)

// Sheet names of the exported workbook, in tab order.
const (
	SheetSummary    = "Summary"
	SheetMonthly    = "Monthly"
	SheetCategories = "Categories"
	SheetInsights   = "Insights"
)

// WriteWorkbook renders the report as an XLSX workbook.
func WriteWorkbook(w io.Writer, r report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name  string
		table Table
	}{
		{SheetSummary, SummaryTable(r)},
		{SheetMonthly, MonthlyTable(r)},
		{SheetCategories, CategoriesTable(r)},
		{SheetInsights, InsightsTable(r)},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.NewExportError("failed to create header style", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return apperrors.NewExportError("failed to rename sheet", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return apperrors.NewExportError("failed to add sheet "+s.name, err)
		}
		if err := writeTable(f, s.name, s.table, headerStyle); err != nil {
			return apperrors.NewExportError("failed to fill sheet "+s.name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return apperrors.NewExportError("failed to write workbook", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, t Table, headerStyle int) error {
	header := toRow(t.Headers)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := toRow(row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func toRow(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
