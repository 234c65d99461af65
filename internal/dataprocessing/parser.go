package dataprocessing

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "profitpilot/internal/errors"
	"profitpilot/internal/finance"
)

// ReadWorkbook reads the first worksheet of an XLSX export. Its first non-empty
// row is the header; typing and filtering match ReadCSV.
func ReadWorkbook(r io.Reader, source Source) (*SourceData, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewIngestionError(string(source), "cannot open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewIngestionError(string(source), "workbook has no sheets", nil)
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, apperrors.NewIngestionError(string(source), "cannot read sheet", err).
			WithContext("sheet", sheetName)
	}

	data := recordsFromGrid(source, rows)
	data.Sheet = sheetName
	return data, nil
}

// recordsFromGrid turns a header-first grid of cells into SourceData. Leading
// empty rows are skipped. Spreadsheet rows are ragged by nature, so short rows
// are padded silently and only rows wider than the header are noted.
func recordsFromGrid(source Source, rows [][]string) *SourceData {
	data := &SourceData{Source: source}

	start := 0
	for start < len(rows) && rowIsBlank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return data
	}
	data.Headers = trimHeaders(rows[start])

	records := make([]finance.RawRecord, 0, len(rows)-start-1)
	for i, row := range rows[start+1:] {
		if len(row) > len(data.Headers) {
			data.warnf("row %d: expected %d fields, found %d", start+i+2, len(data.Headers), len(row))
		}
		records = append(records, finance.NewRawRecord(data.Headers, inferRow(row)))
	}

	data.Records, data.Dropped = FilterRecords(source, records)
	return data
}

func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
