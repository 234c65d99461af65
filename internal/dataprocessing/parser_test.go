package dataprocessing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "profitpilot/internal/errors"
	"profitpilot/internal/finance"
)

// buildWorkbook writes rows to the first sheet of a fresh workbook.
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func TestReadWorkbook(t *testing.T) {
	content := buildWorkbook(t, [][]interface{}{
		{"Order Date", " Order Status ", "Order Value", "product_title"},
		{"2025-01-03", "Completed", 40.5, "Gift box set"},
		{"2025-01-04", "Pending", "$12.00", "Ribbon"},
		{nil, nil, nil, nil},
	})

	data, err := ReadWorkbook(bytes.NewReader(content), SourceCosts)
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", data.Sheet)
	assert.Equal(t, []string{"Order Date", "Order Status", "Order Value", "product_title"}, data.Headers)
	require.Len(t, data.Records, 2)

	v, ok := finance.PositiveAmount(data.Records[0].Get(finance.ColOrderValue))
	require.True(t, ok)
	assert.Equal(t, "40.5", v.String())
	assert.Equal(t, "Pending", data.Records[1].Text(finance.ColOrderStatus))
}

func TestReadWorkbookSkipsLeadingBlankRows(t *testing.T) {
	content := buildWorkbook(t, [][]interface{}{
		{nil},
		{"Type", "Amount"},
		{"Sale", "$5.00"},
	})

	data, err := ReadWorkbook(bytes.NewReader(content), SourceOrders)
	require.NoError(t, err)
	assert.Equal(t, []string{"Type", "Amount"}, data.Headers)
	assert.Len(t, data.Records, 1)
}

func TestReadWorkbookRejectsGarbage(t *testing.T) {
	_, err := ReadWorkbook(bytes.NewReader([]byte("not a zip")), SourceOrders)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIngestion))
}

func TestPathInputDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	xlsxPath := filepath.Join(dir, "orders.xlsx")
	require.NoError(t, os.WriteFile(xlsxPath, buildWorkbook(t, [][]interface{}{
		{"Type", "Amount", "Date"},
		{"Sale", "$9.99", "01-Mar-25"},
	}), 0o600))

	csvPath := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Type,Amount,Date\nSale,$9.99,01-Mar-25\n"), 0o600))

	for _, path := range []string{xlsxPath, csvPath} {
		data, err := PathInput{Path: path}.Read(context.Background(), SourceOrders)
		require.NoError(t, err, path)
		assert.Equal(t, filepath.Base(path), data.Name)
		require.Len(t, data.Records, 1)
		assert.Equal(t, "$9.99", data.Records[0].Text(finance.ColAmount))
	}

	_, err := PathInput{Path: filepath.Join(dir, "missing.csv")}.Read(context.Background(), SourceOrders)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIngestion))
}
