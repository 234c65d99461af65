package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"profitpilot/internal/files"
	"profitpilot/internal/shared/testutil"
	api "profitpilot/pkg/contracts/api/v1"
)

func writeFixtures(t *testing.T) (orders, costs string) {
	t.Helper()
	dir := t.TempDir()
	orders = filepath.Join(dir, "orders.csv")
	costs = filepath.Join(dir, "costs.csv")
	require.NoError(t, os.WriteFile(orders, []byte(testutil.OrdersCSV), 0o600))
	require.NoError(t, os.WriteFile(costs, []byte(testutil.CostsCSV), 0o600))
	return orders, costs
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "local files", args: []string{"-orders", "o.csv", "-costs", "c.csv"}},
		{name: "directory", args: []string{"-dir", "exports"}},
		{name: "sheet ranges", args: []string{"-sheet", "abc", "-orders-range", "Orders!A:Z"}},
		{name: "no input", args: nil, wantErr: errNoSources.Error()},
		{name: "range without sheet", args: []string{"-costs-range", "Costs!A:Z"}, wantErr: "need -sheet"},
		{name: "file and range", args: []string{"-sheet", "abc", "-orders", "o.csv", "-orders-range", "A:Z"}, wantErr: "either -orders or -orders-range"},
		{name: "stray argument", args: []string{"-orders", "o.csv", "extra"}, wantErr: "unexpected arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args, io.Discard)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "profitpilot", opts.prefix)
			assert.True(t, opts.bom)
		})
	}
}

func TestRun_TextReport(t *testing.T) {
	orders, costs := writeFixtures(t)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), options{ordersPath: orders, costsPath: costs}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "ProfitPilot analysis")
	assert.Contains(t, out, "strategy: materials")
	assert.Contains(t, out, "250.00")
	assert.Contains(t, out, "184.50")
	assert.Contains(t, out, "2025-02")
	assert.Contains(t, out, "Materials and Supplies")
	assert.Contains(t, out, "Insights (local)")
	assert.Contains(t, out, "Performance")
}

func TestRun_JSONAndExports(t *testing.T) {
	orders, costs := writeFixtures(t)
	outDir := t.TempDir()
	xlsxPath := filepath.Join(outDir, "report.xlsx")
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), options{
		ordersPath: orders,
		costsPath:  costs,
		strategy:   "keyword",
		exportDir:  filepath.Join(outDir, "csv"),
		prefix:     "shop",
		xlsxPath:   xlsxPath,
		jsonOut:    true,
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	var resp api.AnalysisResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp), stdout.String())
	assert.Equal(t, "keyword", resp.Strategy)
	assert.Equal(t, "250.00", resp.Summary.TotalRevenue)
	assert.Equal(t, "65.50", resp.Summary.TotalCosts)

	for _, table := range []string{"summary", "monthly", "categories", "insights", "sales_ledger", "cost_ledger"} {
		assert.FileExists(t, filepath.Join(outDir, "csv", "shop_"+table+".csv"))
	}

	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Summary")
}

func TestRun_OrdersOnly(t *testing.T) {
	orders, _ := writeFixtures(t)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), options{ordersPath: orders, jsonOut: true}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	var resp api.AnalysisResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "0.00", resp.Summary.TotalCosts)
	assert.Len(t, resp.Sources, 1)
}

func TestRun_DiscoversFilesInDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "EtsySoldOrders.csv"), []byte(testutil.OrdersCSV), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "supply_costs.csv"), []byte(testutil.CostsCSV), 0o600))
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), options{dir: dir, jsonOut: true}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	var resp api.AnalysisResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "250.00", resp.Summary.TotalRevenue)
	assert.Equal(t, "65.50", resp.Summary.TotalCosts)
}

func TestRun_RejectsUnsupportedInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.pdf")
	require.NoError(t, os.WriteFile(path, []byte(testutil.OrdersCSV), 0o600))

	err := run(context.Background(), options{ordersPath: path}, io.Discard, io.Discard)
	assert.ErrorIs(t, err, files.ErrUnsupportedFile)
}

func TestRun_UnknownStrategy(t *testing.T) {
	orders, costs := writeFixtures(t)
	err := run(context.Background(), options{ordersPath: orders, costsPath: costs, strategy: "astrology"}, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "astrology")
}

func TestRun_SheetsNeedCredentials(t *testing.T) {
	t.Setenv("PROFITPILOT_SOURCES_SHEETS_CREDENTIALS_FILE", "")
	err := run(context.Background(), options{sheetID: "abc", ordersRange: "Orders!A:Z"}, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")
}
