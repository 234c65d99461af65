package dataprocessing

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "profitpilot/internal/errors"
	"profitpilot/internal/finance"
	"profitpilot/internal/shared/testutil"
)

type mockValuesGetter struct {
	mock.Mock
}

func (m *mockValuesGetter) GetValues(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	args := m.Called(ctx, spreadsheetID, rng)
	values, _ := args.Get(0).([][]interface{})
	return values, args.Error(1)
}

func TestRecordsFromValues(t *testing.T) {
	data := RecordsFromValues(SourceOrders, [][]interface{}{
		{"Type", "Amount", "Date"},
		{"Sale", 125.0, "02-Jan-25"},
		{"Sale", "$1,000.00"},
		{},
	})

	require.Len(t, data.Records, 2)
	assert.Equal(t, 1, data.Dropped)
	assert.Equal(t, finance.KindNumber, data.Records[0].Get("Amount").Kind())
	assert.True(t, data.Records[1].Get("Date").IsAbsent())
}

func TestSheetInput(t *testing.T) {
	getter := new(mockValuesGetter)
	getter.On("GetValues", mock.Anything, "sheet-1", "Orders!A:C").Return([][]interface{}{
		{"Type", "Amount", "Date"},
		{"Sale", "$10", "2025-01-01"},
	}, nil)
	getter.On("GetValues", mock.Anything, "sheet-1", "Costs!A:C").Return(nil, fmt.Errorf("403 forbidden"))

	data, err := SheetInput{Client: getter, SpreadsheetID: "sheet-1", Range: "Orders!A:C"}.
		Read(context.Background(), SourceOrders)
	require.NoError(t, err)
	assert.Equal(t, "sheet-1/Orders!A:C", data.Name)
	assert.Len(t, data.Records, 1)

	_, err = SheetInput{Client: getter, SpreadsheetID: "sheet-1", Range: "Costs!A:C"}.
		Read(context.Background(), SourceCosts)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIngestion))

	getter.AssertExpectations(t)
}

func TestLoader_LoadsBothSources(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	result := NewLoader(logger).Load(context.Background(),
		ReaderInput{Name: "orders.csv", Reader: strings.NewReader(testutil.OrdersCSV)},
		ReaderInput{Name: "costs.csv", Reader: strings.NewReader(testutil.CostsCSV)},
	)

	assert.Empty(t, result.Errors)
	assert.Equal(t, 5, result.Orders.Len())
	assert.Equal(t, 3, result.Costs.Len())
	assert.Equal(t, "orders.csv", result.Orders.Name)
	assert.False(t, result.Empty())
}

func TestLoader_FailingSourceDoesNotBlockOther(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	result := NewLoader(logger).Load(context.Background(),
		ReaderInput{Name: "orders.csv", Reader: strings.NewReader("Type,Amount\nSale,\"$10\n")},
		ReaderInput{Name: "costs.csv", Reader: strings.NewReader(testutil.CostsCSV)},
	)

	require.Contains(t, result.Errors, SourceOrders)
	assert.True(t, apperrors.IsType(result.Errors[SourceOrders], apperrors.ErrTypeIngestion))
	assert.Nil(t, result.Orders)
	assert.Equal(t, 3, result.Costs.Len())
	assert.True(t, logs.ContainsMessage("source failed to load"))
}

func TestLoader_MissingSources(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	result := NewLoader(logger).Load(context.Background(), nil, nil)

	assert.True(t, result.Empty())
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings())
}

type panickingReader struct{}

func (panickingReader) Read(context.Context, Source) (*SourceData, error) {
	panic("boom")
}

func TestLoader_RecoversReaderPanic(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	result := NewLoader(logger).Load(context.Background(),
		panickingReader{},
		ReaderInput{Name: "costs.csv", Reader: strings.NewReader(testutil.CostsCSV)},
	)

	require.Contains(t, result.Errors, SourceOrders)
	assert.True(t, apperrors.IsType(result.Errors[SourceOrders], apperrors.ErrTypeIngestion))
	assert.Equal(t, 3, result.Costs.Len())
}
