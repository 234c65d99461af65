package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "profitpilot/internal/errors"
	"profitpilot/internal/finance"
)

// ValuesGetter fetches a range of cells. *SheetsClient implements it against
// the Sheets API; tests supply their own.
type ValuesGetter interface {
	GetValues(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
}

// SheetsClient reads ranges through the Google Sheets API.
type SheetsClient struct {
	service *sheets.Service
	logger  *slog.Logger
}

// NewSheetsClient authenticates with a service account credentials file.
func NewSheetsClient(ctx context.Context, credentialsFile string, logger *slog.Logger) (*SheetsClient, error) {
	if credentialsFile == "" {
		return nil, apperrors.NewConfigError("sheets credentials file is not configured", nil)
	}
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to create sheets service", err)
	}
	return &SheetsClient{
		service: service,
		logger:  logger.With(slog.String("component", "sheets_client")),
	}, nil
}

// GetValues implements ValuesGetter.
func (c *SheetsClient) GetValues(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "sheet range fetched",
		slog.String("range", resp.Range),
		slog.Int("rows", len(resp.Values)))
	return resp.Values, nil
}

// SheetInput reads one source from a spreadsheet range such as "Orders!A:J".
type SheetInput struct {
	Client        ValuesGetter
	SpreadsheetID string
	Range         string
}

// Read implements SourceReader.
func (in SheetInput) Read(ctx context.Context, source Source) (*SourceData, error) {
	values, err := in.Client.GetValues(ctx, in.SpreadsheetID, in.Range)
	if err != nil {
		return nil, sheetError(source, in.SpreadsheetID, in.Range, err)
	}
	data := RecordsFromValues(source, values)
	data.Name = fmt.Sprintf("%s/%s", in.SpreadsheetID, in.Range)
	return data, nil
}

// RecordsFromValues converts a Sheets value grid, header first, into records.
// Numeric cells stay numbers; formatted text is typed like CSV input.
func RecordsFromValues(source Source, values [][]interface{}) *SourceData {
	data := &SourceData{Source: source}
	if len(values) == 0 {
		return data
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = cellText(cell)
	}
	data.Headers = trimHeaders(header)

	records := make([]finance.RawRecord, 0, len(values)-1)
	for _, row := range values[1:] {
		cells := make([]finance.Value, len(row))
		for i, cell := range row {
			cells[i] = sheetValue(cell)
		}
		records = append(records, finance.NewRawRecord(data.Headers, cells))
	}

	data.Records, data.Dropped = FilterRecords(source, records)
	return data
}

func sheetValue(cell interface{}) finance.Value {
	switch v := cell.(type) {
	case nil:
		return finance.Absent()
	case float64:
		return finance.Number(v)
	case int:
		return finance.Number(float64(v))
	case string:
		return finance.InferValue(v)
	default:
		return finance.InferValue(cellText(v))
	}
}

func cellText(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// sheetError annotates a Sheets API failure with the range that was requested.
func sheetError(source Source, spreadsheetID, rng string, err error) error {
	return apperrors.NewIngestionError(string(source), fmt.Sprintf("cannot read range %q", rng), err).
		WithContext("spreadsheet_id", spreadsheetID)
}
