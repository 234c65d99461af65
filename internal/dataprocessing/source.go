package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "profitpilot/internal/errors"
	"profitpilot/internal/finance"
)

// Source names one of the two independent inputs.
type Source string

const (
	SourceOrders Source = "orders"
	SourceCosts  Source = "costs"
)

// SourceData is the ingested, filtered content of one source.
type SourceData struct {
	Source   Source
	Name     string
	// Sheet is the worksheet the rows came from. Empty for CSV.
	Sheet    string
	Headers  []string
	Records  []finance.RawRecord
	Warnings []string
	// Dropped counts rows removed by the row filter.
	Dropped int
}

// Len is the number of records that survived filtering.
func (d *SourceData) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

func (d *SourceData) warnf(format string, args ...interface{}) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// SourceReader produces the raw rows of one source.
type SourceReader interface {
	Read(ctx context.Context, source Source) (*SourceData, error)
}

// ReaderInput reads an uploaded file. The format is chosen from Name's
// extension; anything that is not .xlsx is read as CSV.
type ReaderInput struct {
	Name   string
	Reader io.Reader
}

// Read implements SourceReader.
func (in ReaderInput) Read(ctx context.Context, source Source) (*SourceData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadFile(in.Name, in.Reader, source)
}

// PathInput reads a local file.
type PathInput struct {
	Path string
}

// Read implements SourceReader.
func (in PathInput) Read(ctx context.Context, source Source) (*SourceData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(in.Path)
	if err != nil {
		return nil, apperrors.NewIngestionError(string(source), "cannot open file", err).
			WithContext("path", in.Path)
	}
	defer f.Close()
	return ReadFile(filepath.Base(in.Path), f, source)
}

// ReadFile dispatches on the file extension and applies the row filter.
func ReadFile(name string, r io.Reader, source Source) (*SourceData, error) {
	var (
		data *SourceData
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		data, err = ReadWorkbook(r, source)
	default:
		data, err = ReadCSV(r, source)
	}
	if err != nil {
		return nil, err
	}
	data.Name = name
	return data, nil
}
