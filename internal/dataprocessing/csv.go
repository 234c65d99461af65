package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	apperrors "profitpilot/internal/errors"
	"profitpilot/internal/finance"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses a delimited export into records.
//
// A UTF-8 BOM is skipped and a leading "sep=X" line selects the delimiter.
// Rows whose field count differs from the header are kept, padded with absent
// cells or truncated, and noted as warnings. Any other parse error aborts the
// source.
func ReadCSV(r io.Reader, source Source) (*SourceData, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	comma, err := readSeparatorLine(br)
	if err != nil {
		return nil, apperrors.NewIngestionError(string(source), "cannot read file", err)
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	data := &SourceData{Source: source}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return data, nil
	}
	if err != nil {
		return nil, apperrors.NewIngestionError(string(source), "cannot parse header", err)
	}
	data.Headers = trimHeaders(header)

	var records []finance.RawRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewIngestionError(string(source), "malformed row", err)
		}
		if len(row) != len(data.Headers) {
			line, _ := cr.FieldPos(0)
			data.warnf("line %d: expected %d fields, found %d", line, len(data.Headers), len(row))
		}
		records = append(records, finance.NewRawRecord(data.Headers, inferRow(row)))
	}

	data.Records, data.Dropped = FilterRecords(source, records)
	return data, nil
}

// readSeparatorLine consumes a spreadsheet-style "sep=X" hint if present and
// returns the delimiter to use.
func readSeparatorLine(br *bufio.Reader) (rune, error) {
	peek, err := br.Peek(5)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, err
	}
	if len(peek) < 5 || !strings.EqualFold(string(peek[:4]), "sep=") {
		return ',', nil
	}
	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	sep, _ := utf8.DecodeRuneInString(strings.TrimRight(line[4:], "\r\n"))
	if sep == utf8.RuneError || sep == '\r' || sep == '\n' || sep == '"' {
		return ',', nil
	}
	return sep, nil
}

func trimHeaders(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func inferRow(row []string) []finance.Value {
	cells := make([]finance.Value, len(row))
	for i, raw := range row {
		cells[i] = finance.InferValue(raw)
	}
	return cells
}
