package exporter

import (
	"fmt"
	"log/slog"

	apperrors "profitpilot/internal/errors"
	"profitpilot/internal/report"
)

// ReportExporter writes an analysis report as a set of CSV files.
type ReportExporter struct {
	csvWriter *CSVWriter
	bom       bool
}

// NewReportExporter creates an exporter writing into dir. With bom set every
// file starts with a UTF-8 byte order mark.
func NewReportExporter(dir string, bom bool, logger *slog.Logger) *ReportExporter {
	return &ReportExporter{
		csvWriter: NewCSVWriter(dir, logger),
		bom:       bom,
	}
}

// ExportCSV writes one file per table, named "<prefix>_<table>.csv", and
// returns the written paths.
func (e *ReportExporter) ExportCSV(r report.Report, prefix string) ([]string, error) {
	if prefix == "" {
		prefix = "profitpilot"
	}

	var paths []string
	for _, t := range Tables(r) {
		filename := fmt.Sprintf("%s_%s.csv", prefix, t.Name)
		path, err := e.csvWriter.WriteCSV(filename, WriteOptions{
			Headers:   t.Headers,
			Records:   t.Rows,
			BOMPrefix: e.bom,
		})
		if err != nil {
			return paths, apperrors.NewExportError(fmt.Sprintf("failed to write %s", filename), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
