package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"profitpilot/internal/dataprocessing"
	apierrors "profitpilot/internal/errors"
	"profitpilot/internal/exporter"
	"profitpilot/internal/middleware"
	"profitpilot/internal/report"
	api "profitpilot/pkg/contracts/api/v1"
)

const (
	// multipartMemory is how much of an upload is kept in memory before
	// spilling to temp files.
	multipartMemory = 8 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Export formats accepted by POST /api/analyze/export.
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
)

// AnalysisHandler serves the upload-and-analyze endpoints.
type AnalysisHandler struct {
	service      AnalysisService
	validator    *middleware.ValidationMiddleware
	query        *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisService, validator *middleware.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		validator:    validator,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analyze routes. Mount it at /api/analyze.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(h.validator.LimitBody)
	r.Use(middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data"))

	r.Post("/", h.Analyze)
	r.Post("/export", h.Export)

	return r
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.run(w, r)
	if !ok {
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewAnalysisResponse(rep))
}

// Export handles POST /api/analyze/export. The default is the XLSX
// workbook; format=csv returns one table, chosen with table=.
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, ok := h.query.ValidateEnum(w, r, "format", []string{ExportFormatXLSX, ExportFormatCSV}, ExportFormatXLSX)
	if !ok {
		return
	}
	table := ""
	if format == ExportFormatCSV {
		table, ok = h.query.ValidateEnum(w, r, "table", tableNames(), "monthly")
		if !ok {
			return
		}
	}

	rep, ok := h.run(w, r)
	if !ok {
		return
	}

	var (
		buf         bytes.Buffer
		contentType string
		filename    string
	)
	switch format {
	case ExportFormatCSV:
		t := findTable(*rep, table)
		if err := exporter.EncodeCSV(&buf, exporter.WriteOptions{
			Headers:   t.Headers,
			Records:   t.Rows,
			BOMPrefix: true,
		}); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.NewExportError("failed to encode csv", err))
			return
		}
		contentType = "text/csv; charset=utf-8"
		filename = exportName(rep.RunID, t.Name, "csv")
	default:
		if err := exporter.WriteWorkbook(&buf, *rep); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		contentType = xlsxContentType
		filename = exportName(rep.RunID, "report", "xlsx")
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write interrupted", slog.String("error", err.Error()))
	}
}

// run parses the upload and executes the analysis. It writes the error
// response itself and reports whether the caller may continue.
func (h *AnalysisHandler) run(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	u, err := h.parseUpload(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	defer u.Close()

	rep, err := h.service.Analyze(r.Context(), u.orders, u.costs, u.strategy)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.classify(r, u.strategy, err))
		return nil, false
	}

	h.logger.InfoContext(r.Context(), "analysis served",
		slog.String("run_id", rep.RunID),
		slog.String("request_id", chimiddleware.GetReqID(r.Context())),
		slog.String("strategy", rep.Strategy),
		slog.Int("warnings", len(rep.Warnings)))
	return rep, true
}

// classify passes typed and cancellation errors through and turns
// anything else into ANALYSIS_FAILED after logging the cause.
func (h *AnalysisHandler) classify(r *http.Request, strategy string, err error) error {
	var appErr *apierrors.AppError
	var apiErr *apierrors.APIError
	if errors.As(err, &appErr) || errors.As(err, &apiErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	h.logger.ErrorContext(r.Context(), "analysis failed",
		slog.String("error", err.Error()),
		slog.String("strategy", strategy))
	return apierrors.ErrAnalysisExecution(strategy)
}

// upload is the parsed multipart form. orders and costs stay nil
// interfaces when the field was not sent.
type upload struct {
	orders   dataprocessing.SourceReader
	costs    dataprocessing.SourceReader
	strategy string
	files    []multipart.File
}

func (u *upload) Close() {
	for _, f := range u.files {
		_ = f.Close()
	}
}

func (h *AnalysisHandler) parseUpload(r *http.Request) (*upload, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, apierrors.InvalidRequestWithError(err)
	}

	req := api.AnalyzeRequest{
		CategoryStrategy: strings.ToLower(strings.TrimSpace(r.FormValue(api.FieldStrategy))),
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	u := &upload{strategy: req.CategoryStrategy}
	for _, field := range []string{api.FieldOrdersFile, api.FieldCostsFile} {
		file, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			u.Close()
			return nil, apierrors.InvalidRequestWithError(err)
		}
		u.files = append(u.files, file)

		if err := h.validator.ValidateVar(field, header.Filename, "upload_ext"); err != nil {
			u.Close()
			return nil, err
		}

		in := dataprocessing.ReaderInput{Name: header.Filename, Reader: file}
		if field == api.FieldOrdersFile {
			u.orders = in
			req.HasOrders = true
		} else {
			u.costs = in
			req.HasCosts = true
		}
	}

	if !req.HasOrders && !req.HasCosts {
		return nil, apierrors.ErrNoSourceData
	}
	return u, nil
}

func tableNames() []string {
	tables := exporter.Tables(report.Report{})
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}
	return names
}

func findTable(rep report.Report, name string) exporter.Table {
	tables := exporter.Tables(rep)
	for _, t := range tables {
		if t.Name == name {
			return t
		}
	}
	return tables[0]
}

func exportName(runID, table, ext string) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("profitpilot-%s-%s.%s", table, short, ext)
}
