package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"profitpilot/internal/dataprocessing"
	apierrors "profitpilot/internal/errors"
	"profitpilot/internal/middleware"
	"profitpilot/internal/report"
	"profitpilot/internal/services"
	"profitpilot/internal/shared/testutil"
	api "profitpilot/pkg/contracts/api/v1"
)

// MockAnalysisService is a mock implementation of AnalysisService
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, orders, costs dataprocessing.SourceReader, strategy string) (*report.Report, error) {
	args := m.Called(ctx, orders, costs, strategy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Report), args.Error(1)
}

type formFile struct {
	field, name, content string
}

func multipartBody(t *testing.T, files []formFile, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func bothFiles() []formFile {
	return []formFile{
		{api.FieldOrdersFile, "orders.csv", testutil.OrdersCSV},
		{api.FieldCostsFile, "costs.csv", testutil.CostsCSV},
	}
}

func newAnalysisRouter(t *testing.T, svc AnalysisService, maxBody int64) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	validator := middleware.NewValidationMiddleware(logger, errorHandler, maxBody)

	r := chi.NewRouter()
	r.Mount("/api/analyze", NewAnalysisHandler(svc, validator, logger, errorHandler).Routes())
	return r
}

func realService(t *testing.T) AnalysisService {
	logger, _ := testutil.NewTestLogger(t)
	return services.NewAnalysisService(services.AnalysisDeps{Logger: logger})
}

func postForm(t *testing.T, h http.Handler, path string, files []formFile, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, files, fields)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem), w.Body.String())
	return problem
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	router := newAnalysisRouter(t, realService(t), 0)

	w := postForm(t, router, "/api/analyze", bothFiles(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var resp api.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, api.StrategyMaterials, resp.Strategy)

	assert.Equal(t, "250.00", resp.Summary.TotalRevenue)
	assert.Equal(t, "65.50", resp.Summary.TotalCosts)
	assert.Equal(t, "184.50", resp.Summary.NetProfit)
	assert.Equal(t, "73.8", resp.Summary.ProfitMargin)
	assert.Equal(t, "$250.00", resp.Summary.Display.TotalRevenue)
	assert.Equal(t, "$184.50", resp.Summary.Display.NetProfit)
	assert.Equal(t, "73.8%", resp.Summary.Display.ProfitMargin)

	require.Len(t, resp.Monthly, 2)
	assert.Equal(t, api.MonthResponse{Month: "2025-01", Revenue: "100.00", Costs: "40.00", Profit: "60.00"}, resp.Monthly[0])
	assert.Equal(t, api.MonthResponse{Month: "2025-02", Revenue: "150.00", Costs: "25.50", Profit: "124.50"}, resp.Monthly[1])

	require.Len(t, resp.Categories, 1)
	assert.Equal(t, "Materials and Supplies", resp.Categories[0].Category)
	assert.Equal(t, "65.50", resp.Categories[0].Amount)
	assert.Equal(t, "100.0", resp.Categories[0].Share)

	assert.Len(t, resp.Sales, 2)
	assert.Len(t, resp.Costs, 2)
	assert.Len(t, resp.Sources, 2)
	assert.Equal(t, "local", resp.Insights.Origin)
	assert.NotEmpty(t, resp.Insights.Warning)
	assert.NotEmpty(t, resp.Insights.Performance)
}

func TestAnalysisHandler_AnalyzeSingleSource(t *testing.T) {
	router := newAnalysisRouter(t, realService(t), 0)

	w := postForm(t, router, "/api/analyze", []formFile{
		{api.FieldOrdersFile, "orders.csv", testutil.OrdersCSV},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "250.00", resp.Summary.TotalRevenue)
	assert.Equal(t, "0.00", resp.Summary.TotalCosts)
	assert.Len(t, resp.Sources, 1)
	assert.NotNil(t, resp.Categories)
	assert.Empty(t, resp.Categories)
	assert.NotNil(t, resp.Costs)
}

func TestAnalysisHandler_Errors(t *testing.T) {
	tests := []struct {
		name           string
		files          []formFile
		fields         map[string]string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "no files",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "NO_SOURCE_DATA",
		},
		{
			name:           "unknown strategy",
			files:          bothFiles(),
			fields:         map[string]string{api.FieldStrategy: "astrology"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_FAILED",
		},
		{
			name:           "unsupported extension",
			files:          []formFile{{api.FieldOrdersFile, "orders.pdf", testutil.OrdersCSV}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			router := newAnalysisRouter(t, svc, 0)

			w := postForm(t, router, "/api/analyze", tt.files, tt.fields)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.expectedCode, decodeProblem(t, w)["error_code"])
			svc.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAnalysisHandler_StrategyAndMissingSource(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("Analyze", mock.Anything, mock.AnythingOfType("dataprocessing.ReaderInput"), nil, "keyword").
		Return(&report.Report{RunID: "run-1", Strategy: "keyword"}, nil)
	router := newAnalysisRouter(t, svc, 0)

	w := postForm(t, router, "/api/analyze", []formFile{
		{api.FieldOrdersFile, "orders.csv", testutil.OrdersCSV},
	}, map[string]string{api.FieldStrategy: " Keyword "})

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	svc.AssertExpectations(t)
}

func TestAnalysisHandler_ServiceError(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("Analyze", mock.Anything, mock.Anything, mock.Anything, "").
		Return(nil, apierrors.NewIngestionError("orders", "cannot parse file", nil))
	router := newAnalysisRouter(t, svc, 0)

	w := postForm(t, router, "/api/analyze", bothFiles(), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "/errors/ingestion", decodeProblem(t, w)["type"])
}

func TestAnalysisHandler_UnclassifiedServiceError(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("Analyze", mock.Anything, mock.Anything, mock.Anything, "keyword").
		Return(nil, errors.New("nil pointer in aggregation"))
	router := newAnalysisRouter(t, svc, 0)

	w := postForm(t, router, "/api/analyze", bothFiles(), map[string]string{api.FieldStrategy: "keyword"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	problem := decodeProblem(t, w)
	assert.Equal(t, "/errors/analysis", problem["type"])
	assert.Equal(t, "ANALYSIS_FAILED", problem["error_code"])
	assert.NotContains(t, w.Body.String(), "nil pointer")
}

func TestAnalysisHandler_RejectsNonMultipart(t *testing.T) {
	router := newAnalysisRouter(t, new(MockAnalysisService), 0)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestAnalysisHandler_BodyTooLarge(t *testing.T) {
	router := newAnalysisRouter(t, new(MockAnalysisService), 64)

	w := postForm(t, router, "/api/analyze", bothFiles(), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestAnalysisHandler_ExportWorkbook(t *testing.T) {
	router := newAnalysisRouter(t, realService(t), 0)

	w := postForm(t, router, "/api/analyze/export", bothFiles(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="profitpilot-report-`)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `.xlsx"`)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Monthly", "Categories", "Insights"}, f.GetSheetList())

	rows, err := f.GetRows("Monthly")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2025-01", "100.00", "40.00", "60.00"}, rows[1])
}

func TestAnalysisHandler_ExportCSV(t *testing.T) {
	router := newAnalysisRouter(t, realService(t), 0)

	w := postForm(t, router, "/api/analyze/export?format=csv&table=categories", bothFiles(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "profitpilot-categories-")

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
	assert.Contains(t, body, "Category,Amount,Share %\n")
	assert.Contains(t, body, "Materials and Supplies,65.50,100.0\n")
}

func TestAnalysisHandler_ExportRejectsUnknownFormat(t *testing.T) {
	svc := new(MockAnalysisService)
	router := newAnalysisRouter(t, svc, 0)

	w := postForm(t, router, "/api/analyze/export?format=pdf", bothFiles(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeProblem(t, w)["error_code"])
	svc.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
