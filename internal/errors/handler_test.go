package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitpilot/internal/shared/testutil"
)

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "context deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api error",
			err:        ErrInvalidRequest,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "no source data",
			err:        ErrNoSourceData,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeNoSourceData,
		},
		{
			name:       "ingestion error",
			err:        NewIngestionError("orders", "could not parse orders file", fmt.Errorf("bare quote")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeIngestion,
		},
		{
			name:       "wrapped validation error",
			err:        fmt.Errorf("decode: %w", NewAppValidationError("category_strategy must be one of materials keyword remote")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "analysis error",
			err:        NewAnalysisError("analysis failed", fmt.Errorf("index out of range")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeAnalysis,
		},
		{
			name:       "payload too large",
			err:        &http.MaxBytesError{Limit: 10},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
		},
		{
			name:       "plain error",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
			w := httptest.NewRecorder()
			handler.HandleError(w, req, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "/api/analyze", body["instance"])
			assert.Contains(t, body, "trace_id")
			assert.True(t, logs.ContainsMessage("request failed"))
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, logs.Count())
	assert.Empty(t, w.Body.String())
}

func TestIngestionProblemCarriesSource(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)

	problem := handler.ErrorToProblem(NewIngestionError("costs", "bad file", fmt.Errorf("quote")), req)

	assert.Equal(t, "costs", problem.Extensions["source"])
	assert.Equal(t, "bad file: quote", problem.Detail)
}

func TestAnalysisProblemHidesCause(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)

	problem := handler.ErrorToProblem(NewAnalysisError("analysis failed", fmt.Errorf("nil map")), req)

	assert.Equal(t, "analysis failed", problem.Detail)
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	w := httptest.NewRecorder()
	handler.HandlePanic(w, httptest.NewRequest(http.MethodGet, "/api/analyze", nil), "kaboom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "kaboom", body["panic"])
	assert.True(t, logs.ContainsMessage("panic recovered"))
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "/x").
		WithExtension("trace_id", "abc").
		WithExtension("status", "ignored")

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"/errors/not-found","title":"Not Found","status":404,"instance":"/x","trace_id":"abc"}`, string(data))
}

func TestErrorHandler_NotFound(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.NotFound(w, httptest.NewRequest(http.MethodGet, "/api/reports", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, TypeNotFound, body["type"])
	assert.Equal(t, "NOT_FOUND", body["error_code"])
	assert.Equal(t, "route /api/reports not found", body["detail"])
	assert.Equal(t, "/api/reports", body["instance"])
}

func TestAnalysisExecutionProblem(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)

	problem := handler.ErrorToProblem(ErrAnalysisExecution("keyword"), req)

	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	assert.Equal(t, TypeAnalysis, problem.Type)
	assert.Equal(t, "ANALYSIS_FAILED", problem.Extensions["error_code"])
	assert.Equal(t, map[string]string{"strategy": "keyword"}, problem.Extensions["details"])
}
