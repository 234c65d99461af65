package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apierrors "profitpilot/internal/errors"
	"profitpilot/internal/middleware"
	"profitpilot/internal/shared/testutil"
)

func TestClientLogHandler_Handle(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedLevel  slog.Level
	}{
		{
			name:           "valid log entry",
			body:           `{"level": "info", "message": "chart rendered", "source": "dashboard.js", "data": {"points": 12}}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelInfo,
		},
		{
			name:           "error level",
			body:           `{"level": "error", "message": "upload failed"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelError,
		},
		{
			name:           "level defaults to info",
			body:           `{"message": "no level given"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelInfo,
		},
		{
			name:           "unknown level",
			body:           `{"level": "fatal", "message": "boom"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing message",
			body:           `{"level": "info"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid json",
			body:           `not json`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			errorHandler := apierrors.NewErrorHandler(logger, false)
			handler := NewClientLogHandler(middleware.NewValidationMiddleware(logger, errorHandler, 0), logger, errorHandler)

			req := httptest.NewRequest(http.MethodPost, "/api/logs", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			handler.Handle(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"success":true`)
				assert.NotEmpty(t, logs.GetRecordsByLevel(tt.expectedLevel))
			}
		})
	}
}
