package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitpilot/internal/finance"
	"profitpilot/internal/services"
	"profitpilot/internal/shared/testutil"
	api "profitpilot/pkg/contracts/api/v1"
)

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewHealthHandler(services.NewHealthService(nil, false, logger), logger)

	tests := []struct {
		name          string
		endpoint      string
		handlerFunc   http.HandlerFunc
		checkResponse func(t *testing.T, body map[string]interface{})
	}{
		{
			name:        "health check endpoint",
			endpoint:    "/api/health",
			handlerFunc: handler.HealthCheck,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "ok", body["status"])
				svcs, ok := body["services"].(map[string]interface{})
				require.True(t, ok)
				assert.Contains(t, svcs, "insights")
				assert.Contains(t, svcs, "websocket")
			},
		},
		{
			name:        "liveness endpoint",
			endpoint:    "/api/health/live",
			handlerFunc: handler.LivenessCheck,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "alive", body["status"])
				assert.Contains(t, body, "runtime")
			},
		},
		{
			name:        "version endpoint",
			endpoint:    "/api/version",
			handlerFunc: handler.Version,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.NotEmpty(t, body["version"])
				assert.Contains(t, body, "go_version")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handlerFunc(w, httptest.NewRequest(http.MethodGet, tt.endpoint, nil))

			require.Equal(t, http.StatusOK, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			tt.checkResponse(t, body)
		})
	}
}

func TestCategories(t *testing.T) {
	w := httptest.NewRecorder()
	Categories(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.CategoriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Categories, len(finance.Categories))
	assert.Contains(t, resp.Categories, string(finance.CategoryMaterials))
	assert.Equal(t, finance.InferenceLabels, resp.InferenceLabels)
	assert.Equal(t, []string{"materials", "keyword", "remote"}, resp.Strategies)
}
