package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"profitpilot/internal/config"
	apperrors "profitpilot/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// collect gathers everything recorded on reader, keyed by instrument name.
func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumTotal(t *testing.T, agg metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", agg)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestOTelInitialization(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)
	assert.Nil(t, providers.TracerProvider, "tracing is off by default")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		config  *OTelConfig
		wantErr bool
	}{
		{
			name:   "stdout tracing",
			config: &OTelConfig{ServiceName: "t", TraceExporter: "stdout", MetricExporter: "none", SampleRatio: 1},
		},
		{
			name:   "everything disabled",
			config: &OTelConfig{ServiceName: "t", TraceExporter: "none", MetricExporter: "none"},
		},
		{
			name:    "unknown trace exporter",
			config:  &OTelConfig{ServiceName: "t", TraceExporter: "otlp", MetricExporter: "none"},
			wantErr: true,
		},
		{
			name:    "unknown metric exporter",
			config:  &OTelConfig{ServiceName: "t", TraceExporter: "none", MetricExporter: "statsd"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.config, discardLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, providers.Tracer)
			assert.NotNil(t, providers.Meter)
			assert.NoError(t, providers.Shutdown(context.Background()))
		})
	}
}

func TestOTelConfigFromTelemetry(t *testing.T) {
	cfg := OTelConfigFromTelemetry(config.TelemetryConfig{
		ServiceName:    "pp",
		Environment:    "production",
		TraceExporter:  "stdout",
		MetricExporter: "none",
	})
	assert.Equal(t, "pp", cfg.ServiceName)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, "none", cfg.MetricExporter)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestPrometheusEndpoint(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateAnalysisMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordRun(context.Background(), "materials", time.Second, nil)

	server := httptest.NewServer(providers.PrometheusHTTP)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "analysis_runs_total")
}

func TestBusinessMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	metrics, err := CreateBusinessMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.HTTPRequestsTotal.Add(ctx, 2)
	metrics.SystemErrors.Add(ctx, 1)

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumTotal(t, data["http_requests_total"]))
	assert.Equal(t, int64(1), sumTotal(t, data["system_errors_total"]))
}

func TestAnalysisMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	metrics, err := CreateAnalysisMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordRun(ctx, "materials", 2*time.Second, nil)
	metrics.RecordRun(ctx, "keyword", time.Second, apperrors.NewIngestionError("orders", "bad file", nil))
	metrics.RecordIngested(ctx, "orders", 10, 3)
	metrics.RecordIngested(ctx, "costs", 4, 0)
	metrics.ObserveRemote(ctx, 300*time.Millisecond, errors.New("boom"))
	metrics.ObserveFallback(ctx, "remote_error")

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumTotal(t, data["analysis_runs_total"]))
	assert.Equal(t, int64(1), sumTotal(t, data["analysis_errors_total"]))
	assert.Equal(t, int64(14), sumTotal(t, data["analysis_records_ingested_total"]))
	assert.Equal(t, int64(3), sumTotal(t, data["analysis_records_dropped_total"]))
	assert.Equal(t, int64(1), sumTotal(t, data["insight_fallbacks_total"]))

	hist, ok := data["remote_insight_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)

	errs := data["analysis_errors_total"].(metricdata.Sum[int64])
	errType, found := errs.DataPoints[0].Attributes.Value("error.type")
	require.True(t, found)
	assert.Equal(t, "INGESTION", errType.AsString())
}

func TestNilAnalysisMetrics(t *testing.T) {
	var metrics *AnalysisMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		metrics.RecordRun(ctx, "materials", time.Second, nil)
		metrics.RecordIngested(ctx, "orders", 1, 0)
		metrics.ObserveRemote(ctx, time.Second, nil)
		metrics.ObserveFallback(ctx, "not_configured")
	})
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "REMOTE", errorType(apperrors.NewRemoteError("down", nil)))
	assert.Equal(t, "timeout", errorType(context.DeadlineExceeded))
	assert.Equal(t, "internal", errorType(errors.New("x")))
}

func TestTraceIDFromContext(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName: "t", TraceExporter: "stdout", MetricExporter: "none", SampleRatio: 1,
	}, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Empty(t, TraceIDFromContext(context.Background()))

	ctx, span := providers.Tracer.Start(context.Background(), "test-operation")
	defer span.End()

	assert.Equal(t, span.SpanContext().TraceID().String(), TraceIDFromContext(ctx))

	SetSpanAttributes(ctx, map[string]interface{}{"rows": 3, "source": "orders"})
	RecordError(ctx, assert.AnError)
	assert.True(t, span.IsRecording())
}
