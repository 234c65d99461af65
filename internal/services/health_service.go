package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"profitpilot/internal/websocket"
	"profitpilot/pkg/contracts"
)

// HubStatsProvider exposes websocket hub activity to health checks.
type HubStatsProvider interface {
	Stats() websocket.HubStats
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	hub       HubStatsProvider
	insights  bool
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. hub may be nil (CLI).
// remoteInsights reports whether an inference credential is configured.
func NewHealthService(hub HubStatsProvider, remoteInsights bool, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   contracts.Version,
		hub:       hub,
		insights:  remoteInsights,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status with per-component detail.
// Remote insights being unconfigured is not a failure: local heuristics
// always answer.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"websocket": hs.checkWebSocketHealth(),
			"insights":  hs.checkInsightsHealth(),
		},
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed",
		slog.String("status", status.Status))

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      info.Version,
		"api_version":  info.APIVersion,
		"prerelease":   contracts.IsPrerelease(),
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	if hs.hub == nil {
		return ServiceHealth{Status: "disabled"}
	}
	stats := hs.hub.Stats()
	return ServiceHealth{
		Status:  "ready",
		Message: pluralClients(stats.ActiveClients),
	}
}

func (hs *HealthService) checkInsightsHealth() ServiceHealth {
	if hs.insights {
		return ServiceHealth{Status: "ready", Message: "remote insights configured"}
	}
	return ServiceHealth{Status: "degraded", Message: "local heuristics only"}
}

func pluralClients(n int) string {
	if n == 1 {
		return "1 client connected"
	}
	return fmt.Sprintf("%d clients connected", n)
}
