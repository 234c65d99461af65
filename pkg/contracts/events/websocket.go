// Package events contains the WebSocket event contracts of the dashboard.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Analysis lifecycle
	MessageTypeAnalysisStarted   MessageType = "analysis:started"
	MessageTypeAnalysisCompleted MessageType = "analysis:completed"
	MessageTypeAnalysisFailed    MessageType = "analysis:failed"

	// Remote insights were replaced by local heuristics
	MessageTypeInsightsFallback MessageType = "insights:fallback"

	// Connection messages
	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// NewMessage wraps a payload in a timestamped message.
func NewMessage(t MessageType, traceID string, data interface{}) WebSocketMessage {
	return WebSocketMessage{
		BaseMessage: BaseMessage{Type: t, Timestamp: time.Now().UTC(), TraceID: traceID},
		Data:        data,
	}
}

// AnalysisStarted is sent when a run begins.
type AnalysisStarted struct {
	RunID    string   `json:"run_id"`
	Sources  []string `json:"sources"`
	Strategy string   `json:"category_strategy"`
}

// AnalysisCompleted carries the headline figures of a finished run. Amounts
// are decimal strings.
type AnalysisCompleted struct {
	RunID         string `json:"run_id"`
	TotalRevenue  string `json:"total_revenue"`
	TotalCosts    string `json:"total_costs"`
	NetProfit     string `json:"net_profit"`
	ProfitMargin  string `json:"profit_margin"`
	Months        int    `json:"months"`
	InsightOrigin string `json:"insight_origin"`
	DurationMS    int64  `json:"duration_ms"`
}

// AnalysisFailed is sent when a run ends with an error.
type AnalysisFailed struct {
	RunID   string `json:"run_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InsightsFallback is sent when local insights replaced remote ones.
type InsightsFallback struct {
	RunID   string `json:"run_id,omitempty"`
	Reason  string `json:"reason"`
	Warning string `json:"warning"`
}

// ConnectionEvent is sent to a client right after it connects.
type ConnectionEvent struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	ClientID string `json:"client_id"`
}
