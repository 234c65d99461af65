package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitpilot/internal/shared/testutil"
	ws "profitpilot/internal/websocket"
	"profitpilot/pkg/contracts/events"
)

func newWSServer(t *testing.T, opts WebSocketOptions) (*ws.Hub, *httptest.Server) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	hub := ws.NewHub(logger)
	hub.Start()
	t.Cleanup(hub.Stop)

	if opts.ReadBufferSize == 0 {
		opts.ReadBufferSize, opts.WriteBufferSize = 1024, 1024
	}
	server := httptest.NewServer(NewWebSocketHandler(hub, opts, logger))
	t.Cleanup(server.Close)
	return hub, server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWebSocketHandler_ReceivesPublishedEvents(t *testing.T) {
	hub, server := newWSServer(t, WebSocketOptions{})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(events.NewMessage(events.MessageTypeAnalysisStarted, "trace-1", events.AnalysisStarted{
		RunID:    "run-1",
		Sources:  []string{"orders"},
		Strategy: "materials",
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg struct {
			Type    events.MessageType     `json:"type"`
			TraceID string                 `json:"trace_id"`
			Data    map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.Type != events.MessageTypeAnalysisStarted {
			continue
		}
		assert.Equal(t, "trace-1", msg.TraceID)
		assert.Equal(t, "run-1", msg.Data["run_id"])
		return
	}
}

func TestWebSocketHandler_OriginCheck(t *testing.T) {
	tests := []struct {
		name    string
		opts    WebSocketOptions
		origin  string
		allowed bool
	}{
		{name: "no origin", allowed: true},
		{name: "listed origin", opts: WebSocketOptions{AllowedOrigins: []string{"http://dash.example"}}, origin: "http://dash.example", allowed: true},
		{name: "unlisted origin", opts: WebSocketOptions{AllowedOrigins: []string{"http://dash.example"}}, origin: "http://evil.example", allowed: false},
		{name: "dev mode", opts: WebSocketOptions{DevMode: true}, origin: "http://evil.example", allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, server := newWSServer(t, tt.opts)

			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL(server), header)
			if tt.allowed {
				require.NoError(t, err)
				conn.Close()
				return
			}
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}

func TestWebSocketHandler_RejectsPlainHTTP(t *testing.T) {
	_, server := newWSServer(t, WebSocketOptions{})

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
