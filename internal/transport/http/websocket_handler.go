package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"profitpilot/internal/infrastructure"
	"profitpilot/internal/middleware"
	ws "profitpilot/internal/websocket"
)

// WebSocketHandler upgrades dashboard connections and attaches them to the
// event hub.
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	origins  map[string]bool
	devMode  bool
	logger   *slog.Logger
}

// WebSocketOptions configures the upgrader.
type WebSocketOptions struct {
	ReadBufferSize  int
	WriteBufferSize int
	AllowedOrigins  []string
	// DevMode accepts any origin.
	DevMode bool
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(hub *ws.Hub, opts WebSocketOptions, logger *slog.Logger) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:     hub,
		origins: make(map[string]bool, len(opts.AllowedOrigins)),
		devMode: opts.DevMode,
		logger:  logger.With(slog.String("handler", "websocket")),
	}
	for _, o := range opts.AllowedOrigins {
		h.origins[o] = true
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  opts.ReadBufferSize,
		WriteBufferSize: opts.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			h.logger.WarnContext(r.Context(), "WebSocket upgrade error",
				slog.Int("status", status),
				slog.String("reason", reason.Error()),
				slog.String("origin", r.Header.Get("Origin")))
			http.Error(w, http.StatusText(status), status)
		},
	}
	return h
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if reqID := middleware.GetRequestID(ctx); reqID != "" {
		ctx = infrastructure.WithTraceID(ctx, reqID)
	}
	ctx = infrastructure.EnsureTraceID(ctx)
	traceID := infrastructure.GetTraceID(ctx)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the response.
		return
	}

	client := ws.ServeWS(h.hub, conn, traceID, h.logger)
	h.logger.InfoContext(ctx, "WebSocket client connected",
		slog.String("client_id", client.ID()),
		slog.String("remote_addr", middleware.GetRealIP(r)))
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.devMode {
		return true
	}
	if h.origins[origin] || h.origins["*"] {
		return true
	}
	// Same host is always allowed.
	if origin == "http://"+r.Host || origin == "https://"+r.Host {
		return true
	}
	h.logger.WarnContext(r.Context(), "WebSocket origin check - origin not allowed",
		slog.String("origin", origin))
	return false
}
