package events

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/chair-yoga/backend/internal/service/analytics"
	"github.com/zhouzirui/chair-yoga/backend/pkg/utils"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	heartbeatPeriod = 15 * time.Second
	subscribeBuffer = 64
)

// Handler 将埋点事件实时推送给看板，支持 WebSocket 与 SSE。
type Handler struct {
	hub      *analytics.Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New 创建事件推送处理器
func New(hub *analytics.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		hub:    hub,
		logger: logger.Named("handler.events"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册事件推送路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events/ws", h.handleWebSocket)
	r.Get("/events/stream", h.handleStream)
}

// matches filters by ?session= when present.
func matches(r *http.Request) func(analytics.Event) bool {
	session := r.URL.Query().Get("session")
	return func(ev analytics.Event) bool {
		return session == "" || ev.SessionID == session
	}
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	events, cancel := h.hub.Subscribe(subscribeBuffer)
	defer cancel()
	accept := matches(r)

	// 读循环只用于感知客户端断开与 pong。
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	h.logger.Debug("websocket subscriber connected", zap.String("remote", r.RemoteAddr))
	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !accept(ev) {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		_ = utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, cancel := h.hub.Subscribe(subscribeBuffer)
	defer cancel()
	accept := matches(r)

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	if err := utils.SendSSEComment(w, flusher, "connected"); err != nil {
		return
	}

	ticker := time.NewTicker(heartbeatPeriod)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !accept(ev) {
				continue
			}
			if err := utils.SendSSEEvent(w, flusher, ev.Name, ev); err != nil {
				h.logger.Debug("sse write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "heartbeat"); err != nil {
				return
			}
		}
	}
}
