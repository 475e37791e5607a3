package handlers

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"log/slog"

	"github.com/jpryor812/shopify-aloha/internal/container"
	"github.com/jpryor812/shopify-aloha/internal/models"
	"github.com/jpryor812/shopify-aloha/internal/utils"
)

const wsReadDeadline = 60 * time.Second

var (
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ws_connections_active",
		Help: "Currently open WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_messages_total",
			Help: "WebSocket messages by type and direction",
		},
		[]string{"type", "direction"},
	)
)

// WSHandler serves the chat over WebSocket for widgets that keep a
// persistent connection instead of polling REST.
type WSHandler struct {
	container *container.Container
	processor *ChatProcessor

	mu      sync.RWMutex
	clients map[string]*websocket.Conn
}

func NewWSHandler(c *container.Container) *WSHandler {
	return &WSHandler{
		container: c,
		processor: NewChatProcessor(c),
		clients:   make(map[string]*websocket.Conn),
	}
}

type WSMessage struct {
	Type           string `json:"type"`
	SessionID      string `json:"session_id"`
	Message        string `json:"message"`
	RefreshContext bool   `json:"refresh_context,omitempty"`
}

type WSResponse struct {
	Type             string           `json:"type"`
	SessionID        string           `json:"session_id,omitempty"`
	Output           string           `json:"output,omitempty"`
	Success          bool             `json:"success,omitempty"`
	Conversation     []models.Message `json:"conversation,omitempty"`
	RelevantProducts []models.Product `json:"relevant_products,omitempty"`
	Error            string           `json:"error,omitempty"`
	Message          string           `json:"message,omitempty"`
}

func (h *WSHandler) HandleWebSocket(c *websocket.Conn) {
	clientID := uuid.New().String()
	ctx := utils.WithRequestID(context.Background(), clientID)

	utils.LogInfo(ctx, "🔌 client connected", slog.String("client_id", clientID))
	wsConnectionsActive.Inc()
	defer wsConnectionsActive.Dec()

	c.SetReadDeadline(time.Now().Add(wsReadDeadline))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(wsReadDeadline))
		return nil
	})

	h.addClient(clientID, c)
	defer h.removeClient(clientID)

	for {
		var msg WSMessage
		if err := c.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				utils.LogError(ctx, "❌ websocket error", err, slog.String("client_id", clientID))
			} else if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				utils.LogInfo(ctx, "⏱️ websocket timeout, no ping received", slog.String("client_id", clientID))
			}
			break
		}

		c.SetReadDeadline(time.Now().Add(wsReadDeadline))
		wsMessagesTotal.WithLabelValues(msg.Type, "in").Inc()

		h.handleMessage(ctx, c, &msg)
	}

	utils.LogInfo(ctx, "🔌 client disconnected", slog.String("client_id", clientID))
}

func (h *WSHandler) handleMessage(ctx context.Context, c *websocket.Conn, msg *WSMessage) {
	switch msg.Type {
	case "chat":
		h.handleChat(c, msg)
	case "start_session":
		h.handleStartSession(ctx, c, msg)
	case "ping":
		h.sendResponse(c, &WSResponse{Type: "pong"})
	default:
		h.sendError(c, "unknown_message_type", "Unknown message type")
	}
}

func (h *WSHandler) handleChat(c *websocket.Conn, msg *WSMessage) {
	if msg.SessionID == "" || msg.Message == "" {
		h.sendError(c, "validation_error", "session_id and message are required")
		return
	}

	result := h.processor.ProcessChat(&models.ChatRequest{
		SessionID:      msg.SessionID,
		Message:        msg.Message,
		RefreshContext: msg.RefreshContext,
	})

	h.sendResponse(c, &WSResponse{
		Type:             "chat_response",
		SessionID:        msg.SessionID,
		Output:           result.Response,
		Success:          result.Success,
		Conversation:     result.Conversation,
		RelevantProducts: result.RelevantProducts,
	})
}

func (h *WSHandler) handleStartSession(ctx context.Context, c *websocket.Conn, msg *WSMessage) {
	if msg.SessionID == "" {
		h.sendError(c, "validation_error", "session_id is required")
		return
	}

	conversation := h.processor.StartSession(ctx, msg.SessionID)
	h.sendResponse(c, &WSResponse{
		Type:         "session_started",
		SessionID:    msg.SessionID,
		Success:      true,
		Conversation: conversation,
	})
}

func (h *WSHandler) addClient(id string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = c
}

func (h *WSHandler) removeClient(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

func (h *WSHandler) sendResponse(c *websocket.Conn, response *WSResponse) {
	if err := c.WriteJSON(response); err != nil {
		utils.LogError(context.Background(), "❌ failed to send websocket response", err)
		return
	}
	wsMessagesTotal.WithLabelValues(response.Type, "out").Inc()
}

func (h *WSHandler) sendError(c *websocket.Conn, errorCode, message string) {
	h.sendResponse(c, &WSResponse{
		Type:    "error",
		Error:   errorCode,
		Message: message,
	})
}
