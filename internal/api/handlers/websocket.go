package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/courtside/courtside/internal/api/middleware"
	"github.com/courtside/courtside/internal/services"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin is enforced by the CORS middleware on the rest of the
	// API; the browser's Origin header is not trustworthy anyway.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub *services.WebSocketHub
}

func NewWebSocketHandler(hub *services.WebSocketHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket upgrades the connection and serves live updates until the
// client drops. Authenticated clients are auto-subscribed to their private
// channel; everyone can subscribe to game channels.
// GET /ws
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	client := services.NewWSClient(conn, userID)
	if userID != "" {
		client.Subscribe(services.UserChannel(userID))
	}

	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump(h.hub)
}
