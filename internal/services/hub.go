package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsMaxMessageSize = 4096
)

// WSMessage is the envelope sent to websocket clients.
type WSMessage struct {
	Type      string      `json:"type"`
	Channel   string      `json:"channel,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// WSClient is one websocket connection with its channel subscriptions.
// Channels follow the "game:<gameId>" and "user:<userId>" convention.
type WSClient struct {
	ID     string
	UserID string // empty for anonymous connections
	Conn   *websocket.Conn
	Send   chan WSMessage

	mu       sync.RWMutex
	channels map[string]bool
}

// NewWSClient wraps an upgraded connection.
func NewWSClient(conn *websocket.Conn, userID string) *WSClient {
	return &WSClient{
		ID:       uuid.NewString(),
		UserID:   userID,
		Conn:     conn,
		Send:     make(chan WSMessage, 64),
		channels: make(map[string]bool),
	}
}

// Subscribe adds the client to a channel.
func (c *WSClient) Subscribe(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels[channel] = true
}

// Unsubscribe removes the client from a channel.
func (c *WSClient) Unsubscribe(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.channels, channel)
}

// SubscribedTo reports whether the client listens on the channel.
func (c *WSClient) SubscribedTo(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channels[channel]
}

// trySend queues a message without blocking; false means the buffer is full.
func (c *WSClient) trySend(msg WSMessage) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// WebSocketHub fans live updates out to subscribed clients.
type WebSocketHub struct {
	clients    map[*WSClient]bool
	clientsMu  sync.RWMutex
	register   chan *WSClient
	unregister chan *WSClient
	broadcast  chan WSMessage
	logger     *logrus.Logger
}

func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*WSClient]bool),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		broadcast:  make(chan WSMessage, 1000),
		logger:     logrus.StandardLogger(),
	}
}

// Run is the hub's main loop; start it in its own goroutine.
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.clientsMu.Unlock()
			h.logger.WithField("client_id", client.ID).Debug("WebSocket client connected")

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.clientsMu.Unlock()
			h.logger.WithField("client_id", client.ID).Debug("WebSocket client disconnected")

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Register adds a client to the hub.
func (h *WebSocketHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WebSocketHub) Unregister(client *WSClient) {
	h.unregister <- client
}

// BroadcastToChannel queues an event for every client subscribed to the
// channel. Messages are dropped if the hub buffer is full.
func (h *WebSocketHub) BroadcastToChannel(channel, event string, payload interface{}) {
	msg := WSMessage{
		Type:      event,
		Channel:   channel,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("WebSocket broadcast buffer full, dropping message")
	}
}

// BroadcastGameUpdate pushes an event to a game's channel.
func (h *WebSocketHub) BroadcastGameUpdate(gameID, event string, payload interface{}) {
	h.BroadcastToChannel(GameChannel(gameID), event, payload)
}

// BroadcastToUser pushes an event to a user's private channel.
func (h *WebSocketHub) BroadcastToUser(userID, event string, payload interface{}) {
	h.BroadcastToChannel(UserChannel(userID), event, payload)
}

func (h *WebSocketHub) deliver(msg WSMessage) {
	h.clientsMu.RLock()
	clients := make([]*WSClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if !c.SubscribedTo(msg.Channel) {
			continue
		}
		if !c.trySend(msg) {
			// Slow consumer, cut it loose.
			h.logger.WithField("client_id", c.ID).Warn("WebSocket client buffer full, disconnecting")
			go h.Unregister(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// GameChannel is the channel name for one game's live updates.
func GameChannel(gameID string) string {
	return "game:" + gameID
}

// UserChannel is the channel name for one user's private updates.
func UserChannel(userID string) string {
	return "user:" + userID
}

// WritePump drains the client's send queue onto the wire. Run in its own
// goroutine per connection.
func (c *WSClient) WritePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCommand is what clients send to manage subscriptions.
type ClientCommand struct {
	Action  string `json:"action"` // "subscribe" or "unsubscribe"
	Channel string `json:"channel"`
}

// ReadPump consumes subscription commands until the connection drops, then
// unregisters the client.
func (c *WSClient) ReadPump(hub *WebSocketHub) {
	defer func() {
		hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(wsMaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		var cmd ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			return
		}

		switch cmd.Action {
		case "subscribe":
			if cmd.Channel != "" {
				c.Subscribe(cmd.Channel)
			}
		case "unsubscribe":
			c.Unsubscribe(cmd.Channel)
		}
	}
}
