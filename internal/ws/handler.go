package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the client.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the client.
	pongWait = 60 * time.Second
	// Send pings to the client with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from the client.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict Origin when the presentation layer gets a fixed host.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP requests to WebSocket connections that receive state
// snapshots. Clients never send state; inbound frames are discarded.
type Handler struct {
	manager *ConnectionManager
	logger  *zap.Logger
	// initial returns the frame pushed to a client right after connecting,
	// so a late joiner sees the current state without waiting for a change.
	initial func() []byte
}

// NewHandler creates a new WebSocket handler. initial may be nil.
func NewHandler(manager *ConnectionManager, logger *zap.Logger, initial func() []byte) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger.Named("WebSocketHandler"),
		initial: initial,
	}
}

// ServeWS handles an incoming HTTP request for a WebSocket session.
func (h *Handler) ServeWS(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", zap.Error(err))
		// The upgrader already wrote the HTTP error.
		return nil
	}

	h.logger.Info("WebSocket connection established", zap.String("remote", conn.RemoteAddr().String()))

	client := &Client{
		conn: conn,
		send: make(chan []byte, 16),
	}
	h.manager.RegisterClient(client)

	if h.initial != nil {
		if frame := h.initial(); frame != nil {
			select {
			case client.send <- frame:
			default:
			}
		}
	}

	go client.writePump(h.manager, h.logger)
	go client.readPump(h.manager, h.logger)
	return nil
}

// writePump forwards queued frames to the connection and keeps it alive with
// pings. One writePump per connection owns all writes.
func (c *Client) writePump(manager *ConnectionManager, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Manager closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Debug("Write failed, closing connection", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and unregisters the client when the
// connection drops.
func (c *Client) readPump(manager *ConnectionManager, logger *zap.Logger) {
	defer func() {
		manager.UnregisterClient(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Unexpected close", zap.Error(err))
			}
			return
		}
	}
}
