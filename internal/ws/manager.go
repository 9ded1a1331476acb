package ws

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client represents one connected presentation client.
type Client struct {
	conn *websocket.Conn
	send chan []byte // queued outbound frames for this client
}

// ConnectionManager tracks active WebSocket connections and broadcasts state
// snapshots to all of them. The process hosts a single session, so every
// connected client observes the same state.
type ConnectionManager struct {
	logger     *zap.Logger
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewConnectionManager creates and starts a new connection manager.
func NewConnectionManager(logger *zap.Logger) *ConnectionManager {
	m := &ConnectionManager{
		logger:     logger.Named("ConnectionManager"),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
		clients:    make(map[*Client]struct{}),
	}
	go m.run()
	return m
}

func (m *ConnectionManager) run() {
	m.logger.Info("ConnectionManager started")
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client] = struct{}{}
			m.mu.Unlock()
			m.logger.Info("Client registered", zap.Int("clients", m.clientCount()))

		case client := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.send)
			}
			m.mu.Unlock()
			m.logger.Info("Client unregistered", zap.Int("clients", m.clientCount()))

		case message := <-m.broadcast:
			m.mu.RLock()
			for client := range m.clients {
				select {
				case client.send <- message:
				default:
					// Send queue full, the client is stalling; drop the frame.
					m.logger.Warn("Client send queue full, dropping frame")
				}
			}
			m.mu.RUnlock()
		}
	}
}

func (m *ConnectionManager) clientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// RegisterClient registers a new client connection.
func (m *ConnectionManager) RegisterClient(client *Client) {
	m.register <- client
}

// UnregisterClient removes a client connection.
func (m *ConnectionManager) UnregisterClient(client *Client) {
	m.unregister <- client
}

// Broadcast queues a message for every connected client.
func (m *ConnectionManager) Broadcast(message []byte) {
	select {
	case m.broadcast <- message:
	default:
		m.logger.Warn("Broadcast queue full, dropping frame")
	}
}
