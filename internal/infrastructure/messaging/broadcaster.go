package messaging

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/logging"
)

// MonitorHub manages websocket connections from live monitor dashboards and
// fans processed events out to them. Each client gets a buffered outbound
// channel drained by its own writer goroutine; a client that falls behind is
// disconnected rather than allowed to apply backpressure.
type MonitorHub struct {
	mu         sync.Mutex
	clients    map[*websocket.Conn]chan []byte
	bufferSize int
	maxClients int
	logger     *logging.ChanneledLogger
}

// NewMonitorHub creates a monitor hub.
func NewMonitorHub(bufferSize, maxClients int, logger *logging.ChanneledLogger) *MonitorHub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	if maxClients <= 0 {
		maxClients = 100
	}
	return &MonitorHub{
		clients:    make(map[*websocket.Conn]chan []byte),
		bufferSize: bufferSize,
		maxClients: maxClients,
		logger:     logger,
	}
}

// AddClient registers a websocket connection and starts its writer goroutine.
// Returns false when the hub is at capacity; the caller should close the
// connection.
func (h *MonitorHub) AddClient(conn *websocket.Conn) bool {
	h.mu.Lock()
	if len(h.clients) >= h.maxClients {
		h.mu.Unlock()
		h.logger.Monitor().Warn("Monitor hub at capacity, rejecting client", "maxClients", h.maxClients)
		return false
	}
	ch := make(chan []byte, h.bufferSize)
	h.clients[conn] = ch
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Monitor().Debug("Monitor client connected", "clients", count)

	go func() {
		for msg := range ch {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Monitor().Debug("Monitor client write failed, removing", "error", err.Error())
				h.RemoveClient(conn)
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}()

	return true
}

// RemoveClient unregisters a connection and closes its outbound channel.
// Safe to call more than once for the same connection.
func (h *MonitorHub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	ch, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	close(ch)
	conn.Close()
	h.logger.Monitor().Debug("Monitor client disconnected", "clients", count)
}

// BroadcastEvent pushes an event to every connected client. Clients whose
// buffers are full are dropped from the hub.
func (h *MonitorHub) BroadcastEvent(evt MonitorEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		h.logger.Monitor().Error("Failed to encode monitor event", "error", err.Error())
		return
	}

	h.mu.Lock()
	var stale []*websocket.Conn
	for conn, ch := range h.clients {
		select {
		case ch <- payload:
		default:
			stale = append(stale, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range stale {
		h.logger.Monitor().Warn("Monitor client too slow, dropping")
		h.RemoveClient(conn)
	}
}

// ClientCount returns the number of connected monitor clients.
func (h *MonitorHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Shutdown disconnects every client.
func (h *MonitorHub) Shutdown() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		h.RemoveClient(conn)
	}
}

var _ Broadcaster = (*MonitorHub)(nil)
