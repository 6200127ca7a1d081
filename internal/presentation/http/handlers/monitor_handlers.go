package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/messaging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/logging"
)

// MonitorHandlers handles the live monitor websocket endpoint
type MonitorHandlers struct {
	hub      *messaging.MonitorHub
	logger   *logging.ChanneledLogger
	upgrader websocket.Upgrader
}

// NewMonitorHandlers creates live monitor handlers
func NewMonitorHandlers(hub *messaging.MonitorHub, logger *logging.ChanneledLogger) *MonitorHandlers {
	return &MonitorHandlers{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin enforcement happens in the CORS layer; the upgrade
			// itself is gated by the auth middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetMonitorStream handles GET /api/v1/monitor/stream (websocket upgrade)
func (h *MonitorHandlers) GetMonitorStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Monitor().Warn("Websocket upgrade failed", "error", err.Error())
		return
	}

	if !h.hub.AddClient(conn) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "monitor at capacity"))
		conn.Close()
		return
	}

	// Reader loop exists only to notice client disconnects; the monitor
	// feed is one-directional.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.hub.RemoveClient(conn)
				return
			}
		}
	}()
}

// GetMonitorStatus handles GET /api/v1/monitor/status
func (h *MonitorHandlers) GetMonitorStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"clients": h.hub.ClientCount()})
}
