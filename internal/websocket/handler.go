package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection as a watcher of sessionID and blocks
// until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID uuid.UUID) {
	client := newClient(hub, c, sessionID)
	select {
	case hub.register <- client:
	case <-hub.done:
		_ = c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
