package websocket

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Watchers only send control frames
	maxInboundSize = 512
	// Coder drafts and audit reports travel in one frame
	sendBuffer = 64
)

// Client is one browser tab watching a chat session.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	SessionID uuid.UUID

	// Send is closed by the hub when the client is dropped
	Send chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn, sessionID uuid.UUID) *Client {
	return &Client{Hub: hub, Conn: conn, SessionID: sessionID, Send: make(chan []byte, sendBuffer)}
}

// readPump drains control frames so pongs are processed. Any inbound data
// frame is ignored: turns are started over HTTP, never over the stream.
func (c *Client) readPump() {
	defer func() {
		c.Hub.drop(c)
		_ = c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxInboundSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			return
		}
	}
}

// writePump sends each event as its own text frame so watchers can decode
// frames as JSON directly, and pings on idle.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session stream closed"))
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
