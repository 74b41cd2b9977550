package handler

import (
	"darwinian-be/internal/pkg/logger"
	"darwinian-be/internal/pkg/serverutils"
	"darwinian-be/internal/service"
	internalWS "darwinian-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StreamHandler upgrades a request to a websocket that receives every event
// of one chat session.
type StreamHandler struct {
	chat      service.IChatService
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewStreamHandler(chat service.IChatService, hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *StreamHandler {
	return &StreamHandler{
		chat:      chat,
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (h *StreamHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/stream/v1/:id", h.ServeWs)
}

// ServeWs handles websocket requests from the peer.
func (h *StreamHandler) ServeWs(c *fiber.Ctx) error {
	if !h.authorized(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	if _, err := h.chat.GetSession(c.UserContext(), sessionID); err != nil {
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("StreamHandler", "Watcher connected", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn, sessionID)
		h.logger.Info("StreamHandler", "Watcher disconnected", map[string]interface{}{"session_id": sessionID})
	})(c)
}

// authorized accepts the token from the query (browsers cannot set headers
// on a websocket handshake) or the Authorization header.
func (h *StreamHandler) authorized(c *fiber.Ctx) bool {
	if h.jwtSecret == "" {
		return true
	}

	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return false
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("StreamHandler", "Invalid token in handshake", map[string]interface{}{"error": err})
		return false
	}
	return true
}
