package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"darwinian-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisChannel carries step events between API instances.
const RedisChannel = "turn_events"

type clusterMessage struct {
	Origin          string          `json:"origin"`
	TargetSessionID string          `json:"target_session_id"`
	Message         json.RawMessage `json:"message"`
}

type Hub struct {
	// Registered clients map: SessionID -> List of Clients (several tabs may watch one session)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// done is closed when Run returns so late unregisters do not block
	done chan struct{}

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// instanceID lets the hub ignore its own redis publications
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run processes registrations until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Session has no more watchers", map[string]interface{}{"session_id": client.SessionID})
	}
}

// drop asks Run to unregister c unless the hub has already stopped.
func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, id)
	}
}

// SendToSession delivers data to every watcher of the session, here and on
// other instances.
func (h *Hub) SendToSession(sessionID uuid.UUID, data []byte) {
	h.deliverLocal(sessionID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{
			Origin:          h.instanceID,
			TargetSessionID: sessionID.String(),
			Message:         data,
		})
		if err := h.rdb.Publish(context.Background(), RedisChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// Watchers reports how many local clients watch the session.
func (h *Hub) Watchers(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *Hub) deliverLocal(sessionID uuid.UUID, data []byte) {
	// Sends are non-blocking; holding the read lock keeps remove from closing
	// a channel mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"session_id": sessionID})
			go h.drop(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	// Every instance subscribes to one channel and keeps what it has watchers for
	pubsub := h.rdb.Subscribe(ctx, RedisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instanceID {
				continue
			}
			sid, err := uuid.Parse(payload.TargetSessionID)
			if err != nil {
				continue
			}
			h.deliverLocal(sid, payload.Message)
		}
	}
}
