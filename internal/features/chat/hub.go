package chat

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// wsWriter is the write surface of a websocket connection.
type wsWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// client pairs a connection with its write lock. Websocket connections
// support only one concurrent writer, but broadcasts may run in
// parallel, so every write goes through the per-connection mutex.
type client struct {
	mu   sync.Mutex
	conn wsWriter
}

func (c *client) write(messageType int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, payload)
}

// Hub tracks open websocket connections per user and broadcasts new
// messages to connected conversation participants. Delivery is
// best-effort: offline users catch up through the message history.
type Hub struct {
	mu     sync.RWMutex
	conns  map[int64][]*client
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  map[int64][]*client{},
		logger: logger,
	}
}

func (h *Hub) Register(userID int64, conn wsWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], &client{conn: conn})
}

func (h *Hub) Unregister(userID int64, conn wsWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()

	remaining := h.conns[userID][:0]
	for _, c := range h.conns[userID] {
		if c.conn != conn {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		delete(h.conns, userID)
	} else {
		h.conns[userID] = remaining
	}
}

// Broadcast pushes the message to every connection of the given users.
// Write failures are logged and skipped; the connection's own read loop
// handles teardown.
func (h *Hub) Broadcast(userIDs []int64, msg *Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal chat message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range userIDs {
		for _, c := range h.conns[userID] {
			if err := c.write(websocket.TextMessage, payload); err != nil {
				h.logger.Warn("chat broadcast write failed",
					zap.Int64("userId", userID), zap.Error(err))
			}
		}
	}
}
