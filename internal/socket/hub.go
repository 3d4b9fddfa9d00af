// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"workforce-ops-api-server/internal/metrics"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Message là khung JSON gửi tới client.
type Message struct {
	Event string `json:"event"`
	Alert any    `json:"alert,omitempty"`
}

// Hub quản lý tất cả các client WebSocket, key là user id. Một user có thể mở nhiều tab.
type Hub struct {
	clients map[string]map[Conn]*sync.Mutex // mutex tuần tự hóa các lần ghi trên cùng kết nối
	mu      sync.RWMutex
	log     *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[Conn]*sync.Mutex),
		log:     log,
	}
}

// Register thêm một kết nối của user vào Hub.
func (h *Hub) Register(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[Conn]*sync.Mutex)
	}
	h.clients[userID][conn] = &sync.Mutex{}
	h.log.Debug("websocket client registered", "userId", userID)
}

// Unregister xóa một kết nối khỏi Hub.
func (h *Hub) Unregister(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[userID]
	if !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, userID)
	}
	h.log.Debug("websocket client unregistered", "userId", userID)
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}

// Send gửi một tin nhắn đến mọi kết nối của một user. User offline không phải là lỗi.
func (h *Hub) Send(userID string, message []byte) error {
	h.mu.RLock()
	targets := make([]target, 0, len(h.clients[userID]))
	for c, mu := range h.clients[userID] {
		targets = append(targets, target{userID, c, mu})
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		h.log.Debug("websocket client not found, message dropped", "userId", userID)
		return nil
	}
	var firstErr error
	for _, t := range targets {
		if err := h.write(t, message); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Broadcast gửi sự kiện tới tất cả client đang kết nối. Kết nối lỗi bị đóng và gỡ khỏi Hub.
func (h *Hub) Broadcast(event string, payload any) {
	data, err := json.Marshal(Message{Event: event, Alert: payload})
	if err != nil {
		h.log.Error("failed to encode websocket message", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]target, 0, len(h.clients))
	for id, conns := range h.clients {
		for c, mu := range conns {
			targets = append(targets, target{id, c, mu})
		}
	}
	h.mu.RUnlock()

	for _, t := range targets {
		_ = h.write(t, data)
	}
	metrics.AlertsBroadcast.Inc()
	h.log.Debug("websocket broadcast", "event", event, "clients", len(targets))
}

type target struct {
	userID string
	conn   Conn
	mu     *sync.Mutex
}

func (h *Hub) write(t target, data []byte) error {
	t.mu.Lock()
	_ = t.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := t.conn.WriteMessage(websocket.TextMessage, data)
	t.mu.Unlock()
	if err != nil {
		h.log.Warn("websocket write failed, dropping client", "userId", t.userID, "error", err)
		h.Unregister(t.userID, t.conn)
		_ = t.conn.Close()
		return err
	}
	return nil
}
