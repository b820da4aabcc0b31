package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/gorilla/websocket"
)

// ErrOffline: у перевозчика нет открытого соединения, уведомление не доставлено.
var ErrOffline = errors.New("carrier is not connected")

// DefaultWriteWait ограничивает одну запись в соединение.
const DefaultWriteWait = 5 * time.Second

type client struct {
	conn *websocket.Conn
	// writeMu: gorilla допускает только одного писателя на соединение
	writeMu sync.Mutex
}

// Hub держит websocket-соединения перевозчиков, ключ - carrier id.
// Общий mu защищает только карту; запись идёт под замком клиента.
type Hub struct {
	clients   map[string]*client
	mu        sync.Mutex
	writeWait time.Duration
}

func NewHub() *Hub {
	return NewHubWithWriteWait(DefaultWriteWait)
}

func NewHubWithWriteWait(writeWait time.Duration) *Hub {
	return &Hub{
		clients:   make(map[string]*client),
		writeWait: writeWait,
	}
}

// Register replaces any previous connection of the carrier.
func (h *Hub) Register(carrierID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[carrierID]; ok && old.conn != conn {
		old.conn.Close()
	}
	h.clients[carrierID] = &client{conn: conn}
	slog.Info("websocket client registered", "carrier_id", carrierID)
}

// Unregister removes conn only if it is still the carrier's current connection.
func (h *Hub) Unregister(carrierID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.clients[carrierID]; ok && current.conn == conn {
		delete(h.clients, carrierID)
		slog.Info("websocket client unregistered", "carrier_id", carrierID)
	}
}

func (h *Hub) Online(carrierID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.clients[carrierID]
	return ok
}

// Send pushes n to the carrier and returns ErrOffline when there is no
// connection. A failed write drops the connection.
func (h *Hub) Send(ctx context.Context, n domain.Notification) error {
	message, err := json.Marshal(n)
	if err != nil {
		return err
	}

	h.mu.Lock()
	c, ok := h.clients[n.CarrierID]
	h.mu.Unlock()
	if !ok {
		slog.Debug("websocket client offline", "carrier_id", n.CarrierID)
		return ErrOffline
	}

	deadline := time.Now().Add(h.writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.writeMu.Lock()
	err = c.conn.SetWriteDeadline(deadline)
	if err == nil {
		err = c.conn.WriteMessage(websocket.TextMessage, message)
	}
	c.writeMu.Unlock()

	if err != nil {
		slog.Warn("websocket write failed", "carrier_id", n.CarrierID, "error", err)
		h.Unregister(n.CarrierID, c.conn)
		c.conn.Close()
		return err
	}
	return nil
}
