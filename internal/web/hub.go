package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sixcities/internal/metrics"
	"sixcities/internal/store"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// connection is one websocket client. kinds empty means every event.
type connection struct {
	id    uint64
	conn  *websocket.Conn
	send  chan []byte
	kinds map[store.EventKind]bool
}

// Hub pushes store events to websocket clients.
type Hub struct {
	mu          sync.RWMutex
	nextID      uint64
	connections map[uint64]*connection

	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewHub(m *metrics.Metrics, log *slog.Logger) *Hub {
	return &Hub{
		connections: make(map[uint64]*connection),
		metrics:     m,
		log:         log.With("component", "ws_hub"),
	}
}

// Attach subscribes the hub to every event published on bus.
func (h *Hub) Attach(bus *store.Bus) {
	bus.OnAny(h.Broadcast)
}

func (h *Hub) Broadcast(e store.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.log.Error("encode event failed", "kind", e.Kind, "error", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.connections {
		if len(c.kinds) > 0 && !c.kinds[e.Kind] {
			continue
		}
		select {
		case c.send <- data:
		default:
			// slow client, drop
		}
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// ServeWS upgrades the request and blocks until the client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &connection{
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		kinds: make(map[store.EventKind]bool),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.connections {
		close(c.send)
		delete(h.connections, id)
		h.metrics.WSClientDisconnected()
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	h.nextID++
	c.id = h.nextID
	h.connections[c.id] = c
	h.mu.Unlock()
	h.metrics.WSClientConnected()
	h.log.Debug("client connected", "conn_id", c.id)
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.connections[c.id]; ok && existing == c {
		delete(h.connections, c.id)
		close(c.send)
		h.metrics.WSClientDisconnected()
		h.log.Debug("client disconnected", "conn_id", c.id)
	}
}

// readPump handles subscribe/unsubscribe requests:
// {"type":"subscribe","kind":"favorite.toggled"}
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read failed", "conn_id", c.id, "error", err)
			}
			return
		}

		var req struct {
			Type string          `json:"type"`
			Kind store.EventKind `json:"kind"`
		}
		if err := json.Unmarshal(msg, &req); err != nil {
			continue
		}

		switch req.Type {
		case "subscribe":
			h.mu.Lock()
			c.kinds[req.Kind] = true
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			delete(c.kinds, req.Kind)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
