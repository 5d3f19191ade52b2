package viewer

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/gameshell/internal/input"
)

// Hub manages websocket clients and broadcasts messages.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *log.Logger
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Register adds a new client to the hub. It reports false once the hub
// has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastToSlot sends a message to every client watching slot.
// Clients whose send buffer is full are disconnected.
func (h *Hub) BroadcastToSlot(msg []byte, slot int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.Slot() != slot {
			continue
		}
		select {
		case client.send <- msg:
		default:
			go h.Unregister(client)
		}
	}
}

// SendTo queues a message for one client. It reports false when the
// client is no longer registered or its buffer is full. The send channel is
// only closed under the write lock, so holding the read lock keeps it open.
func (h *Hub) SendTo(c *Client, msg []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.clients[c] {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Run starts the hub's main loop until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Viewer client connected", "total", n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Viewer client disconnected", "total", n)
		}
	}
}

// Client is a connected websocket client watching one controller slot.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu   sync.Mutex
	slot int
}

// NewClient creates a client attached to the hub, watching slot 0.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Slot returns the controller slot the client watches.
func (c *Client) Slot() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slot
}

// SetSlot changes the watched controller slot.
func (c *Client) SetSlot(slot int) {
	c.mu.Lock()
	c.slot = slot
	c.mu.Unlock()
}

// WritePump sends queued messages to the websocket connection.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// ReadPump handles client commands until the connection closes.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.hub.logger.Debug("Cannot parse viewer message", "err", err)
			continue
		}

		switch msg.Type {
		case "select_slot":
			if msg.Slot < 0 || msg.Slot >= input.MaxControllers {
				c.hub.logger.Debug("Invalid viewer slot", "slot", msg.Slot)
				continue
			}
			c.SetSlot(msg.Slot)
			data, _ := json.Marshal(NewSlotSelectedMessage(msg.Slot))
			c.hub.SendTo(c, data)
		}
	}
}
