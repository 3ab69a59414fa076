// Package web mirrors a running panel to WebSocket spectators. Every
// presented frame is broadcast as JSON; clients may send key and mouse
// events back when remote input is enabled.
package web

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Hub maintains the set of active clients and broadcasts frames to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns
	mu         sync.Mutex
	last       []byte // latest frame, sent to new clients
	logger     *log.Logger
	input      func(RemoteInput)
}

// NewHub creates a hub. input receives remote events; nil disables them.
func NewHub(logger *log.Logger, input func(RemoteInput)) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		broadcast:  make(chan []byte, 8),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     logger,
		input:      input,
	}
}

// Run handles client connections and broadcasts until ctx is done. It must
// be called once; clients that register or leave afterwards do not block.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("spectator hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.last != nil {
				client.send <- h.last
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("spectator connected", "spectators", n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("spectator disconnected", "spectators", len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			h.last = message
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Too slow to keep up.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// join hands c to Run. It reports false once the hub has shut down.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave hands c back to Run, or does nothing after shutdown, when Run has
// already closed every send channel.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues a message for every client. It never blocks: when the
// queue is full the message is dropped, and the next frame replaces it.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Debug("spectator queue full, dropping frame")
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) deliver(in RemoteInput) {
	if h.input == nil {
		return
	}
	h.input(in)
}
