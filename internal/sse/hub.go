package sse

import (
	"context"
	"sync"

	"github.com/21haoxingxiu/core/internal/event"
)

// Client is one visitor stream. An empty Kinds set receives every kind.
type Client struct {
	Kinds map[event.Kind]struct{}
	Ch    chan event.Event
}

func NewClient(buffer int, kinds ...event.Kind) *Client {
	c := &Client{Ch: make(chan event.Event, buffer)}
	if len(kinds) > 0 {
		c.Kinds = make(map[event.Kind]struct{}, len(kinds))
		for _, k := range kinds {
			c.Kinds[k] = struct{}{}
		}
	}
	return c
}

func (c *Client) wants(kind event.Kind) bool {
	if len(c.Kinds) == 0 {
		return true
	}
	_, ok := c.Kinds[kind]
	return ok
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan event.Event
	clients    map[*Client]struct{}
	mu         sync.RWMutex
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan event.Event, 64),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
	}
}

// Listen forwards visitor-scoped content events to connected clients.
func (h *Hub) Listen(bus *event.Bus) {
	bus.On(event.KindPostCreated, h.handle, event.ScopeVisitor)
	bus.On(event.KindNoteCreated, h.handle, event.ScopeVisitor)
}

func (h *Hub) handle(_ context.Context, e event.Event) {
	h.Broadcast(e)
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Broadcast queues e for delivery, dropping it when the hub is saturated.
func (h *Hub) Broadcast(e event.Event) bool {
	select {
	case h.broadcast <- e:
		return true
	default:
		return false
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case e := <-h.broadcast:
			h.deliver(e)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) deliver(e event.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if !client.wants(e.Kind) {
			continue
		}
		select {
		case client.Ch <- e:
		default:
			// Drop if the client is too slow.
		}
	}
}
