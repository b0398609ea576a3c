// Package realtime pushes settings change events to open admin consoles over websockets.
package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/GeoGateGo/pkg/logger"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/goccy/go-json"
)

// Event is what a console receives after a change
type Event struct {
	Type       string            `json:"type"`
	Collection models.Collection `json:"collection"`
	At         time.Time         `json:"at"`
}

// Hub keeps the set of connected consoles and broadcasts events to all of them
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	metrics    *metrics.Metrics

	mu      sync.RWMutex
	running bool
	done    chan struct{}
}

// NewHub creates a hub; call Run before serving connections
func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
		metrics:    m,
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx ends
func (h *Hub) Run(ctx context.Context) {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.metrics.WebsocketConnected(1)

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				logger.Warn("Consola sin leer mensajes, cerrando conexión", "Realtime")
				h.remove(client)
			}

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
				h.metrics.WebsocketConnected(-1)
			}
			h.running = false
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.metrics.WebsocketConnected(-1)
	}
}

// ClientCount returns the number of connected consoles
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues an event for every console
func (h *Hub) Broadcast(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return fmt.Errorf("realtime hub stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SettingsChanged forwards a store change to every console
func (h *Hub) SettingsChanged(ctx context.Context, change models.SettingsChange) error {
	return h.Broadcast(ctx, Event{
		Type:       "settings_changed",
		Collection: change.Collection,
		At:         change.At,
	})
}
