// Package realtime pushes dashboard events to connected browser clients
// over WebSocket, so open dashboards can refresh panels without polling.
package realtime

import (
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/v3/websocket"
	"github.com/gofiber/fiber/v3"

	"github.com/GoogleChrome/webstatus-dashboard/internal/logging"
)

// Event kinds broadcast to dashboard clients.
const (
	EventStatsRefreshed      = "stats_refreshed"
	EventSubscriptionChanged = "subscription_changed"
)

// Event is one dashboard notification.
type Event struct {
	Kind          string    `json:"kind"`
	PanelID       string    `json:"panel_id,omitempty"`
	FeatureID     string    `json:"feature_id,omitempty"`
	SavedSearchID string    `json:"saved_search_id,omitempty"`
	At            time.Time `json:"at"`
}

type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(int, []byte) error
	Close() error
}

// Client is one connected dashboard.
type Client struct {
	hub  *Hub
	conn wsConn
	send chan []byte
}

// Hub fans events out to all connected clients. Clients that cannot keep up
// are disconnected rather than allowed to back up the broadcast path.
type Hub struct {
	register    chan *Client
	unregister  chan *Client
	broadcast   chan []byte
	clientCount chan chan int
	clients     map[*Client]struct{}
	pingEvery   time.Duration
}

// NewHub creates and starts a hub.
func NewHub() *Hub {
	h := &Hub{
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan []byte, 512),
		clientCount: make(chan chan int),
		clients:     make(map[*Client]struct{}),
		pingEvery:   30 * time.Second,
	}

	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				_ = client.conn.Close()
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		case response := <-h.clientCount:
			response <- len(h.clients)
		}
	}
}

// BroadcastEvent sends an event to every connected client. The event's
// timestamp is stamped here when unset.
func (h *Hub) BroadcastEvent(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		logging.L().Warn("dropping realtime event", "kind", ev.Kind, "error", err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		logging.L().Warn("dropping realtime event", "reason", "slow consumers")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	response := make(chan int)
	h.clientCount <- response
	return <-response
}

// Handler upgrades the request to a WebSocket and attaches it to the hub.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			hub:  h,
			conn: conn,
			send: make(chan []byte, 512),
		}

		h.register <- client

		go client.writePump()
		client.readPump()
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.pingEvery)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
