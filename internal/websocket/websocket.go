package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/eurovote/internal/logger"
	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/services"
)

// Message types pushed to clients
const (
	TypeSettings           = "settings"
	TypeLeaderboardChanged = "leaderboard_changed"
)

// DefaultFlushInterval is how often pending leaderboard changes are pushed
const DefaultFlushInterval = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FlagsProvider resolves the current feature flags
type FlagsProvider interface {
	Flags(ctx context.Context) (models.FeatureFlags, error)
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	log        logger.Logger
	clients    map[*Client]bool
	broadcast  chan models.WSMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	flags      FlagsProvider
	done       chan struct{}

	pendingMu sync.Mutex
	pending   map[string]bool
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan models.WSMessage
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, flags FlagsProvider) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.WSMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		flags:      flags,
		done:       make(chan struct{}),
		pending:    make(map[string]bool),
	}
}

// Start begins the hub's main loop in a goroutine. The loop exits when ctx is done.
func (h *Hub) Start(ctx context.Context) {
	go h.run(ctx)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// run handles client registration/unregistration and message broadcasting
func (h *Hub) run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "total_clients", total)

			// New clients start from the current flags
			go func() {
				flags, err := h.flags.Flags(ctx)
				if err != nil {
					h.log.Warn("Failed to load flags for new client", "error", err)
					return
				}
				h.mutex.RLock()
				defer h.mutex.RUnlock()
				if h.clients[client] {
					select {
					case client.send <- models.WSMessage{Type: TypeSettings, Payload: flags}:
					default:
					}
				}
			}()

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "total_clients", total)

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send channel is full, unregister
					go h.leave(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// leave unregisters a client unless the hub has already stopped
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// BroadcastMessage queues a message for all connected clients. Messages are
// dropped when the queue is full.
func (h *Hub) BroadcastMessage(msgType string, payload interface{}) {
	select {
	case h.broadcast <- models.WSMessage{Type: msgType, Payload: payload}:
	default:
		h.log.Warn("Broadcast queue full, dropping message", "type", msgType)
	}
}

// BroadcastSettings implements services.Broadcaster
func (h *Hub) BroadcastSettings(flags models.FeatureFlags) {
	h.BroadcastMessage(TypeSettings, flags)
}

// BroadcastLeaderboardChanged implements services.Broadcaster. Changes are
// coalesced and pushed by StartLeaderboardNotifier.
func (h *Hub) BroadcastLeaderboardChanged(reason string) {
	h.pendingMu.Lock()
	h.pending[reason] = true
	h.pendingMu.Unlock()
}

// StartLeaderboardNotifier flushes pending leaderboard changes every interval
// until ctx is done
func (h *Hub) StartLeaderboardNotifier(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("Leaderboard notifier stopped")
			return
		case <-ticker.C:
			h.flushLeaderboard()
		}
	}
}

// flushLeaderboard sends one leaderboard_changed message listing every
// reason recorded since the last flush
func (h *Hub) flushLeaderboard() {
	h.pendingMu.Lock()
	if len(h.pending) == 0 {
		h.pendingMu.Unlock()
		return
	}
	reasons := make([]string, 0, len(h.pending))
	for r := range h.pending {
		reasons = append(reasons, r)
	}
	clear(h.pending)
	h.pendingMu.Unlock()

	slices.Sort(reasons)
	h.BroadcastMessage(TypeLeaderboardChanged, map[string]interface{}{
		"reasons": reasons,
	})
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "type", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs handles websocket requests from clients
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan models.WSMessage, 256),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// Ensure Hub implements services.Broadcaster
var _ services.Broadcaster = (*Hub)(nil)
