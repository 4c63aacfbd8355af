package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"cerfidoc-gamification/internal/repository"

	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Heartbeat interval for version updates. Clients only refetch the
	// leaderboard when the version changes, so broadcast load is bounded
	// regardless of verification volume.
	versionHeartbeatInterval = 2 * time.Second
)

// Client represents a WebSocket client connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of active clients and broadcasts leaderboard
// version changes to them. The version counter lives in Redis and is
// bumped by the mirror worker whenever a recompute lands.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	redisRepo *repository.RedisRepository

	log zerolog.Logger

	// Mutex for thread-safe operations
	mu sync.RWMutex

	// Last known version for change detection
	lastVersion int64
}

// VersionUpdate represents the version heartbeat message
type VersionUpdate struct {
	Type    string `json:"type"`
	Version int64  `json:"version"`
}

// NewHub creates a new WebSocket hub
func NewHub(redisRepo *repository.RedisRepository, log zerolog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		redisRepo:  redisRepo,
		log:        log.With().Str("component", "ws-hub").Logger(),
	}
}

// Run starts the WebSocket hub
func (h *Hub) Run(ctx context.Context) {
	h.log.Info().Msg("websocket hub started")

	versionTicker := time.NewTicker(versionHeartbeatInterval)
	defer versionTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug().Int("clients", total).Msg("client connected")

			h.sendInitialVersion(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug().Int("clients", total).Msg("client disconnected")

		case <-versionTicker.C:
			h.checkAndBroadcastVersion(ctx)

		case <-ctx.Done():
			h.log.Info().Msg("websocket hub shutting down")
			return
		}
	}
}

// checkAndBroadcastVersion broadcasts a heartbeat when the leaderboard
// version moved since the last tick.
func (h *Hub) checkAndBroadcastVersion(ctx context.Context) {
	currentVersion, err := h.redisRepo.GetLeaderboardVersion(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to get leaderboard version")
		return
	}

	if currentVersion == h.lastVersion {
		return
	}
	h.lastVersion = currentVersion

	update := VersionUpdate{
		Type:    "VERSION_UPDATE",
		Version: currentVersion,
	}

	message, err := json.Marshal(update)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to marshal version update")
		return
	}

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Client's send buffer is full, skip this client
		}
	}
	h.mu.RUnlock()
}

// sendInitialVersion sends the current version to a newly connected client
func (h *Hub) sendInitialVersion(client *Client) {
	ctx := context.Background()

	currentVersion, err := h.redisRepo.GetLeaderboardVersion(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to get initial version")
		return
	}

	if h.lastVersion == 0 {
		h.lastVersion = currentVersion
	}

	update := VersionUpdate{
		Type:    "VERSION_UPDATE",
		Version: currentVersion,
	}

	message, err := json.Marshal(update)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to marshal initial version")
		return
	}

	h.mu.RLock()
	_, exists := h.clients[client]
	h.mu.RUnlock()
	if !exists {
		return
	}

	select {
	case client.send <- message:
	case <-time.After(2 * time.Second):
		h.log.Warn().Msg("timeout sending initial version, client may be slow")
	}
}

// GetClientCount returns the current number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	// Browser WebSockets handle ping/pong at the protocol level, so no
	// read deadline here
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
		// Clients are not expected to send messages; ignore anything
		// that arrives
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))

		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		// Add queued messages to the current websocket message
		n := len(c.send)
		for i := 0; i < n; i++ {
			w.Write([]byte{'\n'})
			w.Write(<-c.send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}

	// The hub closed the channel
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ServeWS handles WebSocket requests from clients
func ServeWS(hub *Hub, conn *websocket.Conn) {
	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	// Write pump in its own goroutine; read pump blocks until disconnect
	go client.writePump()
	client.readPump()
}
