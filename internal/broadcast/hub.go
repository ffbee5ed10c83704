// Package broadcast is the websocket layer. It upgrades connections,
// decodes client commands into registry calls, and fans registry
// events out to every connection in a session room.
package broadcast

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/errors"
	"github.com/tableforge/tableforge/internal/registry"
)

const (
	// DefaultAuthTimeout bounds how long a fresh connection may idle
	// before its first authenticate command
	DefaultAuthTimeout = 30 * time.Second

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024

	// sendBuffer is each connection's outbound queue. A client that
	// lets it fill is dropped rather than allowed to stall the room.
	sendBuffer = 64
)

// Config holds the dependencies for the websocket hub
type Config struct {
	Logger *slog.Logger

	// AuthTimeout zero means DefaultAuthTimeout
	AuthTimeout time.Duration

	// CheckOrigin overrides the upgrader's origin policy; nil allows
	// every origin
	CheckOrigin func(r *http.Request) bool
}

// Hub tracks session rooms and their connections. It implements
// registry.EventPublisher, so the registry created after it can
// publish through it; SetService closes the loop the other way.
type Hub struct {
	service     registry.Service
	logger      *slog.Logger
	authTimeout time.Duration
	upgrader    websocket.Upgrader

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewHub creates a websocket hub. SetService must be called before the
// first connection is served.
func NewHub(cfg *Config) *Hub {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authTimeout := cfg.AuthTimeout
	if authTimeout <= 0 {
		authTimeout = DefaultAuthTimeout
	}

	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	return &Hub{
		logger:      logger,
		authTimeout: authTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// SetService wires in the registry. The hub and the registry reference
// each other, so one of the two has to be attached after construction.
func (h *Hub) SetService(svc registry.Service) {
	h.service = svc
}

var _ registry.EventPublisher = (*Hub)(nil)

// Publish fans an event out to every connection in the session room.
// It never blocks: a connection whose queue is full is dropped.
func (h *Hub) Publish(sessionID, event string, payload interface{}) {
	frame, err := json.Marshal(&ServerMessage{Type: event, Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	room := h.rooms[sessionID]
	clients := make([]*Client, 0, len(room))
	for c := range room {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.enqueue(frame) {
			h.logger.Warn("dropping slow client",
				"session_id", sessionID,
				"participant_id", c.participantID)
			h.leave(sessionID, c)
			c.close()
		}
	}
}

// ServeWS upgrades an HTTP request and runs the connection until it
// drops
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	go client.writePump()
	client.readPump(r.Context())
}

// join registers a connection with a session room
func (h *Hub) join(sessionID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[sessionID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[sessionID] = room
	}
	room[c] = struct{}{}
}

// leave removes a connection from its room, reaping the room when it
// empties
func (h *Hub) leave(sessionID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[sessionID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, sessionID)
	}
}

// RoomSize reports how many connections a session room holds
func (h *Hub) RoomSize(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID])
}

// errorFrame builds the point-to-point error event for a failed
// command
func errorFrame(err error) *ServerMessage {
	return &ServerMessage{
		Type:    entities.EventError,
		Payload: errors.EventPayload(err),
	}
}
