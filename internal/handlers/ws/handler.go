// Package ws is the connection manager: it upgrades HTTP requests to
// WebSockets, authenticates them and routes their frames to the room
// service.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/KirkDiggler/roomserver/internal/auth"
	"github.com/KirkDiggler/roomserver/internal/clock"
	"github.com/KirkDiggler/roomserver/internal/logging"
	"github.com/KirkDiggler/roomserver/internal/services/room"
	"github.com/KirkDiggler/roomserver/internal/uuid"
)

const (
	defaultHeartbeatInterval = 15 * time.Second
	defaultMaxMalformed      = 5
	defaultSendBuffer        = 64

	requestTimeout = 5 * time.Second
	writeWait      = 10 * time.Second
	maxFrameBytes  = 8 << 10
)

// HandlerConfig holds configuration for the WebSocket handler
type HandlerConfig struct {
	RoomService room.Service  // Required
	Verifier    auth.Verifier // Required

	HeartbeatInterval time.Duration // Connections silent for twice this are closed
	HeartbeatTimeout  time.Duration // Overrides twice HeartbeatInterval when set
	MaxMalformed      int           // Consecutive malformed frames before disconnect
	SendBuffer        int           // Outbound frames queued per connection

	UUIDGenerator uuid.Generator
	Clock         clock.TimeProvider
	Logger        *zap.Logger
}

// Handler accepts WebSocket connections
type Handler struct {
	rooms    room.Service
	verifier auth.Verifier

	heartbeatTimeout time.Duration
	maxMalformed     int
	sendBuffer       int

	uuidGenerator uuid.Generator
	clock         clock.TimeProvider
	logger        *zap.Logger
	upgrader      websocket.Upgrader

	mu          sync.Mutex
	connections map[string]*connection
	wg          sync.WaitGroup
}

// NewHandler creates a new WebSocket handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg.RoomService == nil {
		panic("room service is required")
	}
	if cfg.Verifier == nil {
		panic("verifier is required")
	}

	interval := cfg.HeartbeatInterval
	if interval <= 0 {
		interval = defaultHeartbeatInterval
	}
	timeout := cfg.HeartbeatTimeout
	if timeout <= 0 {
		timeout = 2 * interval
	}

	h := &Handler{
		rooms:            cfg.RoomService,
		verifier:         cfg.Verifier,
		heartbeatTimeout: timeout,
		maxMalformed:     cfg.MaxMalformed,
		sendBuffer:       cfg.SendBuffer,
		uuidGenerator:    cfg.UUIDGenerator,
		clock:            cfg.Clock,
		logger:           logging.OrNop(cfg.Logger).Named("ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		connections: make(map[string]*connection),
	}

	if h.maxMalformed <= 0 {
		h.maxMalformed = defaultMaxMalformed
	}
	if h.sendBuffer <= 0 {
		h.sendBuffer = defaultSendBuffer
	}
	if h.uuidGenerator == nil {
		h.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if h.clock == nil {
		h.clock = clock.System{}
	}

	return h
}

// ServeHTTP upgrades the request and serves the connection until it closes
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newConnection(h, h.uuidGenerator.New(), ws)
	if !h.track(c) {
		c.close(websocket.CloseGoingAway, "server shutting down")
		c.writePump()
		return
	}
	defer h.untrack(c)

	c.serve(r.Context())
}

func (h *Handler) track(c *connection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connections == nil {
		return false
	}
	h.connections[c.id] = c
	h.wg.Add(1)
	return true
}

func (h *Handler) untrack(c *connection) {
	h.mu.Lock()
	delete(h.connections, c.id)
	h.mu.Unlock()
	h.wg.Done()
}

// Shutdown closes every open connection and waits until each has left its
// room. New connections are refused from here on.
func (h *Handler) Shutdown() {
	h.mu.Lock()
	conns := make([]*connection, 0, len(h.connections))
	for _, c := range h.connections {
		conns = append(conns, c)
	}
	h.connections = nil
	h.mu.Unlock()

	for _, c := range conns {
		c.close(websocket.CloseGoingAway, "server shutting down")
	}
	h.wg.Wait()
}

// ConnectionCount returns the number of open connections
func (h *Handler) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}
