// Package broadcast fans encoded frames out to the connections of a room
// on this instance.
package broadcast

import (
	"sync"

	"go.uber.org/zap"

	"github.com/KirkDiggler/roomserver/internal/logging"
)

// Sink is a local connection that can receive frames
type Sink interface {
	ID() string
	// Send queues frame without blocking and reports whether it was
	// accepted. A sink that refuses a frame is responsible for closing
	// itself.
	Send(frame []byte) bool
}

// Config holds configuration for a Broadcaster
type Config struct {
	Logger *zap.Logger
}

// Broadcaster tracks the live connections of every room
type Broadcaster struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Sink
	logger *zap.Logger
}

// New creates an empty Broadcaster
func New(cfg *Config) *Broadcaster {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Broadcaster{
		rooms:  make(map[string]map[string]Sink),
		logger: logging.OrNop(cfg.Logger).Named("broadcast"),
	}
}

// Register adds sink to roomID, replacing a sink with the same id
func (b *Broadcaster) Register(roomID string, sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rooms[roomID] == nil {
		b.rooms[roomID] = make(map[string]Sink)
	}
	b.rooms[roomID][sink.ID()] = sink
}

// Unregister removes connID from roomID
func (b *Broadcaster) Unregister(roomID, connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.rooms[roomID], connID)
	if len(b.rooms[roomID]) == 0 {
		delete(b.rooms, roomID)
	}
}

// Broadcast sends frame to every sink in roomID except excludeConnID and
// returns how many sinks accepted it.
func (b *Broadcaster) Broadcast(roomID string, frame []byte, excludeConnID string) int {
	b.mu.RLock()
	sinks := make([]Sink, 0, len(b.rooms[roomID]))
	for id, sink := range b.rooms[roomID] {
		if id == excludeConnID {
			continue
		}
		sinks = append(sinks, sink)
	}
	b.mu.RUnlock()

	delivered := 0
	for _, sink := range sinks {
		if sink.Send(frame) {
			delivered++
			continue
		}
		b.logger.Warn("dropped frame for slow connection",
			zap.String("room_id", roomID),
			zap.String("conn_id", sink.ID()))
	}
	return delivered
}

// Count returns the number of local sinks in roomID
func (b *Broadcaster) Count(roomID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms[roomID])
}
