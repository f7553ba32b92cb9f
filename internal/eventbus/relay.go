package eventbus

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/KirkDiggler/roomserver/internal/events"
	"github.com/KirkDiggler/roomserver/internal/logging"
)

// dedupeWindow is how many remote sequences a subscription remembers
const dedupeWindow = 1024

// RelayConfig holds configuration for a Relay
type RelayConfig struct {
	Bus      Bus
	OriginID string
	Logger   *zap.Logger
}

// Relay publishes this instance's events and forwards other instances'
// events to a local handler.
type Relay struct {
	bus      Bus
	originID string
	logger   *zap.Logger
}

// NewRelay creates a relay tagging messages with cfg.OriginID
func NewRelay(cfg *RelayConfig) *Relay {
	if cfg == nil || cfg.Bus == nil {
		panic("bus is required")
	}
	if cfg.OriginID == "" {
		panic("origin ID is required")
	}

	return &Relay{
		bus:      cfg.Bus,
		originID: cfg.OriginID,
		logger:   logging.OrNop(cfg.Logger).Named("relay").With(zap.String("origin_id", cfg.OriginID)),
	}
}

// OriginID returns the id this relay tags its messages with
func (r *Relay) OriginID() string {
	return r.originID
}

// Publish sends a committed local event to the other instances
func (r *Relay) Publish(ctx context.Context, event *events.RoomEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("refusing to publish invalid event: %w", err)
	}
	msg := Message{OriginID: r.originID, Event: *event}
	msg.Event.ConnID = ""
	return r.bus.Publish(ctx, event.RoomID, msg)
}

// Subscribe forwards events for roomID that other instances produced.
// Own echoes, invalid events and redelivered mutations are dropped.
func (r *Relay) Subscribe(ctx context.Context, roomID string, apply func(*events.RoomEvent)) (Subscription, error) {
	logger := r.logger.With(zap.String("room_id", roomID))
	seen := newSeqWindow(dedupeWindow)

	return r.bus.Subscribe(ctx, roomID, func(msg Message) {
		if msg.OriginID == r.originID {
			return
		}
		if msg.Event.RoomID != roomID {
			logger.Warn("dropping event for another room", zap.String("event_room_id", msg.Event.RoomID))
			return
		}
		if err := msg.Event.Validate(); err != nil {
			logger.Warn("dropping invalid remote event", zap.String("remote_origin", msg.OriginID), zap.Error(err))
			return
		}
		// A mutating event's seq comes from the shared room counter, so it
		// identifies the event across all instances.
		if msg.Event.Mutates() && !seen.add(msg.Event.Seq) {
			logger.Debug("dropping redelivered event", zap.Int64("seq", msg.Event.Seq))
			return
		}
		event := msg.Event
		apply(&event)
	})
}

// seqWindow remembers the last n sequences it was given
type seqWindow struct {
	set  map[int64]struct{}
	ring []int64
	next int
}

func newSeqWindow(n int) *seqWindow {
	return &seqWindow{
		set:  make(map[int64]struct{}, n),
		ring: make([]int64, 0, n),
	}
}

// add records seq and reports whether it was new
func (w *seqWindow) add(seq int64) bool {
	if _, ok := w.set[seq]; ok {
		return false
	}
	if len(w.ring) < cap(w.ring) {
		w.ring = append(w.ring, seq)
	} else {
		delete(w.set, w.ring[w.next])
		w.ring[w.next] = seq
		w.next = (w.next + 1) % len(w.ring)
	}
	w.set[seq] = struct{}{}
	return true
}
