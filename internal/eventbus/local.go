package eventbus

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/KirkDiggler/roomserver/internal/logging"
)

const defaultLocalBuffer = 256

// LocalBusConfig holds configuration for the in-process bus
type LocalBusConfig struct {
	Buffer int // Queued messages per subscription, 0 uses the default
	Logger *zap.Logger
}

// LocalBus implements Bus inside one process. Several instances sharing a
// LocalBus behave like instances sharing a Redis server, which is how
// single-process deployments and tests run.
type LocalBus struct {
	mu        sync.RWMutex
	listeners map[string][]*localSubscription
	nextID    int
	buffer    int
	closed    bool
	logger    *zap.Logger
}

// NewLocalBus creates an in-process bus
func NewLocalBus(cfg *LocalBusConfig) *LocalBus {
	if cfg == nil {
		cfg = &LocalBusConfig{}
	}
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = defaultLocalBuffer
	}
	return &LocalBus{
		listeners: make(map[string][]*localSubscription),
		buffer:    buffer,
		logger:    logging.OrNop(cfg.Logger).Named("bus"),
	}
}

// Publish queues msg for every subscription of roomID, waiting for space
// until ctx is done.
func (b *LocalBus) Publish(ctx context.Context, roomID string, msg Message) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrClosed
	}
	listeners := make([]*localSubscription, len(b.listeners[roomID]))
	copy(listeners, b.listeners[roomID])
	b.mu.RUnlock()

	for _, l := range listeners {
		select {
		case l.queue <- msg:
		case <-l.quit:
		case <-ctx.Done():
			return fmt.Errorf("failed to publish to %s: %w", Channel(roomID), ctx.Err())
		}
	}
	return nil
}

// Subscribe implements Bus
func (b *LocalBus) Subscribe(ctx context.Context, roomID string, handler Handler) (Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}

	b.nextID++
	sub := &localSubscription{
		id:     b.nextID,
		roomID: roomID,
		bus:    b,
		queue:  make(chan Message, b.buffer),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	b.listeners[roomID] = append(b.listeners[roomID], sub)
	go sub.run(handler)

	b.logger.Debug("subscribed", zap.String("room_id", roomID), zap.Int("listener", sub.id))
	return sub, nil
}

// Close ends every subscription
func (b *LocalBus) Close() error {
	b.mu.Lock()
	b.closed = true
	var all []*localSubscription
	for _, subs := range b.listeners {
		all = append(all, subs...)
	}
	b.mu.Unlock()

	for _, sub := range all {
		_ = sub.Close()
	}
	return nil
}

func (b *LocalBus) unsubscribe(roomID string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	listeners := b.listeners[roomID]
	for i, l := range listeners {
		if l.id != id {
			continue
		}
		b.listeners[roomID] = append(listeners[:i:i], listeners[i+1:]...)
		if len(b.listeners[roomID]) == 0 {
			delete(b.listeners, roomID)
		}
		b.logger.Debug("unsubscribed", zap.String("room_id", roomID), zap.Int("listener", id))
		return
	}
}

type localSubscription struct {
	id     int
	roomID string
	bus    *LocalBus
	queue  chan Message
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once
}

func (s *localSubscription) run(handler Handler) {
	defer close(s.done)
	for {
		select {
		case msg := <-s.queue:
			handler(msg)
		case <-s.quit:
			return
		}
	}
}

func (s *localSubscription) Close() error {
	s.once.Do(func() {
		s.bus.unsubscribe(s.roomID, s.id)
		close(s.quit)
		<-s.done
	})
	return nil
}
