package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/roomserver/internal/logging"
)

// RedisBusConfig holds configuration for the Redis pub/sub bus
type RedisBusConfig struct {
	Client redis.UniversalClient
	Logger *zap.Logger
}

// RedisBus implements Bus over Redis pub/sub
type RedisBus struct {
	client redis.UniversalClient
	logger *zap.Logger

	mu     sync.Mutex
	subs   map[*redisSubscription]struct{}
	closed bool
}

// NewRedisBus creates a Redis-backed bus
func NewRedisBus(cfg *RedisBusConfig) *RedisBus {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	return &RedisBus{
		client: cfg.Client,
		logger: logging.OrNop(cfg.Logger).Named("bus"),
		subs:   make(map[*redisSubscription]struct{}),
	}
}

// Publish implements Bus
func (b *RedisBus) Publish(ctx context.Context, roomID string, msg Message) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode bus message: %w", err)
	}
	if err := b.client.Publish(ctx, Channel(roomID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", Channel(roomID), err)
	}
	return nil
}

// Subscribe implements Bus. It returns once Redis has confirmed the
// subscription, so nothing published afterwards is missed.
func (b *RedisBus) Subscribe(ctx context.Context, roomID string, handler Handler) (Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	b.mu.Unlock()

	pubsub := b.client.Subscribe(ctx, Channel(roomID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", Channel(roomID), err)
	}

	sub := &redisSubscription{
		bus:    b,
		pubsub: pubsub,
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go sub.run(b.logger.With(zap.String("room_id", roomID)), handler)
	return sub, nil
}

// Close ends every subscription
func (b *RedisBus) Close() error {
	b.mu.Lock()
	b.closed = true
	subs := make([]*redisSubscription, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	return nil
}

type redisSubscription struct {
	bus    *RedisBus
	pubsub *redis.PubSub
	once   sync.Once
	done   chan struct{}
}

func (s *redisSubscription) run(logger *zap.Logger, handler Handler) {
	defer close(s.done)

	for raw := range s.pubsub.Channel() {
		var msg Message
		if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
			logger.Warn("dropping undecodable bus message", zap.Error(err))
			continue
		}
		handler(msg)
	}
}

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		s.bus.mu.Unlock()

		err = s.pubsub.Close()
		<-s.done
	})
	return err
}
