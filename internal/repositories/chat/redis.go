package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/repositories"
)

const (
	roomChatKey = "room:%s:chat"

	// defaultRetention bounds the stored history of a room
	defaultRetention = 500
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client    redis.UniversalClient
	Retention int64 // Messages kept per room, 0 uses the default
}

type redisRepository struct {
	client    redis.UniversalClient
	retention int64
}

// NewRedisRepository creates a new Redis-backed chat repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	retention := cfg.Retention
	if retention <= 0 {
		retention = defaultRetention
	}

	return &redisRepository{
		client:    cfg.Client,
		retention: retention,
	}
}

// NewRedis creates a new Redis-backed chat repository with default configuration
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func (r *redisRepository) Create(ctx context.Context, msg *entities.ChatMessage) (int64, error) {
	if msg == nil {
		return 0, fmt.Errorf("message cannot be nil")
	}
	if msg.RoomID == "" {
		return 0, fmt.Errorf("room ID cannot be empty")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize message: %w", err)
	}

	key := fmt.Sprintf(roomChatKey, msg.RoomID)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, string(data))
	pipe.LTrim(ctx, key, -r.retention, -1)
	seq := pipe.Incr(ctx, repositories.RoomSeqKey(msg.RoomID))

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to create message: %w", err)
	}
	return seq.Val(), nil
}

func (r *redisRepository) ListRecent(ctx context.Context, roomID string, limit int) ([]entities.ChatMessage, error) {
	if limit <= 0 {
		return []entities.ChatMessage{}, nil
	}

	values, err := r.client.LRange(ctx, fmt.Sprintf(roomChatKey, roomID), int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]entities.ChatMessage, 0, len(values))
	for _, raw := range values {
		var msg entities.ChatMessage
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return nil, fmt.Errorf("failed to deserialize message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
