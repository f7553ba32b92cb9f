package occupants

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/repositories"
)

const (
	// Key patterns
	roomOccupantsKey = "room:%s:occupants"
	userLocationKey  = "user:%s:location"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed occupant repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{client: cfg.Client}
}

// NewRedis creates a new Redis-backed occupant repository with default configuration
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func (r *redisRepository) Upsert(ctx context.Context, roomID string, occ entities.Occupant) (int64, error) {
	if roomID == "" || occ.UserID == "" {
		return 0, fmt.Errorf("room ID and user ID are required")
	}

	occData, err := json.Marshal(occ)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize occupant: %w", err)
	}
	locData, err := json.Marshal(entities.Location{RoomID: roomID, Position: occ.Position})
	if err != nil {
		return 0, fmt.Errorf("failed to serialize location: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, fmt.Sprintf(roomOccupantsKey, roomID), occ.UserID, string(occData))
	pipe.Set(ctx, fmt.Sprintf(userLocationKey, occ.UserID), string(locData), 0)
	seq := pipe.Incr(ctx, repositories.RoomSeqKey(roomID))

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to upsert occupant: %w", err)
	}
	return seq.Val(), nil
}

func (r *redisRepository) Clear(ctx context.Context, roomID, userID string, last entities.Position) (int64, error) {
	if roomID == "" || userID == "" {
		return 0, fmt.Errorf("room ID and user ID are required")
	}

	locData, err := json.Marshal(entities.Location{RoomID: roomID, Position: last})
	if err != nil {
		return 0, fmt.Errorf("failed to serialize location: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HDel(ctx, fmt.Sprintf(roomOccupantsKey, roomID), userID)
	pipe.Set(ctx, fmt.Sprintf(userLocationKey, userID), string(locData), 0)
	seq := pipe.Incr(ctx, repositories.RoomSeqKey(roomID))

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to clear occupant: %w", err)
	}
	return seq.Val(), nil
}

func (r *redisRepository) List(ctx context.Context, roomID string) ([]entities.Occupant, error) {
	values, err := r.client.HGetAll(ctx, fmt.Sprintf(roomOccupantsKey, roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list occupants: %w", err)
	}

	occupants := make([]entities.Occupant, 0, len(values))
	for userID, raw := range values {
		var occ entities.Occupant
		if err := json.Unmarshal([]byte(raw), &occ); err != nil {
			return nil, fmt.Errorf("failed to deserialize occupant %s: %w", userID, err)
		}
		occupants = append(occupants, occ)
	}
	return occupants, nil
}

func (r *redisRepository) GetLastLocation(ctx context.Context, userID string) (*entities.Location, error) {
	data, err := r.client.Get(ctx, fmt.Sprintf(userLocationKey, userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repositories.NewRecordNotFoundError(userID)
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	var loc entities.Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, fmt.Errorf("failed to deserialize location: %w", err)
	}
	return &loc, nil
}
