package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/repositories"
)

const (
	// Key patterns
	roomKeyPrefix      = "room:"
	tileFlagsKey       = "room:%s:tiles"
	affordancesKey     = "room:%s:affordances"
	tileFieldSeparator = ","
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed room repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{client: cfg.Client}
}

// NewRedis creates a new Redis-backed room repository with default configuration
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func (r *redisRepository) Get(ctx context.Context, id string) (*entities.Room, error) {
	if id == "" {
		return nil, fmt.Errorf("room ID cannot be empty")
	}

	data, err := r.client.Get(ctx, roomKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repositories.NewRecordNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	var room entities.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("failed to deserialize room: %w", err)
	}

	seq, err := r.client.Get(ctx, repositories.RoomSeqKey(id)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get room seq: %w", err)
	}
	room.Seq = seq

	return &room, nil
}

func (r *redisRepository) Save(ctx context.Context, room *entities.Room) error {
	if room == nil {
		return fmt.Errorf("room cannot be nil")
	}
	if room.ID == "" {
		return fmt.Errorf("room ID cannot be empty")
	}

	// The sequence lives in its own key
	record := *room
	record.Seq = 0
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize room: %w", err)
	}

	if err := r.client.Set(ctx, roomKeyPrefix+room.ID, string(data), 0).Err(); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

func (r *redisRepository) IncrementSeq(ctx context.Context, roomID string) (int64, error) {
	seq, err := r.client.Incr(ctx, repositories.RoomSeqKey(roomID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment room seq: %w", err)
	}
	return seq, nil
}

func (r *redisRepository) ListTileFlags(ctx context.Context, roomID string) ([]entities.TileFlag, error) {
	values, err := r.client.HGetAll(ctx, fmt.Sprintf(tileFlagsKey, roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tile flags: %w", err)
	}

	flags := make([]entities.TileFlag, 0, len(values))
	for field, raw := range values {
		var flag entities.TileFlag
		if err := json.Unmarshal([]byte(raw), &flag); err != nil {
			return nil, fmt.Errorf("failed to deserialize tile flag %s: %w", field, err)
		}
		flags = append(flags, flag)
	}
	return flags, nil
}

func (r *redisRepository) SetTileFlag(ctx context.Context, roomID string, flag entities.TileFlag) (int64, error) {
	key := fmt.Sprintf(tileFlagsKey, roomID)
	field := tileField(flag.Position)

	pipe := r.client.TxPipeline()
	if flag.IsDefault() {
		pipe.HDel(ctx, key, field)
	} else {
		data, err := json.Marshal(flag)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize tile flag: %w", err)
		}
		pipe.HSet(ctx, key, field, string(data))
	}
	seq := pipe.Incr(ctx, repositories.RoomSeqKey(roomID))

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to set tile flag: %w", err)
	}
	return seq.Val(), nil
}

func (r *redisRepository) ListAffordances(ctx context.Context, roomID string) ([]entities.Affordance, error) {
	values, err := r.client.HGetAll(ctx, fmt.Sprintf(affordancesKey, roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list affordances: %w", err)
	}

	affs := make([]entities.Affordance, 0, len(values))
	for field, raw := range values {
		var aff entities.Affordance
		if err := json.Unmarshal([]byte(raw), &aff); err != nil {
			return nil, fmt.Errorf("failed to deserialize affordance %s: %w", field, err)
		}
		affs = append(affs, aff)
	}
	return affs, nil
}

func (r *redisRepository) SetAffordance(ctx context.Context, roomID string, aff entities.Affordance) (int64, error) {
	key := fmt.Sprintf(affordancesKey, roomID)
	field := tileField(aff.Position)

	pipe := r.client.TxPipeline()
	if aff.Kind == entities.AffordanceNone {
		pipe.HDel(ctx, key, field)
	} else {
		data, err := json.Marshal(aff)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize affordance: %w", err)
		}
		pipe.HSet(ctx, key, field, string(data))
	}
	seq := pipe.Incr(ctx, repositories.RoomSeqKey(roomID))

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to set affordance: %w", err)
	}
	return seq.Val(), nil
}

func tileField(p entities.Position) string {
	return strconv.Itoa(p.X) + tileFieldSeparator + strconv.Itoa(p.Y)
}
