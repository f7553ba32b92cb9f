package items

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/repositories"
)

const (
	// Key patterns
	roomItemsKey      = "room:%s:items"
	roomClaimsKey     = "room:%s:claims"
	userInventoryKey  = "user:%s:inventory"
	claimNotFound     = -1
	claimAlreadyTaken = -2
)

// claimScript moves an item from the room into a user's inventory and
// bumps the room sequence in one step.
//
// KEYS: items hash, claims hash, inventory list, room seq
// ARGV: item id, user id, inventory item json
var claimScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[2], ARGV[1]) == 1 then
	return -2
end
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
	return -1
end
redis.call('HDEL', KEYS[1], ARGV[1])
redis.call('HSET', KEYS[2], ARGV[1], ARGV[2])
redis.call('RPUSH', KEYS[3], ARGV[3])
return redis.call('INCR', KEYS[4])
`)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed item repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{client: cfg.Client}
}

// NewRedis creates a new Redis-backed item repository with default configuration
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func (r *redisRepository) List(ctx context.Context, roomID string) ([]entities.RoomItem, error) {
	values, err := r.client.HGetAll(ctx, fmt.Sprintf(roomItemsKey, roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	items := make([]entities.RoomItem, 0, len(values))
	for id, raw := range values {
		var item entities.RoomItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("failed to deserialize item %s: %w", id, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *redisRepository) Create(ctx context.Context, item *entities.RoomItem) (int64, error) {
	if item == nil {
		return 0, fmt.Errorf("item cannot be nil")
	}
	if item.ID == "" || item.RoomID == "" {
		return 0, fmt.Errorf("item ID and room ID are required")
	}

	data, err := json.Marshal(item)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize item: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, fmt.Sprintf(roomItemsKey, item.RoomID), item.ID, string(data))
	seq := pipe.Incr(ctx, repositories.RoomSeqKey(item.RoomID))

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to create item: %w", err)
	}
	return seq.Val(), nil
}

func (r *redisRepository) Claim(ctx context.Context, roomID, itemID string, inv entities.InventoryItem) (int64, error) {
	if roomID == "" || itemID == "" || inv.UserID == "" {
		return 0, fmt.Errorf("room ID, item ID and user ID are required")
	}

	data, err := json.Marshal(inv)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize inventory item: %w", err)
	}

	keys := []string{
		fmt.Sprintf(roomItemsKey, roomID),
		fmt.Sprintf(roomClaimsKey, roomID),
		fmt.Sprintf(userInventoryKey, inv.UserID),
		repositories.RoomSeqKey(roomID),
	}
	result, err := claimScript.Run(ctx, r.client, keys, itemID, inv.UserID, string(data)).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to claim item: %w", err)
	}

	switch result {
	case claimNotFound:
		return 0, repositories.NewRecordNotFoundError(itemID)
	case claimAlreadyTaken:
		return 0, repositories.NewAlreadyClaimedError(itemID)
	}
	return result, nil
}

func (r *redisRepository) ListInventory(ctx context.Context, userID string) ([]entities.InventoryItem, error) {
	values, err := r.client.LRange(ctx, fmt.Sprintf(userInventoryKey, userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	inventory := make([]entities.InventoryItem, 0, len(values))
	for _, raw := range values {
		var inv entities.InventoryItem
		if err := json.Unmarshal([]byte(raw), &inv); err != nil {
			return nil, fmt.Errorf("failed to deserialize inventory item: %w", err)
		}
		inventory = append(inventory, inv)
	}
	return inventory, nil
}
