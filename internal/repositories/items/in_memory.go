package items

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/repositories"
)

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu          sync.Mutex
	seqs        *repositories.Sequences
	items       map[string]map[string]entities.RoomItem
	claims      map[string]string
	inventories map[string][]entities.InventoryItem
}

// NewInMemoryRepository creates a new in-memory item repository
func NewInMemoryRepository(seqs *repositories.Sequences) Repository {
	if seqs == nil {
		seqs = repositories.NewSequences()
	}
	return &inMemoryRepository{
		seqs:        seqs,
		items:       make(map[string]map[string]entities.RoomItem),
		claims:      make(map[string]string),
		inventories: make(map[string][]entities.InventoryItem),
	}
}

func (r *inMemoryRepository) List(ctx context.Context, roomID string) ([]entities.RoomItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entities.RoomItem, 0, len(r.items[roomID]))
	for _, item := range r.items[roomID] {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *inMemoryRepository) Create(ctx context.Context, item *entities.RoomItem) (int64, error) {
	if item == nil {
		return 0, fmt.Errorf("item cannot be nil")
	}
	if item.ID == "" || item.RoomID == "" {
		return 0, fmt.Errorf("item ID and room ID are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.items[item.RoomID] == nil {
		r.items[item.RoomID] = make(map[string]entities.RoomItem)
	}
	r.items[item.RoomID][item.ID] = *item
	return r.seqs.Next(item.RoomID), nil
}

func (r *inMemoryRepository) Claim(ctx context.Context, roomID, itemID string, inv entities.InventoryItem) (int64, error) {
	if roomID == "" || itemID == "" || inv.UserID == "" {
		return 0, fmt.Errorf("room ID, item ID and user ID are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.claims[itemID]; taken {
		return 0, repositories.NewAlreadyClaimedError(itemID)
	}
	if _, ok := r.items[roomID][itemID]; !ok {
		return 0, repositories.NewRecordNotFoundError(itemID)
	}

	delete(r.items[roomID], itemID)
	r.claims[itemID] = inv.UserID
	r.inventories[inv.UserID] = append(r.inventories[inv.UserID], inv)
	return r.seqs.Next(roomID), nil
}

func (r *inMemoryRepository) ListInventory(ctx context.Context, userID string) ([]entities.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entities.InventoryItem, len(r.inventories[userID]))
	copy(out, r.inventories[userID])
	return out, nil
}
