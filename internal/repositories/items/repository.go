package items

//go:generate mockgen -destination=mock/mock_repository.go -package=mockitems -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/roomserver/internal/entities"
)

// Repository defines persistence for room items and user inventories
type Repository interface {
	// List returns the unclaimed items of a room
	List(ctx context.Context, roomID string) ([]entities.RoomItem, error)

	// Create places a new unclaimed item and returns the new room sequence
	Create(ctx context.Context, item *entities.RoomItem) (int64, error)

	// Claim atomically removes itemID from roomID, stores inv for
	// inv.UserID and returns the new room sequence. The first claimant
	// wins; later claimants get repositories.ErrAlreadyClaimed. Unknown
	// items return repositories.ErrNotFound
	Claim(ctx context.Context, roomID, itemID string, inv entities.InventoryItem) (int64, error)

	// ListInventory returns the items a user has picked up, oldest first
	ListInventory(ctx context.Context, userID string) ([]entities.InventoryItem, error)
}
