package entities

import "time"

// RoomItem is an unclaimed item lying on a tile. Items only move from
// unclaimed to claimed; claims are never reversed.
type RoomItem struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Position  Position  `json:"position"`
	ClaimedBy string    `json:"claimed_by,omitempty"` // Empty while unclaimed
	CreatedAt time.Time `json:"created_at"`
}

// Claimed reports whether a user already picked the item up
func (i *RoomItem) Claimed() bool {
	return i != nil && i.ClaimedBy != ""
}

// InventoryItem is created atomically with the claim of a RoomItem
type InventoryItem struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SourceItemID string    `json:"source_item_id"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind"`
	AcquiredAt   time.Time `json:"acquired_at"`
}
