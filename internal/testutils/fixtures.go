package testutils

import (
	"time"

	"github.com/KirkDiggler/roomserver/internal/entities"
)

// FixedTime is the clock reading used across fixtures
var FixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// CreateTestRoom creates a room with the default grid and its door on row 0
func CreateTestRoom(id string) *entities.Room {
	return &entities.Room{
		ID:   id,
		Name: "Test " + id,
		Door: entities.Position{X: 5, Y: 0},
	}
}

// CreateTestIdentity creates a verified identity with the user role, plus
// any extra roles
func CreateTestIdentity(userID string, extra ...entities.Role) *entities.Identity {
	return &entities.Identity{
		UserID:   userID,
		Username: "user " + userID,
		Roles:    append([]entities.Role{entities.RoleUser}, extra...),
	}
}

// CreateTestItem creates an unclaimed item on (x, y)
func CreateTestItem(id, roomID string, x, y int) *entities.RoomItem {
	return &entities.RoomItem{
		ID:        id,
		RoomID:    roomID,
		Name:      "Item " + id,
		Kind:      "prop",
		Position:  entities.Position{X: x, Y: y},
		CreatedAt: FixedTime,
	}
}
