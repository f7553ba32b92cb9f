package occupants

//go:generate mockgen -destination=mock/mock_repository.go -package=mockoccupants -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/roomserver/internal/entities"
)

// Repository defines persistence for room presence and each user's last
// known location
type Repository interface {
	// Upsert stores occ as present in roomID, records it as the user's last
	// location and returns the new room sequence
	Upsert(ctx context.Context, roomID string, occ entities.Occupant) (int64, error)

	// Clear removes userID from roomID, keeps last as the user's last
	// location and returns the new room sequence
	Clear(ctx context.Context, roomID, userID string, last entities.Position) (int64, error)

	// List returns the occupants present in roomID
	List(ctx context.Context, roomID string) ([]entities.Occupant, error)

	// GetLastLocation returns where userID was last persisted. Users never
	// seen return an error matching repositories.ErrNotFound
	GetLastLocation(ctx context.Context, userID string) (*entities.Location, error)
}
