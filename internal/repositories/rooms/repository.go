package rooms

//go:generate mockgen -destination=mock/mock_repository.go -package=mockrooms -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/roomserver/internal/entities"
)

// Repository defines persistence for room identity, the room sequence and
// the administrative tile state of a room
type Repository interface {
	// Get retrieves a room with its current sequence. Missing rooms return
	// an error matching repositories.ErrNotFound
	Get(ctx context.Context, id string) (*entities.Room, error)

	// Save creates or replaces the room record. The sequence is not touched
	Save(ctx context.Context, room *entities.Room) error

	// IncrementSeq advances the room sequence and returns the new value
	IncrementSeq(ctx context.Context, roomID string) (int64, error)

	// ListTileFlags returns every non-default tile flag of a room
	ListTileFlags(ctx context.Context, roomID string) ([]entities.TileFlag, error)

	// SetTileFlag stores flag (a default flag clears the record) and
	// returns the new room sequence
	SetTileFlag(ctx context.Context, roomID string, flag entities.TileFlag) (int64, error)

	// ListAffordances returns every tile affordance of a room
	ListAffordances(ctx context.Context, roomID string) ([]entities.Affordance, error)

	// SetAffordance stores aff (kind none clears it) and returns the new
	// room sequence
	SetAffordance(ctx context.Context, roomID string, aff entities.Affordance) (int64, error)
}
