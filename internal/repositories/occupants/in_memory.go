package occupants

import (
	"context"
	"fmt"
	"sync"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/repositories"
)

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu        sync.RWMutex
	seqs      *repositories.Sequences
	rooms     map[string]map[string]entities.Occupant
	locations map[string]entities.Location
}

// NewInMemoryRepository creates a new in-memory occupant repository
func NewInMemoryRepository(seqs *repositories.Sequences) Repository {
	if seqs == nil {
		seqs = repositories.NewSequences()
	}
	return &inMemoryRepository{
		seqs:      seqs,
		rooms:     make(map[string]map[string]entities.Occupant),
		locations: make(map[string]entities.Location),
	}
}

func (r *inMemoryRepository) Upsert(ctx context.Context, roomID string, occ entities.Occupant) (int64, error) {
	if roomID == "" || occ.UserID == "" {
		return 0, fmt.Errorf("room ID and user ID are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[roomID] == nil {
		r.rooms[roomID] = make(map[string]entities.Occupant)
	}
	r.rooms[roomID][occ.UserID] = occ
	r.locations[occ.UserID] = entities.Location{RoomID: roomID, Position: occ.Position}
	return r.seqs.Next(roomID), nil
}

func (r *inMemoryRepository) Clear(ctx context.Context, roomID, userID string, last entities.Position) (int64, error) {
	if roomID == "" || userID == "" {
		return 0, fmt.Errorf("room ID and user ID are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms[roomID], userID)
	r.locations[userID] = entities.Location{RoomID: roomID, Position: last}
	return r.seqs.Next(roomID), nil
}

func (r *inMemoryRepository) List(ctx context.Context, roomID string) ([]entities.Occupant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.Occupant, 0, len(r.rooms[roomID]))
	for _, occ := range r.rooms[roomID] {
		out = append(out, occ)
	}
	return out, nil
}

func (r *inMemoryRepository) GetLastLocation(ctx context.Context, userID string) (*entities.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.locations[userID]
	if !ok {
		return nil, repositories.NewRecordNotFoundError(userID)
	}
	return &loc, nil
}
