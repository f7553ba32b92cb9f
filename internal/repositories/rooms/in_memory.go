package rooms

import (
	"context"
	"fmt"
	"sync"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/repositories"
)

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu          sync.RWMutex
	seqs        *repositories.Sequences
	rooms       map[string]entities.Room
	flags       map[string]map[entities.Position]entities.TileFlag
	affordances map[string]map[entities.Position]entities.Affordance
}

// NewInMemoryRepository creates a new in-memory room repository. seqs is
// shared with the other in-memory repositories; nil creates a private one.
func NewInMemoryRepository(seqs *repositories.Sequences) Repository {
	if seqs == nil {
		seqs = repositories.NewSequences()
	}
	return &inMemoryRepository{
		seqs:        seqs,
		rooms:       make(map[string]entities.Room),
		flags:       make(map[string]map[entities.Position]entities.TileFlag),
		affordances: make(map[string]map[entities.Position]entities.Affordance),
	}
}

func (r *inMemoryRepository) Get(ctx context.Context, id string) (*entities.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[id]
	if !exists {
		return nil, repositories.NewRecordNotFoundError(id)
	}
	room.Seq = r.seqs.Current(id)
	return &room, nil
}

func (r *inMemoryRepository) Save(ctx context.Context, room *entities.Room) error {
	if room == nil {
		return fmt.Errorf("room cannot be nil")
	}
	if room.ID == "" {
		return fmt.Errorf("room ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record := *room
	record.Seq = 0
	r.rooms[room.ID] = record
	return nil
}

func (r *inMemoryRepository) IncrementSeq(ctx context.Context, roomID string) (int64, error) {
	return r.seqs.Next(roomID), nil
}

func (r *inMemoryRepository) ListTileFlags(ctx context.Context, roomID string) ([]entities.TileFlag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	flags := make([]entities.TileFlag, 0, len(r.flags[roomID]))
	for _, f := range r.flags[roomID] {
		flags = append(flags, f)
	}
	return flags, nil
}

func (r *inMemoryRepository) SetTileFlag(ctx context.Context, roomID string, flag entities.TileFlag) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if flag.IsDefault() {
		delete(r.flags[roomID], flag.Position)
	} else {
		if r.flags[roomID] == nil {
			r.flags[roomID] = make(map[entities.Position]entities.TileFlag)
		}
		r.flags[roomID][flag.Position] = flag
	}
	return r.seqs.Next(roomID), nil
}

func (r *inMemoryRepository) ListAffordances(ctx context.Context, roomID string) ([]entities.Affordance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	affs := make([]entities.Affordance, 0, len(r.affordances[roomID]))
	for _, a := range r.affordances[roomID] {
		affs = append(affs, a)
	}
	return affs, nil
}

func (r *inMemoryRepository) SetAffordance(ctx context.Context, roomID string, aff entities.Affordance) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if aff.Kind == entities.AffordanceNone {
		delete(r.affordances[roomID], aff.Position)
	} else {
		if r.affordances[roomID] == nil {
			r.affordances[roomID] = make(map[entities.Position]entities.Affordance)
		}
		r.affordances[roomID][aff.Position] = aff
	}
	return r.seqs.Next(roomID), nil
}
