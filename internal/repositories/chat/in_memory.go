package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/repositories"
)

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu       sync.RWMutex
	seqs     *repositories.Sequences
	messages map[string][]entities.ChatMessage
}

// NewInMemoryRepository creates a new in-memory chat repository
func NewInMemoryRepository(seqs *repositories.Sequences) Repository {
	if seqs == nil {
		seqs = repositories.NewSequences()
	}
	return &inMemoryRepository{
		seqs:     seqs,
		messages: make(map[string][]entities.ChatMessage),
	}
}

func (r *inMemoryRepository) Create(ctx context.Context, msg *entities.ChatMessage) (int64, error) {
	if msg == nil {
		return 0, fmt.Errorf("message cannot be nil")
	}
	if msg.RoomID == "" {
		return 0, fmt.Errorf("room ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	history := append(r.messages[msg.RoomID], *msg)
	if len(history) > defaultRetention {
		history = history[len(history)-defaultRetention:]
	}
	r.messages[msg.RoomID] = history
	return r.seqs.Next(msg.RoomID), nil
}

func (r *inMemoryRepository) ListRecent(ctx context.Context, roomID string, limit int) ([]entities.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.messages[roomID]
	if limit < 0 {
		limit = 0
	}
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]entities.ChatMessage, len(history))
	copy(out, history)
	return out, nil
}
