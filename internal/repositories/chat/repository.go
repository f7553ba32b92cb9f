package chat

//go:generate mockgen -destination=mock/mock_repository.go -package=mockchat -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/roomserver/internal/entities"
)

// Repository defines persistence for room chat
type Repository interface {
	// Create appends msg to its room's history and returns the new room sequence
	Create(ctx context.Context, msg *entities.ChatMessage) (int64, error)

	// ListRecent returns up to limit of the newest messages, oldest first
	ListRecent(ctx context.Context, roomID string, limit int) ([]entities.ChatMessage, error)
}
