package chat_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/repositories/chat"
)

func TestInMemoryRepository_ListRecentKeepsNewest(t *testing.T) {
	ctx := context.Background()
	repo := chat.NewInMemoryRepository(nil)

	for i := 1; i <= 5; i++ {
		seq, err := repo.Create(ctx, &entities.ChatMessage{ID: fmt.Sprintf("m%d", i), RoomID: "lobby", Body: "hi"})
		require.NoError(t, err)
		assert.Equal(t, int64(i), seq)
	}

	got, err := repo.ListRecent(ctx, "lobby", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "m3", got[0].ID)
	assert.Equal(t, "m5", got[2].ID)

	empty, err := repo.ListRecent(ctx, "garden", 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
