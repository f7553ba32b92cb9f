package occupants_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/repositories"
	"github.com/KirkDiggler/roomserver/internal/repositories/occupants"
)

func TestInMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := occupants.NewInMemoryRepository(nil)

	_, err := repo.GetLastLocation(ctx, "alice")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	seq, err := repo.Upsert(ctx, "lobby", entities.Occupant{UserID: "alice", Position: entities.Position{X: 1, Y: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	seq, err = repo.Upsert(ctx, "lobby", entities.Occupant{UserID: "alice", Position: entities.Position{X: 2, Y: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)

	list, err := repo.List(ctx, "lobby")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entities.Position{X: 2, Y: 1}, list[0].Position)

	seq, err = repo.Clear(ctx, "lobby", "alice", entities.Position{X: 2, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), seq)

	list, err = repo.List(ctx, "lobby")
	require.NoError(t, err)
	assert.Empty(t, list)

	loc, err := repo.GetLastLocation(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, entities.Location{RoomID: "lobby", Position: entities.Position{X: 2, Y: 1}}, *loc)
}
