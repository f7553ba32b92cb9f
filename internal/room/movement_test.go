package room_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/protocol"
	"github.com/KirkDiggler/roomserver/internal/room"
)

func newStore(t *testing.T) *room.Store {
	t.Helper()
	s := room.NewStore(entities.Room{ID: "lobby", Name: "Lobby", Seq: 7})
	s.PlaceOccupant(entities.Occupant{UserID: "alice", Position: entities.Position{X: 2, Y: 4}}, "conn-a")
	s.PlaceOccupant(entities.Occupant{UserID: "bob", Position: entities.Position{X: 3, Y: 4}}, "conn-b")
	s.SetTileFlag(entities.TileFlag{Position: entities.Position{X: 5, Y: 4}, Locked: true})
	return s
}

func TestGrid_RowWidthAlternates(t *testing.T) {
	g := room.NewGrid(0)

	assert.Equal(t, room.DefaultRows, g.Rows)
	assert.Equal(t, 11, g.RowWidth(0))
	assert.Equal(t, 10, g.RowWidth(1))
	assert.Equal(t, 11, g.RowWidth(4))
	assert.Equal(t, 0, g.RowWidth(-1))
	assert.Equal(t, 0, g.RowWidth(12))

	assert.True(t, g.InBounds(entities.Position{X: 10, Y: 4}))
	assert.False(t, g.InBounds(entities.Position{X: 11, Y: 4}))
	assert.False(t, g.InBounds(entities.Position{X: 10, Y: 5}))
	assert.False(t, g.InBounds(entities.Position{X: -1, Y: 0}))
}

func TestValidateMove(t *testing.T) {
	testCases := []struct {
		name   string
		target entities.Position
		want   room.MoveDecision
	}{
		{
			name:   "past the end of row 4",
			target: entities.Position{X: 11, Y: 4},
			want:   room.MoveDecision{Reason: protocol.MoveInvalidTile},
		},
		{
			name:   "last tile of row 4",
			target: entities.Position{X: 10, Y: 4},
			want:   room.MoveDecision{Accepted: true},
		},
		{
			name:   "below the grid",
			target: entities.Position{X: 0, Y: 12},
			want:   room.MoveDecision{Reason: protocol.MoveInvalidTile},
		},
		{
			name:   "locked tile",
			target: entities.Position{X: 5, Y: 4},
			want:   room.MoveDecision{Reason: protocol.MoveLockedTile},
		},
		{
			name:   "occupied by another user",
			target: entities.Position{X: 3, Y: 4},
			want:   room.MoveDecision{Reason: protocol.MoveOccupied},
		},
		{
			name:   "current tile is a no-op",
			target: entities.Position{X: 2, Y: 4},
			want:   room.MoveDecision{Accepted: true, NoOp: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			got := room.ValidateMove(s, "alice", entities.Position{X: 2, Y: 4}, tc.target)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidateMove_LockCheckedBeforeOccupancy(t *testing.T) {
	s := newStore(t)
	s.SetTileFlag(entities.TileFlag{Position: entities.Position{X: 3, Y: 4}, Locked: true})

	got := room.ValidateMove(s, "alice", entities.Position{X: 2, Y: 4}, entities.Position{X: 3, Y: 4})
	assert.Equal(t, protocol.MoveLockedTile, got.Reason)
}

func TestValidateMove_DoesNotMutate(t *testing.T) {
	s := newStore(t)
	_ = room.ValidateMove(s, "alice", entities.Position{X: 2, Y: 4}, entities.Position{X: 10, Y: 4})

	occ, ok := s.Occupant("alice")
	assert.True(t, ok)
	assert.Equal(t, entities.Position{X: 2, Y: 4}, occ.Position)
	assert.Equal(t, int64(7), s.Seq())
}
