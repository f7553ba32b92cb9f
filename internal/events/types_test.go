package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/events"
	"github.com/KirkDiggler/roomserver/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRoomEvent_Validate(t *testing.T) {
	t.Run("constructed events are valid", func(t *testing.T) {
		for _, e := range []*events.RoomEvent{
			events.NewOccupantJoined("r1", 1, at, entities.Occupant{UserID: "u1"}),
			events.NewOccupantMoved("r1", 2, at, "u1", entities.Position{X: 1, Y: 1}),
			events.NewOccupantLeft("r1", 3, at, "u1", entities.Position{X: 1, Y: 1}),
			events.NewChatPosted("r1", 4, entities.ChatMessage{ID: "m1", SentAt: at}),
			events.NewTileFlagChanged("r1", 5, at, entities.TileFlag{Locked: true}),
			events.NewAffordanceChanged("r1", 6, at, entities.Affordance{Kind: entities.AffordanceSit}),
			events.NewItemSpawned("r1", 7, entities.RoomItem{ID: "i1", CreatedAt: at}),
			events.NewItemRemoved("r1", 8, at, "i1", "u1"),
			events.NewLatencyTrace("r1", at, events.LatencyTrace{TraceID: "t1"}),
		} {
			assert.NoError(t, e.Validate(), e.Type)
		}
	})

	t.Run("mismatched payload", func(t *testing.T) {
		e := events.NewOccupantMoved("r1", 2, at, "u1", entities.Position{})
		e.Type = events.EventTypeOccupantLeft
		assert.Error(t, e.Validate())
	})

	t.Run("two payloads", func(t *testing.T) {
		e := events.NewOccupantMoved("r1", 2, at, "u1", entities.Position{})
		e.ItemRemoved = &events.ItemRemoved{ItemID: "i1"}
		assert.Error(t, e.Validate())
	})

	t.Run("missing room", func(t *testing.T) {
		e := events.NewItemRemoved("", 2, at, "i1", "u1")
		assert.Error(t, e.Validate())
	})

	t.Run("unknown type", func(t *testing.T) {
		e := events.NewItemRemoved("r1", 2, at, "i1", "u1")
		e.Type = "teleported"
		assert.Error(t, e.Validate())
	})
}

func TestRoomEvent_ConnIDStaysLocal(t *testing.T) {
	e := events.NewOccupantMoved("r1", 2, at, "u1", entities.Position{X: 4, Y: 5})
	e.ConnID = "conn-1"

	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded events.RoomEvent
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Empty(t, decoded.ConnID)
	require.NoError(t, decoded.Validate())
	assert.Equal(t, entities.Position{X: 4, Y: 5}, decoded.OccupantMoved.Position)
}

func TestRoomEvent_Push(t *testing.T) {
	op, data := events.NewOccupantLeft("r1", 9, at, "u1", entities.Position{X: 2, Y: 3}).Push(at)
	assert.Equal(t, protocol.OpOccupantLeft, op)
	assert.Equal(t, protocol.OccupantLeft{UserID: "u1", X: 2, Y: 3, RoomSeq: 9}, data)

	op, data = events.NewItemRemoved("r1", 10, at, "i1", "u2").Push(at)
	assert.Equal(t, protocol.OpItemRemoved, op)
	assert.Equal(t, protocol.ItemRemoved{ItemID: "i1", ClaimedBy: "u2", RoomSeq: 10}, data)

	later := at.Add(150 * time.Millisecond)
	trace := events.NewLatencyTrace("r1", at, events.LatencyTrace{TraceID: "t1", OriginID: "a", OriginTime: at})
	op, data = trace.Push(later)
	assert.Equal(t, protocol.OpLatencyTrace, op)
	view := data.(protocol.LatencyTraceView)
	assert.Equal(t, int64(150), view.DeliveryTime-view.OriginTime)
	assert.False(t, trace.Mutates())
}
