//go:build integration
// +build integration

package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/roomserver/internal/eventbus"
	"github.com/KirkDiggler/roomserver/internal/events"
	"github.com/KirkDiggler/roomserver/internal/testutils"
)

func TestRedisBus_Integration(t *testing.T) {
	client := testutils.CreateContainerRedisClient(t)
	ctx := context.Background()

	bus := eventbus.NewRedisBus(&eventbus.RedisBusConfig{Client: client})
	defer bus.Close()

	relayA := eventbus.NewRelay(&eventbus.RelayConfig{Bus: bus, OriginID: "instance-a"})
	relayB := eventbus.NewRelay(&eventbus.RelayConfig{Bus: bus, OriginID: "instance-b"})

	gotA := make(chan *events.RoomEvent, 4)
	gotB := make(chan *events.RoomEvent, 4)
	_, err := relayA.Subscribe(ctx, "lobby", func(e *events.RoomEvent) { gotA <- e })
	require.NoError(t, err)
	_, err = relayB.Subscribe(ctx, "lobby", func(e *events.RoomEvent) { gotB <- e })
	require.NoError(t, err)

	ev := events.NewOccupantMoved("lobby", 3, time.Now().UTC(), "alice", entitiesPos(4, 4))
	require.NoError(t, relayA.Publish(ctx, ev))

	select {
	case e := <-gotB:
		assert.Equal(t, "alice", e.OccupantMoved.UserID)
		assert.Equal(t, int64(3), e.Seq)
	case <-time.After(5 * time.Second):
		t.Fatal("instance b never received the event")
	}

	select {
	case e := <-gotA:
		t.Fatalf("instance a received its own event: %+v", e)
	case <-time.After(200 * time.Millisecond):
	}
}
