package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/roomserver/internal/eventbus"
	"github.com/KirkDiggler/roomserver/internal/events"
)

func TestRedisBus_Publish(t *testing.T) {
	client, mock := redismock.NewClientMock()
	bus := eventbus.NewRedisBus(&eventbus.RedisBusConfig{Client: client})

	ev := events.NewOccupantMoved("lobby", 2, time.UnixMilli(1700000000000).UTC(), "alice", entitiesPos(1, 1))
	msg := eventbus.Message{OriginID: "instance-a", Event: *ev}
	data, err := json.Marshal(msg)
	require.NoError(t, err)

	mock.ExpectPublish("roomserver:room:lobby:events", data).SetVal(1)
	require.NoError(t, bus.Publish(context.Background(), "lobby", msg))

	mock.ExpectPublish("roomserver:room:lobby:events", data).SetErr(errors.New("redis error"))
	assert.Error(t, bus.Publish(context.Background(), "lobby", msg))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBus_PublishAfterClose(t *testing.T) {
	client, _ := redismock.NewClientMock()
	bus := eventbus.NewRedisBus(&eventbus.RedisBusConfig{Client: client})
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), "lobby", eventbus.Message{})
	assert.ErrorIs(t, err, eventbus.ErrClosed)
}
