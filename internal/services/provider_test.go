package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/roomserver/internal/eventbus"
	"github.com/KirkDiggler/roomserver/internal/services"
	"github.com/KirkDiggler/roomserver/internal/services/room"
	"github.com/KirkDiggler/roomserver/internal/testutils"
)

type nopSession struct{ id string }

func (s nopSession) ID() string         { return s.id }
func (s nopSession) Send([]byte) bool   { return true }
func (s nopSession) Kick(reason string) {}

func TestNewProvider_InMemory(t *testing.T) {
	provider := services.NewProvider(&services.ProviderConfig{
		OriginID:      "instance-a",
		DefaultRoomID: "lobby",
	})
	defer provider.Close()

	require.NotNil(t, provider.RoomService)
	assert.Equal(t, "instance-a", provider.Relay.OriginID())

	result, err := provider.RoomService.Join(context.Background(), &room.JoinInput{
		Identity: testutils.CreateTestIdentity("u1"),
		Session:  nopSession{id: "conn-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Room.Seq)
	assert.Equal(t, 1, provider.Broadcaster.Count("lobby"))
}

func TestNewProvider_SharedBus(t *testing.T) {
	bus := eventbus.NewLocalBus(nil)
	provider := services.NewProvider(&services.ProviderConfig{
		Bus:           bus,
		OriginID:      "instance-a",
		DefaultRoomID: "lobby",
	})
	require.NoError(t, provider.Close())

	_, err := bus.Subscribe(context.Background(), "lobby", func(eventbus.Message) {})
	assert.ErrorIs(t, err, eventbus.ErrClosed)
}
