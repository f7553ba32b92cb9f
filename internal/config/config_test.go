package config_test

import (
	"testing"
	"time"

	"github.com/KirkDiggler/roomserver/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.HeartbeatInterval)
	assert.Equal(t, 30*time.Second, cfg.Server.HeartbeatTimeout())
	assert.Equal(t, 5, cfg.Server.MaxMalformed)
	assert.Equal(t, "lobby", cfg.Server.DefaultRoomID)
	assert.Equal(t, 50, cfg.Server.ChatHistory)
	assert.Equal(t, "roomserver", cfg.Auth.Issuer)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("ROOMSERVER_HEARTBEAT_INTERVAL", "2s")
	t.Setenv("ROOMSERVER_INSTANCE_ID", "instance-a")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Server.HeartbeatInterval)
	assert.Equal(t, "instance-a", cfg.Server.InstanceID)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "AUTH_JWT_SECRET")
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("ROOMSERVER_HEARTBEAT_INTERVAL", "soon")

	_, err := config.Load()
	assert.ErrorContains(t, err, "parse env:")
}

func TestLoad_RejectsNonPositiveHeartbeat(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("ROOMSERVER_HEARTBEAT_INTERVAL", "0s")

	_, err := config.Load()
	assert.ErrorContains(t, err, "ROOMSERVER_HEARTBEAT_INTERVAL")
}
