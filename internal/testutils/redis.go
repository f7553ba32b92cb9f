package testutils

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testDB keeps integration runs away from data in a shared local Redis
const testDB = 15

// RedisAddrEnv points integration tests at an existing Redis instead of a
// container
const RedisAddrEnv = "REDIS_TEST_ADDR"

// StartRedisContainer runs a throwaway Redis in Docker and returns its
// address. The test is skipped when Docker is unavailable.
func StartRedisContainer(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Docker not available for testing: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err, "Failed to resolve Redis container endpoint")
	return addr
}

// CreateContainerRedisClient returns a client on an empty test database.
// REDIS_TEST_ADDR wins over starting a container.
func CreateContainerRedisClient(t *testing.T) redis.UniversalClient {
	t.Helper()

	addr := os.Getenv(RedisAddrEnv)
	if addr == "" {
		addr = StartRedisContainer(t)
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: testDB})
	if err := waitForRedis(client, 10*time.Second); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for testing: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.FlushDB(ctx).Err(), "Failed to flush test Redis database")

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}

func waitForRedis(client *redis.Client, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("redis at %s not ready after %v: %w", client.Options().Addr, timeout, err)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
