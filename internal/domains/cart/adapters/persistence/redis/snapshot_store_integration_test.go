//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

func setupRedisContainer(t *testing.T) (*goredis.Client, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	require.NoError(t, client.Ping(ctx).Err())

	cleanup := func() {
		client.Close()
		container.Terminate(ctx)
	}
	return client, cleanup
}

func TestSnapshotStore_SaveLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewSnapshotStore(client, 0)
	ctx := context.Background()

	_, err := store.Load(ctx, "@RocketShoes:cart:missing")
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)

	require.NoError(t, store.Save(ctx, "@RocketShoes:cart:1", []byte(`[{"id":1,"amount":2}]`)))
	data, err := store.Load(ctx, "@RocketShoes:cart:1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"amount":2}]`, string(data))

	ttl, err := client.TTL(ctx, "@RocketShoes:cart:1").Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)
}

func TestSnapshotStore_SaveRefreshesTTL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewSnapshotStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "cart:ttl", []byte(`[]`)))
	ttl, err := client.TTL(ctx, "cart:ttl").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}
