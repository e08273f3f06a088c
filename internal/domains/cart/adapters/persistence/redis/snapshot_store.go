package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps cart snapshots as plain Redis string values.
type SnapshotStore struct {
	client goredis.Cmdable
	ttl    time.Duration
}

// NewSnapshotStore wires a Redis-backed snapshot store. A ttl of zero keeps keys forever;
// otherwise every save refreshes the expiry so only abandoned carts disappear.
func NewSnapshotStore(client goredis.Cmdable, ttl time.Duration) *SnapshotStore {
	if ttl < 0 {
		ttl = 0
	}
	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("redis snapshot store not configured")
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ports.ErrSnapshotNotFound
	}
	return data, err
}

func (s *SnapshotStore) Save(ctx context.Context, key string, data []byte) error {
	if s == nil || s.client == nil {
		return errors.New("redis snapshot store not configured")
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}
