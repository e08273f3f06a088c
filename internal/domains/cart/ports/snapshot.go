package ports

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by Load when nothing was persisted under the key.
var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// SnapshotStore persists serialized carts under a string key. Save overwrites the whole value.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
