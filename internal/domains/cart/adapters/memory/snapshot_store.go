package memory

import (
	"context"
	"sync"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps cart snapshots in process memory, for development and tests.
type SnapshotStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{blobs: map[string][]byte{}}
}

func (s *SnapshotStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, ports.ErrSnapshotNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *SnapshotStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

// Keys lists every key holding a snapshot.
func (s *SnapshotStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}
	return keys
}
