// Package file persists cart snapshots as one JSON file per key, the on-disk counterpart of
// browser local storage for single-user deployments.
package file

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore writes each key to <dir>/<base64url(key)>.json.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore creates dir when missing.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("snapshot directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &SnapshotStore{dir: dir}, nil
}

func (s *SnapshotStore) path(key string) string {
	return filepath.Join(s.dir, base64.RawURLEncoding.EncodeToString([]byte(key))+".json")
}

// Load reads the snapshot for key.
func (s *SnapshotStore) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ports.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save replaces the snapshot through a rename so readers never observe a partial write.
func (s *SnapshotStore) Save(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}
