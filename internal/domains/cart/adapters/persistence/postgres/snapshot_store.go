package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore persists cart snapshots in PostgreSQL using GORM.
type SnapshotStore struct {
	db *gorm.DB
}

// NewSnapshotStore wires a PostgreSQL-backed snapshot store. Caller manages DB lifecycle.
func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	store := &SnapshotStore{db: db}
	if db != nil {
		_ = db.AutoMigrate(&snapshotRecord{})
	}
	return store
}

// snapshotRecord maps one snapshot key to a row.
type snapshotRecord struct {
	Key       string    `gorm:"primaryKey;column:key;size:255"`
	Data      string    `gorm:"column:data;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (snapshotRecord) TableName() string { return "cart_snapshots" }

// Load fetches the snapshot stored under key.
func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record snapshotRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrSnapshotNotFound
		}
		return nil, err
	}
	return []byte(record.Data), nil
}

// Save upserts the snapshot in a single statement.
func (s *SnapshotStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	record := snapshotRecord{Key: key, Data: string(data)}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"data":       record.Data,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(&record).Error
}

// PurgeOlderThan removes snapshots not written since cutoff and reports how many went away.
func (s *SnapshotStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("updated_at <= ?", cutoff).Delete(&snapshotRecord{})
	return result.RowsAffected, result.Error
}

func (s *SnapshotStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres snapshot store not configured")
	}
	return nil
}
