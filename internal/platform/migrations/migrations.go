package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the cart and catalog bounded contexts.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&cartSnapshotRecord{},
		&productRecord{},
		&stockRecord{},
	)
}

// Snapshot schema mirrors the cart Postgres snapshot store.
type cartSnapshotRecord struct {
	Key       string    `gorm:"primaryKey;column:key;size:255"`
	Data      string    `gorm:"column:data;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (cartSnapshotRecord) TableName() string { return "cart_snapshots" }

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID        int64     `gorm:"primaryKey;column:id;autoIncrement:false"`
	Title     string    `gorm:"column:title"`
	Price     string    `gorm:"column:price;type:numeric(12,2)"`
	Image     string    `gorm:"column:image"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Stock schema mirrors the catalog Postgres adapter.
type stockRecord struct {
	ProductID int64     `gorm:"primaryKey;column:product_id;autoIncrement:false"`
	Amount    int       `gorm:"column:amount"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stockRecord) TableName() string { return "stock" }
