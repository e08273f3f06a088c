package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-cart/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-cart/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository reads and writes catalog products and stock in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productRecord struct {
	ID        int64           `gorm:"primaryKey;column:id;autoIncrement:false"`
	Title     string          `gorm:"column:title"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Image     string          `gorm:"column:image"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type stockRecord struct {
	ProductID int64     `gorm:"primaryKey;column:product_id;autoIncrement:false"`
	Amount    int       `gorm:"column:amount"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stockRecord) TableName() string { return "stock" }

func (r *Repository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Product{}, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, ports.ErrNotFound
		}
		return domain.Product{}, err
	}
	return toDomainProduct(record), nil
}

func (r *Repository) GetStock(ctx context.Context, id int64) (domain.StockLevel, error) {
	if err := r.ensureDB(); err != nil {
		return domain.StockLevel{}, err
	}
	var record stockRecord
	if err := r.db.WithContext(ctx).First(&record, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.StockLevel{}, ports.ErrNotFound
		}
		return domain.StockLevel{}, err
	}
	return domain.StockLevel{ProductID: record.ProductID, Amount: record.Amount}, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(records))
	for _, record := range records {
		out = append(out, toDomainProduct(record))
	}
	return out, nil
}

// Upsert writes the product and its stock level in one transaction.
func (r *Repository) Upsert(ctx context.Context, product domain.Product, stock int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := productRecord{ID: product.ID, Title: product.Title, Price: product.Price, Image: product.Image}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "price", "image", "updated_at"}),
		}).Create(&record).Error; err != nil {
			return err
		}
		level := stockRecord{ProductID: product.ID, Amount: stock}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
		}).Create(&level).Error
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toDomainProduct(record productRecord) domain.Product {
	return domain.Product{
		ID:    record.ID,
		Title: record.Title,
		Price: record.Price,
		Image: record.Image,
	}
}
