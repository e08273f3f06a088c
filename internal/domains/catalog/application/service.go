package application

import (
	"context"
	"fmt"

	"github.com/Apurer/storefront-cart/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-cart/internal/domains/catalog/ports"
)

// Service exposes read access to the catalog plus seeding.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Product returns the product with the given id.
func (s *Service) Product(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, domain.ErrInvalidProductID
	}
	return s.repo.GetProduct(ctx, id)
}

// Stock returns the purchasable quantity for the given product id.
func (s *Service) Stock(ctx context.Context, id int64) (domain.StockLevel, error) {
	if id <= 0 {
		return domain.StockLevel{}, domain.ErrInvalidProductID
	}
	return s.repo.GetStock(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

// Seed upserts every entry after validating it.
func (s *Service) Seed(ctx context.Context, entries []domain.Entry) error {
	for _, entry := range entries {
		if err := entry.Product.Validate(); err != nil {
			return fmt.Errorf("seed product %d: %w", entry.Product.ID, err)
		}
		if err := (domain.StockLevel{ProductID: entry.Product.ID, Amount: entry.Stock}).Validate(); err != nil {
			return fmt.Errorf("seed stock %d: %w", entry.Product.ID, err)
		}
		if err := s.repo.Upsert(ctx, entry.Product, entry.Stock); err != nil {
			return fmt.Errorf("seed product %d: %w", entry.Product.ID, err)
		}
	}
	return nil
}
