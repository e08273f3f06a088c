package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/storefront-cart/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-cart/internal/domains/catalog/ports"
)

// Repository keeps the catalog in process memory.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	stock    map[int64]int
}

func NewRepository() *Repository {
	return &Repository{
		products: make(map[int64]domain.Product),
		stock:    make(map[int64]int),
	}
}

func (r *Repository) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, ports.ErrNotFound
	}
	return product, nil
}

func (r *Repository) GetStock(_ context.Context, id int64) (domain.StockLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	amount, ok := r.stock[id]
	if !ok {
		return domain.StockLevel{}, ports.ErrNotFound
	}
	return domain.StockLevel{ProductID: id, Amount: amount}, nil
}

func (r *Repository) ListProducts(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		out = append(out, product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) Upsert(_ context.Context, product domain.Product, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	r.stock[product.ID] = stock
	return nil
}

var _ ports.Repository = (*Repository)(nil)
