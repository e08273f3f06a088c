package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// ErrProductMismatch is logged when the catalog answers with a different product than requested.
var ErrProductMismatch = errors.New("catalog returned a different product")

// Store holds one cart, mirrors it to a snapshot key and validates amounts against stock.
//
// Operations are not serialized against each other. Each one works on a copy of the cart taken
// at its start and commits the copy once every check passed, so concurrent callers may overwrite
// each other's changes (last commit wins). commitMu orders persist-and-swap so the snapshot and
// the in-memory cart agree; mu only guards the in-memory state and is never held across I/O.
type Store struct {
	key       string
	stock     ports.StockQuery
	products  ports.ProductLookup
	snapshots ports.SnapshotStore
	notifier  ports.Notifier
	logger    *slog.Logger

	commitMu     sync.Mutex
	mu           sync.RWMutex
	cart         domain.Cart
	listeners    map[int]func(domain.Cart)
	nextListener int
}

// Option configures optional Store collaborators.
type Option func(*Store)

// WithNotifier sets the sink for user-facing messages.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the logger used to record the causes behind failure notifications.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore wires a Store with an empty cart. Call Load to restore the persisted snapshot.
func NewStore(key string, stock ports.StockQuery, products ports.ProductLookup, snapshots ports.SnapshotStore, opts ...Option) *Store {
	s := &Store{
		key:       key,
		stock:     stock,
		products:  products,
		snapshots: snapshots,
		notifier:  ports.NoopNotifier,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		listeners: map[int]func(domain.Cart){},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// OpenStore builds a Store and restores its snapshot.
func OpenStore(ctx context.Context, key string, stock ports.StockQuery, products ports.ProductLookup, snapshots ports.SnapshotStore, opts ...Option) (*Store, error) {
	s := NewStore(key, stock, products, snapshots, opts...)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory cart with the persisted snapshot. A missing snapshot yields an
// empty cart; so does an undecodable one, which is logged and left in place until the next commit.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.snapshots.Load(ctx, s.key)
	if errors.Is(err, ports.ErrSnapshotNotFound) {
		s.replace(domain.Cart{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("load cart snapshot %q: %w", s.key, err)
	}
	cart, err := decodeSnapshot(data)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "discarding malformed cart snapshot",
			slog.String("cart.key", s.key), slog.String("error", err.Error()))
		cart = domain.Cart{}
	}
	s.replace(cart)
	return nil
}

// Key returns the snapshot key the store persists to.
func (s *Store) Key() string {
	return s.key
}

// Subscribers reports how many listeners are registered.
func (s *Store) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}

// Cart returns a copy of the current cart.
func (s *Store) Cart(_ context.Context) domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// AddProduct puts one more unit of the product in the cart, provided the stock covers it.
func (s *Store) AddProduct(ctx context.Context, productID int64) {
	next := s.Cart(ctx)
	_, inCart := next.Find(productID)
	desired := next.AmountOf(productID) + 1

	stock, err := s.stock.Stock(ctx, productID)
	if err != nil {
		s.fail(ctx, domain.KindAddFailed, productID, "stock query failed", err)
		return
	}
	if desired > stock.Amount {
		s.notify(ctx, domain.NewNotification(domain.KindOutOfStock, productID))
		return
	}

	if inCart {
		err = next.SetAmount(productID, desired)
	} else {
		var product domain.Product
		product, err = s.products.Product(ctx, productID)
		if err != nil {
			s.fail(ctx, domain.KindAddFailed, productID, "product lookup failed", err)
			return
		}
		if product.ID != productID {
			s.fail(ctx, domain.KindAddFailed, productID, "product lookup failed",
				fmt.Errorf("%w: got %d", ErrProductMismatch, product.ID))
			return
		}
		err = next.Append(product, 1)
	}
	if err != nil {
		s.fail(ctx, domain.KindAddFailed, productID, "cart rejected product", err)
		return
	}
	if err := s.commit(ctx, next); err != nil {
		s.fail(ctx, domain.KindAddFailed, productID, "cart commit failed", err)
	}
}

// RemoveProduct deletes the product's line item.
func (s *Store) RemoveProduct(ctx context.Context, productID int64) {
	next := s.Cart(ctx)
	if err := next.Remove(productID); err != nil {
		s.fail(ctx, domain.KindRemoveFailed, productID, "cart rejected removal", err)
		return
	}
	if err := s.commit(ctx, next); err != nil {
		s.fail(ctx, domain.KindRemoveFailed, productID, "cart commit failed", err)
	}
}

// UpdateProductAmount sets the product's amount. Amounts of zero or less are ignored.
func (s *Store) UpdateProductAmount(ctx context.Context, productID int64, amount int) {
	if amount <= 0 {
		return
	}
	stock, err := s.stock.Stock(ctx, productID)
	if err != nil {
		s.fail(ctx, domain.KindUpdateFailed, productID, "stock query failed", err)
		return
	}
	if amount > stock.Amount {
		s.notify(ctx, domain.NewNotification(domain.KindOutOfStock, productID))
		return
	}
	next := s.Cart(ctx)
	if err := next.SetAmount(productID, amount); err != nil {
		s.fail(ctx, domain.KindUpdateFailed, productID, "cart rejected amount", err)
		return
	}
	if err := s.commit(ctx, next); err != nil {
		s.fail(ctx, domain.KindUpdateFailed, productID, "cart commit failed", err)
	}
}

// Subscribe registers fn to receive a copy of the cart after each committed mutation. Listeners
// are called in commit order and must not mutate the store.
func (s *Store) Subscribe(fn func(domain.Cart)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// commit persists next and only then makes it the current cart. Readers are not blocked while
// the snapshot is saved.
func (s *Store) commit(ctx context.Context, next domain.Cart) error {
	data, err := encodeSnapshot(next)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	if err := s.snapshots.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("save cart snapshot %q: %w", s.key, err)
	}
	s.mu.Lock()
	s.cart = next.Clone()
	listeners := make([]func(domain.Cart), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next.Clone())
	}
	return nil
}

func (s *Store) replace(cart domain.Cart) {
	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()
}

func (s *Store) fail(ctx context.Context, kind domain.NotificationKind, productID int64, msg string, err error) {
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg,
		slog.String("cart.key", s.key),
		slog.Int64("product.id", productID),
		slog.String("notification.kind", string(kind)),
		slog.String("error", err.Error()),
	)
	s.notify(ctx, domain.NewNotification(kind, productID))
}

func (s *Store) notify(ctx context.Context, n domain.Notification) {
	s.notifier.Notify(ctx, n)
}

var _ ports.Service = (*Store)(nil)
