package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

const (
	// DefaultIdleTimeout is how long an unused cart stays open before it is reopened from its snapshot.
	DefaultIdleTimeout = 30 * time.Minute
	// DefaultMaxCarts bounds the number of open carts.
	DefaultMaxCarts = 10000
)

// Provider opens one Store per cart id on first access and shares it afterwards.
//
// A cart left unused for the idle timeout is closed and reopened from its snapshot on the next
// access, so snapshots expired or purged in the backend are not resurrected by a stale copy.
// Carts with active subscribers stay open.
type Provider struct {
	prefix    string
	stock     ports.StockQuery
	products  ports.ProductLookup
	snapshots ports.SnapshotStore
	storeOpts []Option
	decorate  func(ports.Service) ports.Service
	logger    *slog.Logger

	idleTimeout time.Duration
	maxCarts    int
	now         func() time.Time

	mu     sync.Mutex
	stores map[string]*providerEntry
}

type providerEntry struct {
	ready    chan struct{}
	svc      ports.Service
	store    *Store
	err      error
	lastUsed time.Time
}

// evictable reports whether the entry finished opening and has no subscribers.
func (e *providerEntry) evictable() bool {
	select {
	case <-e.ready:
	default:
		return false
	}
	return e.store == nil || e.store.Subscribers() == 0
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) ProviderOption {
	return func(p *Provider) {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			p.prefix = prefix
		}
	}
}

// WithStoreOptions applies opts to every Store the provider opens.
func WithStoreOptions(opts ...Option) ProviderOption {
	return func(p *Provider) {
		p.storeOpts = append(p.storeOpts, opts...)
	}
}

// WithDecorator wraps each opened Store, e.g. with tracing.
func WithDecorator(decorate func(ports.Service) ports.Service) ProviderOption {
	return func(p *Provider) {
		p.decorate = decorate
	}
}

// WithProviderLogger sets the logger used for open events.
func WithProviderLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithIdleTimeout overrides DefaultIdleTimeout. Zero or less keeps carts open until evicted by
// the cap.
func WithIdleTimeout(d time.Duration) ProviderOption {
	return func(p *Provider) {
		p.idleTimeout = d
	}
}

// WithMaxCarts overrides DefaultMaxCarts.
func WithMaxCarts(n int) ProviderOption {
	return func(p *Provider) {
		if n > 0 {
			p.maxCarts = n
		}
	}
}

// NewProvider wires the collaborators shared by every cart.
func NewProvider(stock ports.StockQuery, products ports.ProductLookup, snapshots ports.SnapshotStore, opts ...ProviderOption) *Provider {
	p := &Provider{
		prefix:    DefaultKeyPrefix,
		stock:     stock,
		products:  products,
		snapshots: snapshots,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),

		idleTimeout: DefaultIdleTimeout,
		maxCarts:    DefaultMaxCarts,
		now:         time.Now,
		stores:      map[string]*providerEntry{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// NewCartID returns a fresh random cart id.
func (p *Provider) NewCartID() string {
	return uuid.NewString()
}

// SnapshotKey is the key a cart id persists under.
func (p *Provider) SnapshotKey(cartID string) string {
	return p.prefix + ":" + cartID
}

// Get returns the store for cartID, opening it if this is the first access or the cart sat idle.
// Concurrent first accesses share a single open; a failed open is forgotten so the next call retries.
func (p *Provider) Get(ctx context.Context, cartID string) (ports.Service, error) {
	id, err := uuid.Parse(strings.TrimSpace(cartID))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ports.ErrInvalidCartID, cartID)
	}
	cartID = id.String()
	now := p.now()

	p.mu.Lock()
	entry, ok := p.stores[cartID]
	if ok && p.idle(entry, now) && entry.evictable() {
		delete(p.stores, cartID)
		ok = false
	}
	if ok {
		entry.lastUsed = now
		p.mu.Unlock()
	} else {
		p.evictLocked(now)
		entry = &providerEntry{ready: make(chan struct{}), lastUsed: now}
		p.stores[cartID] = entry
		p.mu.Unlock()

		entry.svc, entry.store, entry.err = p.open(ctx, cartID)
		if entry.err != nil {
			p.mu.Lock()
			if p.stores[cartID] == entry {
				delete(p.stores, cartID)
			}
			p.mu.Unlock()
		}
		close(entry.ready)
	}

	select {
	case <-entry.ready:
		return entry.svc, entry.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// OpenCarts reports how many carts are currently held open.
func (p *Provider) OpenCarts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stores)
}

func (p *Provider) idle(entry *providerEntry, now time.Time) bool {
	return p.idleTimeout > 0 && now.Sub(entry.lastUsed) > p.idleTimeout
}

// evictLocked drops idle carts and, when the cap is still reached, the least recently used ones.
func (p *Provider) evictLocked(now time.Time) {
	if len(p.stores) < p.maxCarts {
		return
	}
	for id, entry := range p.stores {
		if p.idle(entry, now) && entry.evictable() {
			delete(p.stores, id)
		}
	}
	for len(p.stores) >= p.maxCarts {
		var (
			oldestID string
			oldest   *providerEntry
		)
		for id, entry := range p.stores {
			if !entry.evictable() {
				continue
			}
			if oldest == nil || entry.lastUsed.Before(oldest.lastUsed) {
				oldestID, oldest = id, entry
			}
		}
		if oldest == nil {
			return
		}
		delete(p.stores, oldestID)
	}
}

func (p *Provider) open(ctx context.Context, cartID string) (ports.Service, *Store, error) {
	key := p.SnapshotKey(cartID)
	store, err := OpenStore(ctx, key, p.stock, p.products, p.snapshots, p.storeOpts...)
	if err != nil {
		p.logger.LogAttrs(ctx, slog.LevelError, "failed to open cart", slog.String("cart.id", cartID), slog.String("error", err.Error()))
		return nil, nil, err
	}
	p.logger.LogAttrs(ctx, slog.LevelInfo, "cart opened",
		slog.String("cart.id", cartID), slog.String("cart.key", store.Key()), slog.Int("cart.size", store.Cart(ctx).Size()))
	var svc ports.Service = store
	if p.decorate != nil {
		svc = p.decorate(svc)
	}
	return svc, store, nil
}

var _ ports.Provider = (*Provider)(nil)
