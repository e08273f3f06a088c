package application

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/memory"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

type countingSnapshots struct {
	*cartmemory.SnapshotStore
	loads atomic.Int32
}

func (c *countingSnapshots) Load(ctx context.Context, key string) ([]byte, error) {
	c.loads.Add(1)
	return c.SnapshotStore.Load(ctx, key)
}

func TestProvider_RejectsInvalidCartID(t *testing.T) {
	p := NewProvider(newFakeCatalog(), newFakeCatalog(), cartmemory.NewSnapshotStore())
	_, err := p.Get(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, ports.ErrInvalidCartID)
}

func TestProvider_OpensOncePerCart(t *testing.T) {
	snapshots := &countingSnapshots{SnapshotStore: cartmemory.NewSnapshotStore()}
	p := NewProvider(newFakeCatalog(), newFakeCatalog(), snapshots)
	cartID := p.NewCartID()

	var wg sync.WaitGroup
	services := make([]ports.Service, 8)
	for i := range services {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc, err := p.Get(context.Background(), cartID)
			require.NoError(t, err)
			services[i] = svc
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), snapshots.loads.Load())
	for _, svc := range services {
		assert.Same(t, services[0], svc)
	}
}

func TestProvider_IsolatesCartsByKey(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.put(1, "runner", "10", 5)
	snapshots := cartmemory.NewSnapshotStore()
	p := NewProvider(catalog, catalog, snapshots, WithKeyPrefix("shop:cart"))
	ctx := context.Background()

	first, second := p.NewCartID(), p.NewCartID()
	svc, err := p.Get(ctx, first)
	require.NoError(t, err)
	svc.AddProduct(ctx, 1)

	other, err := p.Get(ctx, second)
	require.NoError(t, err)
	assert.Empty(t, other.Cart(ctx).Items)

	_, err = snapshots.Load(ctx, "shop:cart:"+first)
	require.NoError(t, err)
	assert.Equal(t, "shop:cart:"+second, p.SnapshotKey(second))
}

func TestProvider_RetriesAfterFailedOpen(t *testing.T) {
	p := NewProvider(newFakeCatalog(), newFakeCatalog(), brokenSnapshots{})
	cartID := uuid.NewString()

	_, err := p.Get(context.Background(), cartID)
	require.Error(t, err)
	_, err = p.Get(context.Background(), cartID)
	require.Error(t, err)
	assert.Empty(t, p.stores)
}

func TestProvider_AppliesDecorator(t *testing.T) {
	var decorated int
	p := NewProvider(newFakeCatalog(), newFakeCatalog(), cartmemory.NewSnapshotStore(),
		WithDecorator(func(svc ports.Service) ports.Service {
			decorated++
			return svc
		}))
	cartID := p.NewCartID()

	_, err := p.Get(context.Background(), cartID)
	require.NoError(t, err)
	_, err = p.Get(context.Background(), cartID)
	require.NoError(t, err)
	assert.Equal(t, 1, decorated)
}

// purgeableSnapshots stands in for a backend that expires or purges keys behind the provider.
type purgeableSnapshots struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func (p *purgeableSnapshots) Load(_ context.Context, key string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.blobs[key]
	if !ok {
		return nil, ports.ErrSnapshotNotFound
	}
	return data, nil
}

func (p *purgeableSnapshots) Save(_ context.Context, key string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (p *purgeableSnapshots) purge() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blobs = map[string][]byte{}
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestProvider_IdleCartReopensFromPurgedSnapshot(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.put(1, "runner", "10", 5)
	catalog.put(2, "trail", "20", 5)
	snapshots := &purgeableSnapshots{blobs: map[string][]byte{}}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	p := NewProvider(catalog, catalog, snapshots, WithIdleTimeout(time.Minute))
	p.now = clock.Now
	ctx := context.Background()
	cartID := p.NewCartID()

	svc, err := p.Get(ctx, cartID)
	require.NoError(t, err)
	svc.AddProduct(ctx, 1)

	snapshots.purge()
	clock.now = clock.now.Add(2 * time.Minute)

	svc, err = p.Get(ctx, cartID)
	require.NoError(t, err)
	svc.AddProduct(ctx, 2)

	data, err := snapshots.Load(ctx, p.SnapshotKey(cartID))
	require.NoError(t, err)
	cart, err := decodeSnapshot(data)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].ID)
}

func TestProvider_RecentlyUsedCartStaysOpen(t *testing.T) {
	snapshots := &countingSnapshots{SnapshotStore: cartmemory.NewSnapshotStore()}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	p := NewProvider(newFakeCatalog(), newFakeCatalog(), snapshots, WithIdleTimeout(time.Minute))
	p.now = clock.Now
	cartID := p.NewCartID()

	for i := 0; i < 5; i++ {
		_, err := p.Get(context.Background(), cartID)
		require.NoError(t, err)
		clock.now = clock.now.Add(30 * time.Second)
	}
	assert.Equal(t, int32(1), snapshots.loads.Load())
}

func TestProvider_SubscribedCartIsNotEvicted(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	p := NewProvider(newFakeCatalog(), newFakeCatalog(), cartmemory.NewSnapshotStore(), WithIdleTimeout(time.Minute))
	p.now = clock.Now
	cartID := p.NewCartID()

	first, err := p.Get(context.Background(), cartID)
	require.NoError(t, err)
	unsubscribe := first.Subscribe(func(domain.Cart) {})

	clock.now = clock.now.Add(time.Hour)
	again, err := p.Get(context.Background(), cartID)
	require.NoError(t, err)
	assert.Same(t, first, again)

	unsubscribe()
	clock.now = clock.now.Add(time.Hour)
	reopened, err := p.Get(context.Background(), cartID)
	require.NoError(t, err)
	assert.NotSame(t, first, reopened)
}

func TestProvider_BoundsOpenCarts(t *testing.T) {
	p := NewProvider(newFakeCatalog(), newFakeCatalog(), cartmemory.NewSnapshotStore(), WithMaxCarts(50))
	ctx := context.Background()

	kept := p.NewCartID()
	_, err := p.Get(ctx, kept)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		_, err := p.Get(ctx, uuid.NewString())
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, p.OpenCarts(), 50)
}
