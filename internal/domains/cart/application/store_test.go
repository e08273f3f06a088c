package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/memory"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

const testKey = DefaultKeyPrefix + ":test"

type fakeCatalog struct {
	mu         sync.Mutex
	stock      map[int64]int
	products   map[int64]domain.Product
	stockErr   error
	productErr error
	calls      []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{stock: map[int64]int{}, products: map[int64]domain.Product{}}
}

func (f *fakeCatalog) put(id int64, title, price string, stock int) {
	f.products[id] = domain.Product{ID: id, Title: title, Price: decimal.RequireFromString(price), Image: "https://example.com/" + title + ".jpg"}
	f.stock[id] = stock
}

func (f *fakeCatalog) Stock(_ context.Context, productID int64) (domain.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "stock")
	if f.stockErr != nil {
		return domain.Stock{}, f.stockErr
	}
	amount, ok := f.stock[productID]
	if !ok {
		return domain.Stock{}, ports.ErrProductNotFound
	}
	return domain.Stock{ProductID: productID, Amount: amount}, nil
}

func (f *fakeCatalog) Product(_ context.Context, productID int64) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "product")
	if f.productErr != nil {
		return domain.Product{}, f.productErr
	}
	p, ok := f.products[productID]
	if !ok {
		return domain.Product{}, ports.ErrProductNotFound
	}
	return p, nil
}

type recorder struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (r *recorder) Notify(_ context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recorder) kinds() []domain.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]domain.NotificationKind, 0, len(r.items))
	for _, n := range r.items {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

type failingSnapshots struct {
	*cartmemory.SnapshotStore
	saveErr error
}

func (f *failingSnapshots) Save(ctx context.Context, key string, data []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.SnapshotStore.Save(ctx, key, data)
}

type fixture struct {
	catalog   *fakeCatalog
	snapshots *cartmemory.SnapshotStore
	notes     *recorder
	store     *Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog := newFakeCatalog()
	catalog.put(1, "runner", "179.90", 3)
	catalog.put(2, "trail", "139.90", 5)
	catalog.put(3, "court", "219.90", 0)
	snapshots := cartmemory.NewSnapshotStore()
	notes := &recorder{}
	store, err := OpenStore(context.Background(), testKey, catalog, catalog, snapshots, WithNotifier(notes))
	require.NoError(t, err)
	return &fixture{catalog: catalog, snapshots: snapshots, notes: notes, store: store}
}

func (f *fixture) reload(t *testing.T) domain.Cart {
	t.Helper()
	reopened, err := OpenStore(context.Background(), testKey, f.catalog, f.catalog, f.snapshots)
	require.NoError(t, err)
	return reopened.Cart(context.Background())
}

func requireSameCart(t *testing.T, want, got domain.Cart) {
	t.Helper()
	require.Len(t, got.Items, len(want.Items))
	for i := range want.Items {
		assert.Equal(t, want.Items[i].ID, got.Items[i].ID)
		assert.Equal(t, want.Items[i].Title, got.Items[i].Title)
		assert.Equal(t, want.Items[i].Image, got.Items[i].Image)
		assert.Equal(t, want.Items[i].Amount, got.Items[i].Amount)
		assert.True(t, want.Items[i].Price.Equal(got.Items[i].Price), "price of item %d", i)
	}
}

func TestAddProduct_NewProductStartsAtOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.AddProduct(ctx, 1)

	cart := f.store.Cart(ctx)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(1), cart.Items[0].ID)
	assert.Equal(t, "runner", cart.Items[0].Title)
	assert.Equal(t, 1, cart.Items[0].Amount)
	assert.Empty(t, f.notes.kinds())
	assert.Equal(t, []string{"stock", "product"}, f.catalog.calls)
}

func TestAddProduct_IncrementsBoundedByStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f.store.AddProduct(ctx, 1)
	}
	assert.Equal(t, 3, f.store.Cart(ctx).AmountOf(1))
	assert.Empty(t, f.notes.kinds())

	f.store.AddProduct(ctx, 1)
	assert.Equal(t, 3, f.store.Cart(ctx).AmountOf(1))
	assert.Equal(t, []domain.NotificationKind{domain.KindOutOfStock}, f.notes.kinds())
}

func TestAddProduct_ExistingItemSkipsLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.AddProduct(ctx, 2)
	f.catalog.calls = nil
	f.store.AddProduct(ctx, 2)

	assert.Equal(t, []string{"stock"}, f.catalog.calls)
	assert.Equal(t, 2, f.store.Cart(ctx).AmountOf(2))
}

func TestAddProduct_OutOfStockLeavesCartUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddProduct(ctx, 1)

	f.store.AddProduct(ctx, 3)

	cart := f.store.Cart(ctx)
	require.Len(t, cart.Items, 1)
	_, found := cart.Find(3)
	assert.False(t, found)
	assert.Equal(t, []domain.NotificationKind{domain.KindOutOfStock}, f.notes.kinds())
	assert.Equal(t, domain.KindOutOfStock.Message(), f.notes.items[0].Message)
	assert.Equal(t, int64(3), f.notes.items[0].ProductID)
}

func TestAddProduct_FailuresReportAddFailed(t *testing.T) {
	cases := map[string]func(f *fixture){
		"stock error":     func(f *fixture) { f.catalog.stockErr = errors.New("connection refused") },
		"product error":   func(f *fixture) { f.catalog.productErr = errors.New("timeout") },
		"unknown product": func(f *fixture) { f.catalog.stock[99] = 10 },
		"mismatched product": func(f *fixture) {
			f.catalog.stock[42] = 10
			f.catalog.products[42] = domain.Product{ID: 7, Title: "other"}
		},
	}
	for name, arrange := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			arrange(f)

			productID := int64(1)
			if name == "unknown product" {
				productID = 99
			}
			if name == "mismatched product" {
				productID = 42
			}
			f.store.AddProduct(ctx, productID)

			assert.Empty(t, f.store.Cart(ctx).Items)
			assert.Equal(t, []domain.NotificationKind{domain.KindAddFailed}, f.notes.kinds())
			_, err := f.snapshots.Load(ctx, testKey)
			require.ErrorIs(t, err, ports.ErrSnapshotNotFound)
		})
	}
}

func TestAddProduct_SaveFailureLeavesCartUnchanged(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.put(1, "runner", "10", 5)
	snapshots := &failingSnapshots{SnapshotStore: cartmemory.NewSnapshotStore()}
	notes := &recorder{}
	store := NewStore(testKey, catalog, catalog, snapshots, WithNotifier(notes))
	ctx := context.Background()

	store.AddProduct(ctx, 1)
	snapshots.saveErr = errors.New("quota exceeded")
	store.AddProduct(ctx, 1)

	assert.Equal(t, 1, store.Cart(ctx).AmountOf(1))
	assert.Equal(t, []domain.NotificationKind{domain.KindAddFailed}, notes.kinds())
}

func newFailingStore(t *testing.T) (*Store, *failingSnapshots, *recorder) {
	t.Helper()
	catalog := newFakeCatalog()
	catalog.put(1, "runner", "10", 5)
	catalog.put(2, "trail", "20", 5)
	snapshots := &failingSnapshots{SnapshotStore: cartmemory.NewSnapshotStore()}
	notes := &recorder{}
	store := NewStore(testKey, catalog, catalog, snapshots, WithNotifier(notes))
	ctx := context.Background()
	store.AddProduct(ctx, 1)
	store.AddProduct(ctx, 2)
	require.Empty(t, notes.kinds())
	return store, snapshots, notes
}

func TestRemoveProduct_SaveFailureLeavesCartUnchanged(t *testing.T) {
	store, snapshots, notes := newFailingStore(t)
	ctx := context.Background()
	before := store.Cart(ctx)
	persisted, err := snapshots.Load(ctx, testKey)
	require.NoError(t, err)

	snapshots.saveErr = errors.New("connection reset")
	store.RemoveProduct(ctx, 1)

	requireSameCart(t, before, store.Cart(ctx))
	assert.Equal(t, []domain.NotificationKind{domain.KindRemoveFailed}, notes.kinds())
	after, err := snapshots.Load(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, persisted, after)
}

func TestUpdateProductAmount_SaveFailureLeavesCartUnchanged(t *testing.T) {
	store, snapshots, notes := newFailingStore(t)
	ctx := context.Background()
	before := store.Cart(ctx)
	persisted, err := snapshots.Load(ctx, testKey)
	require.NoError(t, err)

	snapshots.saveErr = errors.New("connection reset")
	store.UpdateProductAmount(ctx, 2, 4)

	requireSameCart(t, before, store.Cart(ctx))
	assert.Equal(t, 1, store.Cart(ctx).AmountOf(2))
	assert.Equal(t, []domain.NotificationKind{domain.KindUpdateFailed}, notes.kinds())
	after, err := snapshots.Load(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, persisted, after)
}

type blockingSnapshots struct {
	*cartmemory.SnapshotStore
	saving  chan struct{}
	release chan struct{}
}

func (b *blockingSnapshots) Save(ctx context.Context, key string, data []byte) error {
	close(b.saving)
	<-b.release
	return b.SnapshotStore.Save(ctx, key, data)
}

func TestCart_ReadableWhileSnapshotIsSaved(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.put(1, "runner", "10", 5)
	snapshots := &blockingSnapshots{
		SnapshotStore: cartmemory.NewSnapshotStore(),
		saving:        make(chan struct{}),
		release:       make(chan struct{}),
	}
	store := NewStore(testKey, catalog, catalog, snapshots)
	ctx := context.Background()

	added := make(chan struct{})
	go func() {
		defer close(added)
		store.AddProduct(ctx, 1)
	}()
	<-snapshots.saving

	read := make(chan domain.Cart, 1)
	go func() { read <- store.Cart(ctx) }()
	select {
	case cart := <-read:
		assert.Empty(t, cart.Items)
	case <-time.After(time.Second):
		t.Fatal("Cart blocked on an in-flight save")
	}

	close(snapshots.release)
	<-added
	assert.Equal(t, 1, store.Cart(ctx).AmountOf(1))
}

func TestRemoveProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddProduct(ctx, 1)
	f.store.AddProduct(ctx, 2)
	f.store.AddProduct(ctx, 2)

	f.store.RemoveProduct(ctx, 1)

	cart := f.store.Cart(ctx)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].ID)
	assert.Equal(t, 2, cart.Items[0].Amount)
	assert.Empty(t, f.notes.kinds())
	requireSameCart(t, cart, f.reload(t))
}

func TestRemoveProduct_AbsentReportsRemoveFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddProduct(ctx, 2)

	f.store.RemoveProduct(ctx, 1)

	require.Len(t, f.store.Cart(ctx).Items, 1)
	assert.Equal(t, []domain.NotificationKind{domain.KindRemoveFailed}, f.notes.kinds())
}

func TestUpdateProductAmount_NonPositiveIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddProduct(ctx, 2)
	f.catalog.calls = nil

	f.store.UpdateProductAmount(ctx, 2, 0)
	f.store.UpdateProductAmount(ctx, 2, -3)
	f.store.UpdateProductAmount(ctx, 404, 0)

	assert.Equal(t, 1, f.store.Cart(ctx).AmountOf(2))
	assert.Empty(t, f.catalog.calls)
	assert.Empty(t, f.notes.kinds())
}

func TestUpdateProductAmount_SetsAmountWithinStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddProduct(ctx, 2)

	f.store.UpdateProductAmount(ctx, 2, 5)

	assert.Equal(t, 5, f.store.Cart(ctx).AmountOf(2))
	assert.Empty(t, f.notes.kinds())
	assert.Equal(t, 5, f.reload(t).AmountOf(2))
}

func TestUpdateProductAmount_OverStockLeavesAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddProduct(ctx, 2)

	f.store.UpdateProductAmount(ctx, 2, 6)

	assert.Equal(t, 1, f.store.Cart(ctx).AmountOf(2))
	assert.Equal(t, []domain.NotificationKind{domain.KindOutOfStock}, f.notes.kinds())
}

func TestUpdateProductAmount_AbsentChecksStockFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.UpdateProductAmount(ctx, 1, 2)

	assert.Equal(t, []string{"stock"}, f.catalog.calls)
	assert.Empty(t, f.store.Cart(ctx).Items)
	assert.Equal(t, []domain.NotificationKind{domain.KindUpdateFailed}, f.notes.kinds())
}

func TestUpdateProductAmount_StockErrorReportsUpdateFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddProduct(ctx, 1)
	f.catalog.stockErr = errors.New("503")

	f.store.UpdateProductAmount(ctx, 1, 2)

	assert.Equal(t, 1, f.store.Cart(ctx).AmountOf(1))
	assert.Equal(t, []domain.NotificationKind{domain.KindUpdateFailed}, f.notes.kinds())
}

func TestSnapshot_RoundTripAfterEveryMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mutations := []func(){
		func() { f.store.AddProduct(ctx, 1) },
		func() { f.store.AddProduct(ctx, 2) },
		func() { f.store.AddProduct(ctx, 1) },
		func() { f.store.UpdateProductAmount(ctx, 2, 4) },
		func() { f.store.RemoveProduct(ctx, 1) },
	}
	for _, mutate := range mutations {
		mutate()
		requireSameCart(t, f.store.Cart(ctx), f.reload(t))
	}
	assert.Empty(t, f.notes.kinds())
}

func TestLoad_MalformedSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	snapshots := cartmemory.NewSnapshotStore()
	require.NoError(t, snapshots.Save(ctx, testKey, []byte(`{not json`)))

	store, err := OpenStore(ctx, testKey, newFakeCatalog(), newFakeCatalog(), snapshots)
	require.NoError(t, err)
	assert.Empty(t, store.Cart(ctx).Items)
}

func TestLoad_RestoresPersistedItems(t *testing.T) {
	ctx := context.Background()
	snapshots := cartmemory.NewSnapshotStore()
	raw := `[{"id":2,"title":"trail","price":139.9,"image":"https://example.com/trail.jpg","amount":2}]`
	require.NoError(t, snapshots.Save(ctx, testKey, []byte(raw)))

	store, err := OpenStore(ctx, testKey, newFakeCatalog(), newFakeCatalog(), snapshots)
	require.NoError(t, err)
	cart := store.Cart(ctx)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Amount)
	assert.True(t, decimal.RequireFromString("139.9").Equal(cart.Items[0].Price))
}

type brokenSnapshots struct{}

func (brokenSnapshots) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk unavailable")
}
func (brokenSnapshots) Save(context.Context, string, []byte) error { return nil }

func TestOpenStore_BackendErrorIsReturned(t *testing.T) {
	_, err := OpenStore(context.Background(), testKey, newFakeCatalog(), newFakeCatalog(), brokenSnapshots{})
	require.Error(t, err)
}

func TestSubscribe_PublishesCommittedCarts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var published []domain.Cart
	unsubscribe := f.store.Subscribe(func(c domain.Cart) { published = append(published, c) })

	f.store.AddProduct(ctx, 1)
	f.store.AddProduct(ctx, 3) // out of stock, nothing published
	f.store.RemoveProduct(ctx, 1)
	unsubscribe()
	f.store.AddProduct(ctx, 2)

	require.Len(t, published, 2)
	assert.Equal(t, 1, published[0].Size())
	assert.Equal(t, 0, published[1].Size())
}
