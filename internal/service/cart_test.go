package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linemk/marketplace-shop/internal/domain/errs"
	"github.com/linemk/marketplace-shop/internal/domain/models"
	"github.com/linemk/marketplace-shop/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddItemPersists(t *testing.T) {
	store := newCartStore()
	products := newFakeProductRepo(product("p1", "s1", "10.00", 3))
	svc := service.NewCartService(newTestLogger(), store, products)
	ctx := context.Background()

	c, err := svc.AddItem(ctx, buyer, "p1")
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Lines[0].Quantity)
	assert.Equal(t, 3, c.Lines[0].MaxQuantity)

	// изменение видно при следующей загрузке
	saved := store.Load(ctx, store.Key(buyer.ID))
	line, ok := saved.Line("p1")
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
	assert.True(t, line.Price.Equal(c.Lines[0].Price))
}

func TestCartService_AddItemCapsAtStock(t *testing.T) {
	store := newCartStore()
	svc := service.NewCartService(newTestLogger(), store, newFakeProductRepo(product("p1", "s1", "10.00", 2)))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.AddItem(ctx, buyer, "p1")
		require.NoError(t, err)
	}

	c, err := svc.Get(ctx, buyer)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestCartService_AddItemOutOfStock(t *testing.T) {
	store := newCartStore()
	svc := service.NewCartService(newTestLogger(), store, newFakeProductRepo(product("p1", "s1", "10.00", 0)))

	_, err := svc.AddItem(context.Background(), buyer, "p1")
	assert.ErrorIs(t, err, errs.ErrValidation)

	c, err := svc.Get(context.Background(), buyer)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartService_AddItemUnknownProduct(t *testing.T) {
	svc := service.NewCartService(newTestLogger(), newCartStore(), newFakeProductRepo())

	_, err := svc.AddItem(context.Background(), buyer, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCartService_AddItemCatalogFailure(t *testing.T) {
	products := newFakeProductRepo()
	products.err = errors.New("db down")
	svc := service.NewCartService(newTestLogger(), newCartStore(), products)

	_, err := svc.AddItem(context.Background(), buyer, "p1")
	assert.ErrorIs(t, err, errs.ErrPersistence)
}

func TestCartService_NonBuyerRejected(t *testing.T) {
	store := newCartStore()
	products := newFakeProductRepo(product("p1", "s1", "10.00", 3))
	svc := service.NewCartService(newTestLogger(), store, products)
	ctx := context.Background()

	for _, v := range []models.Viewer{seller, admin, {Role: models.RoleBuyer}} {
		_, err := svc.AddItem(ctx, v, "p1")
		assert.ErrorIs(t, err, errs.ErrUnauthorized)

		_, err = svc.Get(ctx, v)
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	}
	assert.Zero(t, products.calls)
}

func TestCartService_SetQuantityRemoveClear(t *testing.T) {
	store := newCartStore()
	p1 := product("p1", "s1", "10.00", 5)
	p2 := product("p2", "s2", "5.00", 5)
	seedCart(t, store, buyer.ID, p1, 1)
	seedCart(t, store, buyer.ID, p2, 1)

	svc := service.NewCartService(newTestLogger(), store, newFakeProductRepo(p1, p2))
	ctx := context.Background()

	c, err := svc.SetQuantity(ctx, buyer, "p1", 9)
	require.NoError(t, err)
	line, _ := c.Line("p1")
	assert.Equal(t, 5, line.Quantity)

	// количество меньше 1 игнорируется
	c, err = svc.SetQuantity(ctx, buyer, "p1", 0)
	require.NoError(t, err)
	line, _ = c.Line("p1")
	assert.Equal(t, 5, line.Quantity)

	c, err = svc.RemoveItem(ctx, buyer, "p1")
	require.NoError(t, err)
	_, ok := c.Line("p1")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c, err = svc.Clear(ctx, buyer)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.True(t, store.Load(ctx, store.Key(buyer.ID)).IsEmpty())
}

func TestCartService_CartsAreIsolatedPerBuyer(t *testing.T) {
	store := newCartStore()
	svc := service.NewCartService(newTestLogger(), store, newFakeProductRepo(product("p1", "s1", "10.00", 3)))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, buyer, "p1")
	require.NoError(t, err)

	other, err := svc.Get(ctx, models.Viewer{ID: "b2", Role: models.RoleBuyer})
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}

func TestCartService_RefreshAppliesStock(t *testing.T) {
	store := newCartStore()
	p1 := product("p1", "s1", "10.00", 5)
	p2 := product("p2", "s2", "5.00", 5)
	seedCart(t, store, buyer.ID, p1, 3)
	seedCart(t, store, buyer.ID, p2, 1)

	products := newFakeProductRepo(p1, p2)
	products.products["p1"].Quantity = 2
	delete(products.products, "p2")
	svc := service.NewCartService(newTestLogger(), store, products)

	c, err := svc.Refresh(context.Background(), buyer)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	line, ok := c.Line("p1")
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 2, line.MaxQuantity)
	assert.Equal(t, c, store.Load(context.Background(), store.Key(buyer.ID)))
}

func TestCartService_RefreshEmptyCartSkipsStock(t *testing.T) {
	products := newFakeProductRepo()
	products.err = errors.New("db down")
	svc := service.NewCartService(newTestLogger(), newCartStore(), products)

	c, err := svc.Refresh(context.Background(), buyer)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartService_RefreshFailures(t *testing.T) {
	store := newCartStore()
	p1 := product("p1", "s1", "10.00", 5)
	seedCart(t, store, buyer.ID, p1, 2)
	products := newFakeProductRepo(p1)
	svc := service.NewCartService(newTestLogger(), store, products)

	_, err := svc.Refresh(context.Background(), seller)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	products.err = errors.New("db down")
	_, err = svc.Refresh(context.Background(), buyer)
	assert.ErrorIs(t, err, errs.ErrPersistence)
	assert.Equal(t, 2, store.Load(context.Background(), store.Key(buyer.ID)).Lines[0].Quantity)
}

func TestCartService_CancelledCallerDoesNotFailSharedLookup(t *testing.T) {
	store := newCartStore()
	products := newFakeProductRepo(product("p1", "s1", "10.00", 3))
	products.entered = make(chan struct{}, 1)
	products.release = make(chan struct{})
	svc := service.NewCartService(newTestLogger(), store, products)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.AddItem(ctx, buyer, "p1")
		firstErr <- err
	}()

	<-products.entered
	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	other := models.Viewer{ID: "b2", Role: models.RoleBuyer}
	secondErr := make(chan error, 1)
	go func() {
		_, err := svc.AddItem(context.Background(), other, "p1")
		secondErr <- err
	}()
	close(products.release)

	require.NoError(t, <-secondErr)
	c, err := svc.Get(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	assert.True(t, store.Load(context.Background(), store.Key(buyer.ID)).IsEmpty())
}
