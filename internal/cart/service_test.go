package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Hectotor/Inventory-web-sub000/internal/catalog"
)

type fakeProducts struct {
	byID map[string]catalog.Product
}

func (f *fakeProducts) Get(_ context.Context, id string) (catalog.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) GetMany(_ context.Context, ids []string) (map[string]catalog.Product, error) {
	out := make(map[string]catalog.Product, len(ids))
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func newTestService(t *testing.T, products ...catalog.Product) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return NewService(NewStore(client, time.Hour), &fakeProducts{byID: byID}), mr
}

func TestServiceAddItemUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), "co-1", "u-1", "nope", 1)
	require.ErrorIs(t, err, ErrProductUnavailable)
}

func TestServiceAddItemInactiveProduct(t *testing.T) {
	p := product("p1", "Crate", "10.00", nil)
	p.Active = false
	svc, _ := newTestService(t, p)

	_, err := svc.AddItem(context.Background(), "co-1", "u-1", "p1", 1)
	require.ErrorIs(t, err, ErrProductUnavailable)
}

func TestServiceGetDropsStaleLinesAndRepersists(t *testing.T) {
	kept := product("p1", "Crate", "10.00", nil)
	gone := product("p2", "Pallet", "5.00", nil)
	svc, _ := newTestService(t, kept, gone)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "co-1", "u-1", "p1", 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "co-1", "u-1", "p2", 1)
	require.NoError(t, err)

	// p2 disappears from the catalog after it was carted.
	src := svc.Products.(*fakeProducts)
	delete(src.byID, "p2")

	got, err := svc.Get(ctx, "co-1", "u-1")
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	require.Equal(t, "p1", got.Lines[0].Product.ID)

	// The pruned snapshot was written back.
	again, err := svc.Get(ctx, "co-1", "u-1")
	require.NoError(t, err)
	require.Len(t, again.Lines, 1)
}

func TestServiceGetRefreshesPrices(t *testing.T) {
	p := product("p1", "Crate", "10.00", nil)
	svc, _ := newTestService(t, p)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "co-1", "u-1", "p1", 1)
	require.NoError(t, err)

	src := svc.Products.(*fakeProducts)
	updated := product("p1", "Crate", "12.50", nil)
	src.byID["p1"] = updated

	got, err := svc.Get(ctx, "co-1", "u-1")
	require.NoError(t, err)
	require.Equal(t, "12.50", got.Lines[0].Product.PriceExclTax.StringFixed(2))
}

func TestServiceSetQuantityZeroClearsKey(t *testing.T) {
	p := product("p1", "Crate", "10.00", nil)
	svc, mr := newTestService(t, p)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "co-1", "u-1", "p1", 1)
	require.NoError(t, err)

	got, err := svc.SetQuantity(ctx, "co-1", "u-1", "p1", 0)
	require.NoError(t, err)
	require.True(t, got.IsEmpty())
	require.False(t, mr.Exists("cart:co-1:u-1"))
}
