package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Hour), mr
}

func TestStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var c Cart
	c.Add(product("p1", "Crate", "10.00", nil), 2)
	require.NoError(t, store.Save(ctx, "co-1", "u-1", c))

	got, repaired, err := store.Load(ctx, "co-1", "u-1")
	require.NoError(t, err)
	require.False(t, repaired)
	require.Len(t, got.Lines, 1)
	require.EqualValues(t, 2, got.Lines[0].Qty)
	require.Equal(t, "10.00", got.Lines[0].Product.PriceExclTax.StringFixed(2))
}

func TestStoreLoadMissingReturnsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	got, repaired, err := store.Load(context.Background(), "co-1", "u-1")
	require.NoError(t, err)
	require.False(t, repaired)
	require.True(t, got.IsEmpty())
}

func TestStoreLoadCorruptSnapshotClears(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("cart:co-1:u-1", "{not json"))

	got, repaired, err := store.Load(ctx, "co-1", "u-1")
	require.NoError(t, err)
	require.True(t, repaired)
	require.True(t, got.IsEmpty())
	require.False(t, mr.Exists("cart:co-1:u-1"))
}

func TestStoreSaveEmptyDeletesKey(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	var c Cart
	c.Add(product("p1", "Crate", "10.00", nil), 1)
	require.NoError(t, store.Save(ctx, "co-1", "u-1", c))
	require.True(t, mr.Exists("cart:co-1:u-1"))

	require.NoError(t, store.Save(ctx, "co-1", "u-1", Cart{}))
	require.False(t, mr.Exists("cart:co-1:u-1"))
}

func TestStoreKeysAreScopedPerUser(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var c Cart
	c.Add(product("p1", "Crate", "10.00", nil), 1)
	require.NoError(t, store.Save(ctx, "co-1", "u-1", c))

	other, _, err := store.Load(ctx, "co-1", "u-2")
	require.NoError(t, err)
	require.True(t, other.IsEmpty())
}
