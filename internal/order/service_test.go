package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Hectotor/Inventory-web-sub000/internal/cart"
	"github.com/Hectotor/Inventory-web-sub000/internal/catalog"
	"github.com/Hectotor/Inventory-web-sub000/internal/common"
	"github.com/Hectotor/Inventory-web-sub000/internal/money"
	"github.com/Hectotor/Inventory-web-sub000/internal/user"
)

func rate(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestEffectiveRateExemptCustomer(t *testing.T) {
	customer := user.User{TaxExempt: true, TaxRate: rate("10")}
	require.True(t, effectiveRate(customer).IsZero())
}

func TestEffectiveRateCustomerRate(t *testing.T) {
	customer := user.User{TaxRate: rate("5.5")}
	require.Equal(t, "5.5", effectiveRate(customer).String())
}

func TestEffectiveRateDefaultsWhenUnset(t *testing.T) {
	require.Equal(t, "20", effectiveRate(user.User{}).String())
}

func TestLinePricingMatchesLifecycleTotals(t *testing.T) {
	// Two products at the default rate: 3 x 10.00 plus 1 x 5.00 comes to
	// 35.00 excl tax and 42.00 incl tax.
	r := effectiveRate(user.User{})

	a := money.LineTotal(decimal.RequireFromString("10.00"), r, 3)
	b := money.LineTotal(decimal.RequireFromString("5.00"), r, 1)

	o := Order{Lines: []Line{
		{TotalExclTax: a.LineExclTax, TotalInclTax: a.LineInclTax},
		{TotalExclTax: b.LineExclTax, TotalInclTax: b.LineInclTax},
	}}
	require.Equal(t, "35.00", o.TotalExclTax().StringFixed(2))
	require.Equal(t, "42.00", o.TotalInclTax().StringFixed(2))
}

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

type fakeCustomers struct {
	byID map[string]user.User
}

func (f *fakeCustomers) Get(_ context.Context, id string) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

type fakeStore struct {
	created   []Order
	createErr error
}

func (f *fakeStore) Create(_ context.Context, o Order) (Order, error) {
	if f.createErr != nil {
		return Order{}, f.createErr
	}
	o.ID = "ord-1"
	o.Status = StatusPreparation
	f.created = append(f.created, o)
	return o, nil
}

func (f *fakeStore) Get(_ context.Context, _ string) (Order, error) { return Order{}, ErrNotFound }

func (f *fakeStore) List(_ context.Context, _ common.Pagination, _ ListFilter) ([]Order, error) {
	return nil, nil
}

func (f *fakeStore) ListStatuses(_ context.Context, _ ListFilter) ([]Status, error) {
	return nil, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, _ string, _ Status) (Order, Status, error) {
	return Order{}, "", ErrNotFound
}

func newPlacementService(t *testing.T, store *fakeStore, customers map[string]user.User, products ...catalog.Product) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	carts := cart.NewService(cart.NewStore(client, time.Hour), &fakeProducts{byID: byID})
	return &Service{
		Repo:      store,
		Carts:     carts,
		Customers: &fakeCustomers{byID: customers},
	}
}

func activeProduct(id, name, price string) catalog.Product {
	return catalog.Product{
		ID:           id,
		Name:         name,
		PriceExclTax: decimal.RequireFromString(price),
		Active:       true,
	}
}

func TestPlaceFreezesLinesAndClearsCart(t *testing.T) {
	store := &fakeStore{}
	svc := newPlacementService(t, store,
		map[string]user.User{"u-1": {ID: "u-1", Role: common.RoleCustomer}},
		activeProduct("p-1", "Crate", "10.00"),
		activeProduct("p-2", "Pallet", "5.00"),
	)
	id := common.Identity{UserID: "u-1", CompanyID: "co-1", Role: common.RoleCustomer}

	_, err := svc.Carts.AddItem(context.Background(), id.CompanyID, id.UserID, "p-1", 3)
	require.NoError(t, err)
	_, err = svc.Carts.AddItem(context.Background(), id.CompanyID, id.UserID, "p-2", 1)
	require.NoError(t, err)

	o, err := svc.Place(context.Background(), id, PlaceParams{})
	require.NoError(t, err)

	require.Len(t, o.Lines, 2)
	for _, l := range o.Lines {
		require.Equal(t, "20", l.TaxRate.String())
	}
	require.Equal(t, "35.00", o.TotalExclTax().StringFixed(2))
	require.Equal(t, "42.00", o.TotalInclTax().StringFixed(2))
	require.Equal(t, "u-1", o.CustomerID)
	require.Nil(t, o.SalesRepID)
	require.Len(t, store.created, 1)

	after, err := svc.Carts.Get(context.Background(), id.CompanyID, id.UserID)
	require.NoError(t, err)
	require.True(t, after.IsEmpty())
}

func TestPlaceEmptyCart(t *testing.T) {
	svc := newPlacementService(t, &fakeStore{},
		map[string]user.User{"u-1": {ID: "u-1", Role: common.RoleCustomer}})
	id := common.Identity{UserID: "u-1", CompanyID: "co-1", Role: common.RoleCustomer}

	_, err := svc.Place(context.Background(), id, PlaceParams{})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceKeepsCartWhenStoreFails(t *testing.T) {
	store := &fakeStore{createErr: errors.New("insert failed")}
	svc := newPlacementService(t, store,
		map[string]user.User{"u-1": {ID: "u-1", Role: common.RoleCustomer}},
		activeProduct("p-1", "Crate", "10.00"),
	)
	id := common.Identity{UserID: "u-1", CompanyID: "co-1", Role: common.RoleCustomer}

	_, err := svc.Carts.AddItem(context.Background(), id.CompanyID, id.UserID, "p-1", 2)
	require.NoError(t, err)

	_, err = svc.Place(context.Background(), id, PlaceParams{})
	require.Error(t, err)

	kept, err := svc.Carts.Get(context.Background(), id.CompanyID, id.UserID)
	require.NoError(t, err)
	require.False(t, kept.IsEmpty())
	require.EqualValues(t, 2, kept.ItemCount())
}

func TestPlaceUsesCustomerRateNotProductRate(t *testing.T) {
	p := activeProduct("p-1", "Crate", "10.00")
	p.TaxRate = rate("5.5")
	store := &fakeStore{}
	svc := newPlacementService(t, store,
		map[string]user.User{"u-1": {ID: "u-1", Role: common.RoleCustomer}}, p)
	id := common.Identity{UserID: "u-1", CompanyID: "co-1", Role: common.RoleCustomer}

	_, err := svc.Carts.AddItem(context.Background(), id.CompanyID, id.UserID, "p-1", 1)
	require.NoError(t, err)

	o, err := svc.Place(context.Background(), id, PlaceParams{})
	require.NoError(t, err)
	require.Len(t, o.Lines, 1)
	require.Equal(t, "20", o.Lines[0].TaxRate.String())
}
