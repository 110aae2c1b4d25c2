package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Hectotor/Inventory-web-sub000/internal/catalog"
)

func product(id, name, price string, rate *string) catalog.Product {
	p := catalog.Product{
		ID:           id,
		CompanyID:    "co-1",
		Name:         name,
		PriceExclTax: decimal.RequireFromString(price),
		Active:       true,
	}
	if rate != nil {
		r := decimal.RequireFromString(*rate)
		p.TaxRate = &r
	}
	return p
}

func strPtr(s string) *string { return &s }

func TestCartAddMergesLines(t *testing.T) {
	var c Cart
	p := product("p1", "Crate", "10.00", nil)

	c.Add(p, 1)
	c.Add(p, 1)

	require.Len(t, c.Lines, 1)
	require.EqualValues(t, 2, c.Lines[0].Qty)
	require.EqualValues(t, 2, c.ItemCount())
}

func TestCartSetQuantityZeroRemoves(t *testing.T) {
	var c Cart
	c.Add(product("p1", "Crate", "10.00", nil), 3)
	c.Add(product("p2", "Pallet", "5.00", nil), 1)

	c.SetQuantity("p1", 0)

	require.Len(t, c.Lines, 1)
	require.Equal(t, "p2", c.Lines[0].Product.ID)
}

func TestCartAddIgnoresNonPositiveQty(t *testing.T) {
	var c Cart
	c.Add(product("p1", "Crate", "10.00", nil), 0)
	c.Add(product("p1", "Crate", "10.00", nil), -2)
	require.True(t, c.IsEmpty())
}

func TestCartTotals(t *testing.T) {
	var c Cart
	c.Add(product("p1", "Crate", "10.00", nil), 3)
	c.Add(product("p2", "Pallet", "5.00", nil), 1)

	require.Equal(t, "35.00", c.TotalExclTax().StringFixed(2))
	require.Equal(t, "42.00", c.TotalInclTax().StringFixed(2))
}

func TestCartTotalsFoldRoundedLines(t *testing.T) {
	var c Cart
	c.Add(product("p1", "Washer", "0.10", strPtr("5")), 3)

	require.Equal(t, "0.33", c.TotalInclTax().StringFixed(2))
}
