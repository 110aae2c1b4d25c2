// Package cart holds the in-progress order of a user: pure quantity math in
// memory, snapshots in Redis so a cart survives restarts and device changes.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/Hectotor/Inventory-web-sub000/internal/catalog"
	"github.com/Hectotor/Inventory-web-sub000/internal/money"
)

// Line is one product with its ordered quantity.
type Line struct {
	Product catalog.Product `json:"product"`
	Qty     int64           `json:"qty"`
}

// Amounts returns the priced view of the line using the product's own rate,
// falling back to the company default when the product has none.
func (l Line) Amounts() money.LineAmounts {
	return money.LineTotal(l.Product.PriceExclTax, money.EffectiveRate(l.Product.TaxRate), l.Qty)
}

// Cart is an ordered list of lines. Order of insertion is preserved so the
// rendered cart stays stable while the user edits it.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add merges qty into an existing line for the product or appends a new one.
func (c *Cart) Add(p catalog.Product, qty int64) {
	if qty <= 0 {
		return
	}
	for i := range c.Lines {
		if c.Lines[i].Product.ID == p.ID {
			c.Lines[i].Qty += qty
			c.Lines[i].Product = p
			return
		}
	}
	c.Lines = append(c.Lines, Line{Product: p, Qty: qty})
}

// SetQuantity replaces the quantity of a product's line. A quantity of zero
// or less removes the line.
func (c *Cart) SetQuantity(productID string, qty int64) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			c.Lines[i].Qty = qty
			return
		}
	}
}

// Remove drops the line for the product, if present.
func (c *Cart) Remove(productID string) {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// ItemCount is the total quantity across all lines.
func (c *Cart) ItemCount() int64 {
	var n int64
	for _, l := range c.Lines {
		n += l.Qty
	}
	return n
}

// TotalExclTax sums the rounded per-line totals.
func (c *Cart) TotalExclTax() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Amounts().LineExclTax)
	}
	return money.Round2(total)
}

// TotalInclTax sums the rounded per-line totals including tax.
func (c *Cart) TotalInclTax() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Amounts().LineInclTax)
	}
	return money.Round2(total)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
