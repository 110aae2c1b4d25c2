// Package catalog owns the product reference data. Prices are decoded once
// at the store boundary into decimal values; the configured tax rate stays
// optional here and is resolved per order against the customer profile.
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable article belonging to one company.
type Product struct {
	ID           string           `json:"id"`
	CompanyID    string           `json:"companyId"`
	Name         string           `json:"name"`
	SubName      *string          `json:"subName,omitempty"`
	PriceExclTax decimal.Decimal  `json:"priceExclTax"`
	TaxRate      *decimal.Decimal `json:"taxRate,omitempty"`
	Active       bool             `json:"active"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// DisplayName joins the name with the optional sub-name the way order and
// alert views present a product.
func (p Product) DisplayName() string {
	if p.SubName != nil && *p.SubName != "" {
		return p.Name + " " + *p.SubName
	}
	return p.Name
}
