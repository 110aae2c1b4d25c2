// Package stock tracks per-location inventory levels and computes low-stock
// alerts across warehouses and trucks.
package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationType distinguishes the two kinds of stock locations.
type LocationType string

const (
	LocationWarehouse LocationType = "WAREHOUSE"
	LocationTruck     LocationType = "TRUCK"
)

// Stock is the quantity of one product at one location.
type Stock struct {
	ID             string           `json:"id"`
	CompanyID      string           `json:"companyId"`
	ProductID      string           `json:"productId"`
	ProductName    string           `json:"productName"`
	AgencyID       string           `json:"agencyId"`
	LocationType   LocationType     `json:"locationType"`
	LocationID     string           `json:"locationId"`
	Qty            decimal.Decimal  `json:"qty"`
	AlertThreshold *decimal.Decimal `json:"alertThreshold,omitempty"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// AlertLocation is one location's contribution to a low-stock alert.
type AlertLocation struct {
	AgencyID     string          `json:"agencyId"`
	LocationType LocationType    `json:"locationType"`
	LocationID   string          `json:"locationId"`
	Qty          decimal.Decimal `json:"qty"`
}

// Alert flags a product whose combined quantity across every location sits
// at or below its threshold.
type Alert struct {
	ProductID   string          `json:"productId"`
	DisplayName string          `json:"displayName"`
	Total       decimal.Decimal `json:"total"`
	Threshold   decimal.Decimal `json:"threshold"`
	Locations   []AlertLocation `json:"locations"`
}
