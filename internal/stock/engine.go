package stock

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TotalByProduct sums quantities across every location per product.
func TotalByProduct(stocks []Stock) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, s := range stocks {
		totals[s.ProductID] = totals[s.ProductID].Add(s.Qty)
	}
	return totals
}

// LowStock flags each product whose combined quantity is at or below its
// alert threshold. A product is flagged at most once regardless of how many
// locations hold it. When locations disagree on the threshold, the lowest
// one wins, so an alert only fires when the most conservative location
// would have fired it. Products with no threshold anywhere never alert.
// The input is never mutated.
func LowStock(stocks []Stock) []Alert {
	type acc struct {
		displayName string
		total       decimal.Decimal
		threshold   *decimal.Decimal
		locations   []AlertLocation
	}

	byProduct := make(map[string]*acc)
	for _, s := range stocks {
		a, ok := byProduct[s.ProductID]
		if !ok {
			a = &acc{displayName: s.ProductName}
			byProduct[s.ProductID] = a
		}
		a.total = a.total.Add(s.Qty)
		a.locations = append(a.locations, AlertLocation{
			AgencyID:     s.AgencyID,
			LocationType: s.LocationType,
			LocationID:   s.LocationID,
			Qty:          s.Qty,
		})
		if s.AlertThreshold != nil {
			if a.threshold == nil || s.AlertThreshold.LessThan(*a.threshold) {
				t := *s.AlertThreshold
				a.threshold = &t
			}
		}
	}

	var alerts []Alert
	for productID, a := range byProduct {
		if a.threshold == nil || a.total.GreaterThan(*a.threshold) {
			continue
		}
		alerts = append(alerts, Alert{
			ProductID:   productID,
			DisplayName: a.displayName,
			Total:       a.total,
			Threshold:   *a.threshold,
			Locations:   a.locations,
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].DisplayName != alerts[j].DisplayName {
			return alerts[i].DisplayName < alerts[j].DisplayName
		}
		return alerts[i].ProductID < alerts[j].ProductID
	})
	return alerts
}
