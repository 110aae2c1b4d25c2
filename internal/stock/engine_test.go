package stock

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func threshold(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func row(productID, name, agencyID string, lt LocationType, locationID, q string, t *decimal.Decimal) Stock {
	return Stock{
		ProductID:      productID,
		ProductName:    name,
		AgencyID:       agencyID,
		LocationType:   lt,
		LocationID:     locationID,
		Qty:            qty(q),
		AlertThreshold: t,
	}
}

func TestTotalByProduct(t *testing.T) {
	stocks := []Stock{
		row("p1", "Crate", "a1", LocationWarehouse, "w1", "5", nil),
		row("p1", "Crate", "a1", LocationTruck, "t1", "3", nil),
		row("p2", "Pallet", "a1", LocationWarehouse, "w1", "7", nil),
	}
	totals := TotalByProduct(stocks)
	require.Equal(t, "8", totals["p1"].String())
	require.Equal(t, "7", totals["p2"].String())
}

func TestLowStockThresholdIsInclusive(t *testing.T) {
	stocks := []Stock{
		row("p1", "Crate", "a1", LocationWarehouse, "w1", "5", threshold("10")),
		row("p1", "Crate", "a1", LocationTruck, "t1", "3", nil),
		row("p1", "Crate", "a2", LocationWarehouse, "w2", "2", nil),
	}

	alerts := LowStock(stocks)
	require.Len(t, alerts, 1)
	require.Equal(t, "p1", alerts[0].ProductID)
	require.Equal(t, "10", alerts[0].Total.String())
	require.Equal(t, "10", alerts[0].Threshold.String())
	require.Len(t, alerts[0].Locations, 3)
}

func TestLowStockAboveThresholdNotFlagged(t *testing.T) {
	stocks := []Stock{
		row("p1", "Crate", "a1", LocationWarehouse, "w1", "5", threshold("9")),
		row("p1", "Crate", "a1", LocationTruck, "t1", "3", nil),
		row("p1", "Crate", "a2", LocationWarehouse, "w2", "2", nil),
	}
	require.Empty(t, LowStock(stocks))
}

func TestLowStockLowestThresholdWins(t *testing.T) {
	stocks := []Stock{
		row("p1", "Crate", "a1", LocationWarehouse, "w1", "4", threshold("12")),
		row("p1", "Crate", "a2", LocationWarehouse, "w2", "4", threshold("6")),
	}
	// Total 8 is above the lowest threshold 6, so no alert even though the
	// higher threshold alone would have fired.
	require.Empty(t, LowStock(stocks))
}

func TestLowStockNoThresholdNeverAlerts(t *testing.T) {
	stocks := []Stock{
		row("p1", "Crate", "a1", LocationWarehouse, "w1", "0", nil),
	}
	require.Empty(t, LowStock(stocks))
}

func TestLowStockFlagsProductOnce(t *testing.T) {
	stocks := []Stock{
		row("p1", "Crate", "a1", LocationWarehouse, "w1", "1", threshold("10")),
		row("p1", "Crate", "a1", LocationTruck, "t1", "1", threshold("10")),
		row("p1", "Crate", "a2", LocationWarehouse, "w2", "1", threshold("10")),
	}
	require.Len(t, LowStock(stocks), 1)
}

func TestLowStockDoesNotMutateInput(t *testing.T) {
	stocks := []Stock{
		row("p2", "Pallet", "a1", LocationWarehouse, "w1", "1", threshold("5")),
		row("p1", "Crate", "a1", LocationWarehouse, "w1", "1", threshold("5")),
	}
	_ = LowStock(stocks)
	require.Equal(t, "p2", stocks[0].ProductID)
	require.Equal(t, "p1", stocks[1].ProductID)
}

func TestLowStockSortedByDisplayName(t *testing.T) {
	stocks := []Stock{
		row("p2", "Pallet", "a1", LocationWarehouse, "w1", "1", threshold("5")),
		row("p1", "Crate", "a1", LocationWarehouse, "w1", "1", threshold("5")),
	}
	alerts := LowStock(stocks)
	require.Len(t, alerts, 2)
	require.Equal(t, "Crate", alerts[0].DisplayName)
	require.Equal(t, "Pallet", alerts[1].DisplayName)
}

func TestFilterByAgency(t *testing.T) {
	stocks := []Stock{
		row("p1", "Crate", "a1", LocationWarehouse, "w1", "1", nil),
		row("p1", "Crate", "a2", LocationWarehouse, "w2", "1", nil),
	}

	onlyA1 := FilterByAgency(stocks, "a1")
	require.Len(t, onlyA1, 1)
	require.Equal(t, "a1", onlyA1[0].AgencyID)

	require.Equal(t, stocks, FilterByAgency(stocks, "ALL"))
	require.Equal(t, stocks, FilterByAgency(stocks, ""))
	require.Empty(t, FilterByAgency(stocks, "a3"))
}
