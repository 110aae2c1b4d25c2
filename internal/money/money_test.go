package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Hectotor/Inventory-web-sub000/internal/money"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func TestLineTotalRoundsPerUnitBeforeMultiplying(t *testing.T) {
	// 0.10 excl. tax at 5%: raw unit incl. tax is 0.105, rounded half away
	// from zero to 0.11. Three units then cost 0.33, whereas rounding the
	// raw product once would give round2(0.315) = 0.32.
	amounts := money.LineTotal(dec(t, "0.10"), dec(t, "5"), 3)

	require.True(t, amounts.UnitInclTax.Equal(dec(t, "0.11")), "unit incl tax = %s", amounts.UnitInclTax)
	require.True(t, amounts.LineInclTax.Equal(dec(t, "0.33")), "line incl tax = %s", amounts.LineInclTax)

	naive := money.Round2(dec(t, "0.10").Mul(dec(t, "1.05")).Mul(decimal.NewFromInt(3)))
	require.False(t, amounts.LineInclTax.Equal(naive), "per-unit rounding must diverge from naive rounding")
}

func TestLineTotalMatchesRoundedUnitTimesQty(t *testing.T) {
	cases := []struct {
		unit string
		rate string
		qty  int64
	}{
		{"10.00", "20", 3},
		{"5.00", "20", 1},
		{"19.99", "5.5", 7},
		{"0.01", "20", 100},
		{"3.33", "0", 9},
	}
	for _, tc := range cases {
		amounts := money.LineTotal(dec(t, tc.unit), dec(t, tc.rate), tc.qty)
		expected := money.Round2(amounts.UnitInclTax.Mul(decimal.NewFromInt(tc.qty)))
		require.True(t, amounts.LineInclTax.Equal(expected), "unit=%s rate=%s qty=%d", tc.unit, tc.rate, tc.qty)
	}
}

func TestLineTotalZeroRate(t *testing.T) {
	amounts := money.LineTotal(dec(t, "12.50"), decimal.Zero, 4)
	require.True(t, amounts.UnitInclTax.Equal(dec(t, "12.50")))
	require.True(t, amounts.LineExclTax.Equal(dec(t, "50.00")))
	require.True(t, amounts.LineInclTax.Equal(dec(t, "50.00")))
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	require.Equal(t, "0.11", money.Round2(dec(t, "0.105")).StringFixed(2))
	require.Equal(t, "-0.11", money.Round2(dec(t, "-0.105")).StringFixed(2))
	require.Equal(t, "2.67", money.Round2(dec(t, "2.665")).StringFixed(2))
}

func TestEffectiveRate(t *testing.T) {
	require.True(t, money.EffectiveRate(nil).Equal(decimal.NewFromInt(20)))

	custom := dec(t, "5.5")
	require.True(t, money.EffectiveRate(&custom).Equal(custom))

	zero := decimal.Zero
	require.True(t, money.EffectiveRate(&zero).Equal(decimal.Zero))
}
