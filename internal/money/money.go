// Package money computes invoice amounts at 2-decimal cent precision.
//
// Amounts are rounded per line (unit price including tax first, then the
// line totals) rather than summing raw values and rounding once. Invoices
// produced this way never accumulate fractional cents across lines, and the
// per-line figures always match what the customer sees printed.
package money

import "github.com/shopspring/decimal"

// DefaultTaxRatePercent is applied when neither the product nor the customer
// carries an explicit rate.
var DefaultTaxRatePercent = decimal.NewFromInt(20)

var oneHundred = decimal.NewFromInt(100)

// LineAmounts holds the rounded amounts for a single priced line.
type LineAmounts struct {
	UnitInclTax decimal.Decimal
	LineExclTax decimal.Decimal
	LineInclTax decimal.Decimal
}

// Round2 rounds to the cent, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineTotal prices qty units of a product given its unit price excluding tax
// and a tax rate in percent. The unit price including tax is rounded to the
// cent before being multiplied by the quantity, so
// LineInclTax == Round2(Round2(unit*(1+rate/100)) * qty), which in general
// differs from rounding the raw product once.
//
// Callers validate inputs: unitExclTax >= 0, taxRatePercent >= 0, qty > 0.
func LineTotal(unitExclTax, taxRatePercent decimal.Decimal, qty int64) LineAmounts {
	quantity := decimal.NewFromInt(qty)
	multiplier := taxRatePercent.Div(oneHundred).Add(decimal.NewFromInt(1))
	unitIncl := Round2(unitExclTax.Mul(multiplier))
	return LineAmounts{
		UnitInclTax: unitIncl,
		LineExclTax: Round2(unitExclTax.Mul(quantity)),
		LineInclTax: Round2(unitIncl.Mul(quantity)),
	}
}

// EffectiveRate resolves an optional configured rate to the rate actually
// charged, falling back to DefaultTaxRatePercent.
func EffectiveRate(rate *decimal.Decimal) decimal.Decimal {
	if rate == nil {
		return DefaultTaxRatePercent
	}
	return *rate
}
