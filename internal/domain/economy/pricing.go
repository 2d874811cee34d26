// Package economy holds the price arithmetic shared by squads and the
// transfer market. All amounts are in currency units with one decimal.
package economy

import "github.com/shopspring/decimal"

var (
	ten   = decimal.NewFromInt(10)
	two   = decimal.NewFromInt(2)
	tenth = decimal.New(1, -1)
)

// SellingPrice applies the "half your profit, all your loss" rule. The profit
// is rounded to whole tenths before it is halved and floored, in that order.
func SellingPrice(currentPrice, purchasePrice decimal.Decimal) decimal.Decimal {
	if currentPrice.LessThanOrEqual(purchasePrice) {
		return currentPrice
	}

	profit := currentPrice.Sub(purchasePrice)
	profitTenths := profit.Mul(ten).Round(0)
	gain := profitTenths.Div(two).Floor().Mul(tenth)

	return RoundPrice(purchasePrice.Add(gain))
}

// RoundPrice rounds to one decimal place.
func RoundPrice(v decimal.Decimal) decimal.Decimal {
	return v.Round(1)
}

// Sum adds prices and rounds the total.
func Sum(prices ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(p)
	}
	return RoundPrice(total)
}

// ParsePrice parses a user or feed supplied price string.
func ParsePrice(raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundPrice(v), nil
}
