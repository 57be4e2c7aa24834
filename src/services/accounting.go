package services

import (
	"github.com/shopspring/decimal"
)

// Position accounting follows the average-cost convention: buys move the
// weighted average cost basis, sells realize PnL against it and leave it
// unchanged. Arithmetic runs on decimals (division precision 16) and is
// converted back to float64 only for storage and DTOs.

// weightedAverageCost returns the new average cost basis after buying
// addShares at price on top of curShares held at curAvg.
func weightedAverageCost(curShares int64, curAvg float64, addShares int64, price float64) float64 {
	curCost := decimal.NewFromInt(curShares).Mul(decimal.NewFromFloat(curAvg))
	addCost := decimal.NewFromInt(addShares).Mul(decimal.NewFromFloat(price))
	total := decimal.NewFromInt(curShares + addShares)
	return curCost.Add(addCost).Div(total).InexactFloat64()
}

// realizedPnL returns the gain or loss recognized by selling shares at price
// against the avgCost basis.
func realizedPnL(price, avgCost float64, shares int64) float64 {
	return decimal.NewFromFloat(price).
		Sub(decimal.NewFromFloat(avgCost)).
		Mul(decimal.NewFromInt(shares)).
		InexactFloat64()
}
