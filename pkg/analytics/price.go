package analytics

import (
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// PriceDiffPercent is the percentage by which the hub amount beats the DEX amount,
// rounded to an integer. A missing or zero DEX amount yields "0".
func PriceDiffPercent(hubAmountOut, dexAmountOut string) string {
	dex, err := decimal.NewFromString(dexAmountOut)
	if err != nil || dex.IsZero() {
		return "0"
	}
	hub, err := decimal.NewFromString(hubAmountOut)
	if err != nil {
		hub = decimal.Zero
	}
	return hub.Div(dex).Sub(one).Mul(hundred).Round(0).String()
}

// DexOutWithSlippage is the DEX minimum out amount widened by the slippage percent
func DexOutWithSlippage(dexMinAmountOut string, slippage float64) string {
	dex, err := decimal.NewFromString(dexMinAmountOut)
	if err != nil {
		return "0"
	}
	factor := one.Add(decimal.NewFromFloat(slippage).Div(hundred))
	return dex.Mul(factor).String()
}
