package pricing

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ValueInUSD converts a value denominated in pricingAsset into USD.
// USD-stable assets pass through 1:1. Anything else is chained through
// the latest cached price against the first USD-stable asset for which
// one exists, scanning stables in configuration order. A zero result
// means no price path is discoverable yet, not an error.
func (e *Engine) ValueInUSD(ctx context.Context, value decimal.Decimal, pricingAsset common.Address) (decimal.Decimal, error) {
	if e.IsUSDStable(pricingAsset) {
		return value, nil
	}

	for _, stable := range e.usdStables {
		latest, err := e.latestPrice(ctx, pricingAsset, stable)
		if err != nil {
			return decimal.Zero, err
		}
		if latest != nil {
			return value.Mul(latest.Price), nil
		}
	}

	return decimal.Zero, nil
}

// SwapValueInUSD computes the USD value of a single trade. A USD-stable
// leg is authoritative, with the out side preferred. When neither leg is
// stable and both convert to a positive USD value, the two estimates are
// averaged to smooth out price impact between the sides; if at most one
// leg resolved, the sum is returned unaveraged so a single valid signal
// is not diluted by an unknown-zero counterpart.
func (e *Engine) SwapValueInUSD(ctx context.Context, tokenIn common.Address, amountIn decimal.Decimal, tokenOut common.Address, amountOut decimal.Decimal) (decimal.Decimal, error) {
	if e.IsUSDStable(tokenOut) {
		return e.ValueInUSD(ctx, amountOut, tokenOut)
	}
	if e.IsUSDStable(tokenIn) {
		return e.ValueInUSD(ctx, amountIn, tokenIn)
	}

	inUSD, err := e.ValueInUSD(ctx, amountIn, tokenIn)
	if err != nil {
		return decimal.Zero, err
	}
	outUSD, err := e.ValueInUSD(ctx, amountOut, tokenOut)
	if err != nil {
		return decimal.Zero, err
	}

	divisor := decimal.NewFromInt(1)
	if inUSD.IsPositive() && outUSD.IsPositive() {
		divisor = decimal.NewFromInt(2)
	}
	return inUSD.Add(outUSD).Div(divisor), nil
}
