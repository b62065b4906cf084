package pricing

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/rumble-exchange/rumble-indexer/internal/domain"
)

// RecordObservedPrice writes the immutable price sample realized by a
// trade of asset against pricingAsset in the given pool, then refreshes
// the latest-price cache entry for the directed (asset, pricingAsset)
// pair and links the asset's current-price reference to it. Replaying
// the same (pool, asset, pricingAsset, block) leaves the sample as
// first written.
func (e *Engine) RecordObservedPrice(ctx context.Context, poolID string, asset, pricingAsset common.Address, block uint64, price decimal.Decimal) error {
	sample := &domain.TokenPrice{
		ID:           domain.TokenPriceID(poolID, asset, pricingAsset, block),
		PoolID:       poolID,
		Asset:        asset,
		PricingAsset: pricingAsset,
		Block:        block,
		Price:        price,
	}
	if err := e.store.InsertTokenPrice(ctx, sample); err != nil {
		return fmt.Errorf("insert token price %s: %w", sample.ID, err)
	}

	latest := &domain.LatestPrice{
		ID:           domain.LatestPriceID(asset, pricingAsset),
		Asset:        asset,
		PricingAsset: pricingAsset,
		Price:        price,
		Block:        block,
		PoolID:       poolID,
	}
	if err := e.store.SaveLatestPrice(ctx, latest); err != nil {
		return fmt.Errorf("save latest price %s: %w", latest.ID, err)
	}

	return e.linkTokenLatestPrice(ctx, asset, latest.ID)
}

// latestPrice looks up the cached price for the directed pair
// (asset, pricingAsset). The key is directional: recording (A, B) never
// satisfies a lookup of (B, A).
func (e *Engine) latestPrice(ctx context.Context, asset, pricingAsset common.Address) (*domain.LatestPrice, error) {
	return e.store.GetLatestPrice(ctx, domain.LatestPriceID(asset, pricingAsset))
}

func (e *Engine) linkTokenLatestPrice(ctx context.Context, asset common.Address, latestPriceID string) error {
	token, err := e.store.GetToken(ctx, asset)
	if err != nil {
		return fmt.Errorf("get token %s: %w", domain.AddressHex(asset), err)
	}
	if token == nil {
		token = &domain.Token{Address: asset}
	}
	token.LatestPriceID = latestPriceID
	if err := e.store.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("save token %s: %w", domain.AddressHex(asset), err)
	}
	return nil
}
