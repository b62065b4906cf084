package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rumble-exchange/rumble-indexer/internal/domain"
	"github.com/rumble-exchange/rumble-indexer/internal/logger"
)

// UpdatePoolLiquidity revalues one pool against the chosen pricing asset
// at the given block and, on success, commits the new USD liquidity to
// the pool, an append-only historical record, and the protocol-wide
// aggregate. The boolean reports the valuation outcome; the error only
// reports storage faults.
//
// A false return means no persisted mutation: the pool is absent, has
// fewer than two tokens, is a virtual-supply pool priced in its own
// token, or the pricing asset has no coherent USD path.
func (e *Engine) UpdatePoolLiquidity(ctx context.Context, poolID string, block uint64, pricingAsset common.Address, timestamp time.Time) (bool, error) {
	pool, err := e.store.GetPool(ctx, poolID)
	if err != nil {
		return false, fmt.Errorf("get pool %s: %w", poolID, err)
	}
	if pool == nil {
		return false, nil
	}
	if len(pool.TokensList) < 2 {
		return false, nil
	}
	if pool.PoolType.HasVirtualSupply() && pool.Address == pricingAsset {
		// cannot price a virtual-supply pool in terms of itself
		return false, nil
	}

	poolValue := decimal.Zero

	for _, token := range pool.TokensList {
		poolToken, err := e.store.GetPoolToken(ctx, poolID, token)
		if err != nil {
			return false, fmt.Errorf("get pool token %s/%s: %w", poolID, domain.AddressHex(token), err)
		}
		if poolToken == nil {
			continue
		}

		if token == pricingAsset {
			poolValue = poolValue.Add(poolToken.Balance)
			continue
		}

		// A sample keyed to the current block supersedes the cache.
		sample, err := e.store.GetTokenPrice(ctx, domain.TokenPriceID(poolID, token, pricingAsset, block))
		if err != nil {
			return false, fmt.Errorf("get token price: %w", err)
		}
		latest, err := e.latestPrice(ctx, token, pricingAsset)
		if err != nil {
			return false, fmt.Errorf("get latest price: %w", err)
		}

		var price decimal.Decimal
		priced := false

		switch {
		case sample != nil:
			price = sample.Price
			priced = true
		case latest != nil:
			price = latest.Price
			priced = true
		case pool.PoolType == domain.PoolTypeStablePhantom:
			// Estimate through independent USD conversion of one unit
			// of each side.
			pricingAssetInUSD, err := e.ValueInUSD(ctx, decimal.NewFromInt(1), pricingAsset)
			if err != nil {
				return false, err
			}
			tokenInUSD, err := e.ValueInUSD(ctx, decimal.NewFromInt(1), token)
			if err != nil {
				return false, err
			}
			if pricingAssetInUSD.IsZero() || tokenInUSD.IsZero() {
				continue
			}
			price = tokenInUSD.Div(pricingAssetInUSD)
			priced = true
		}

		// The pool's own token is unminted supply, not backing value.
		if pool.PoolType.HasVirtualSupply() && pool.Address == token {
			continue
		}

		if priced {
			poolValue = poolValue.Add(price.Mul(poolToken.Balance))
		}
	}

	newPoolLiquidity, err := e.ValueInUSD(ctx, poolValue, pricingAsset)
	if err != nil {
		return false, err
	}

	// A non-empty pool valuing to zero USD (or the reverse) means the
	// pricing asset has no coherent USD path. Commit nothing.
	if poolValue.IsPositive() != newPoolLiquidity.IsPositive() {
		logger.DebugCtx(ctx, "pool valuation aborted on inconsistent USD conversion",
			zap.String("pool_id", poolID),
			zap.String("pricing_asset", domain.AddressHex(pricingAsset)),
			zap.String("pool_value", poolValue.String()),
			zap.String("usd_value", newPoolLiquidity.String()))
		return false, nil
	}

	liquidityChange := newPoolLiquidity.Sub(pool.TotalLiquidity)

	return true, e.commitValuation(ctx, pool, block, pricingAsset, timestamp, poolValue, newPoolLiquidity, liquidityChange)
}

func (e *Engine) commitValuation(ctx context.Context, pool *domain.Pool, block uint64, pricingAsset common.Address, timestamp time.Time, poolValue, newPoolLiquidity, liquidityChange decimal.Decimal) error {
	shareValue := decimal.Zero
	if pool.TotalShares.IsPositive() {
		shareValue = poolValue.Div(pool.TotalShares)
	}
	record := &domain.PoolHistoricalLiquidity{
		ID:              domain.PoolHistoricalLiquidityID(pool.ID, pricingAsset, block),
		PoolID:          pool.ID,
		PricingAsset:    pricingAsset,
		Block:           block,
		PoolTotalShares: pool.TotalShares,
		PoolLiquidity:   poolValue,
		PoolShareValue:  shareValue,
	}
	if err := e.store.InsertPoolHistoricalLiquidity(ctx, record); err != nil {
		return fmt.Errorf("insert historical liquidity %s: %w", record.ID, err)
	}

	pool.TotalLiquidity = newPoolLiquidity
	if err := e.store.SavePool(ctx, pool); err != nil {
		return fmt.Errorf("save pool %s: %w", pool.ID, err)
	}
	if err := e.snapshots.TakePoolSnapshot(ctx, pool, timestamp); err != nil {
		return fmt.Errorf("take pool snapshot: %w", err)
	}

	vault, err := e.store.GetOrCreateVault(ctx, e.assets.Vault)
	if err != nil {
		return fmt.Errorf("get vault: %w", err)
	}
	vault.TotalLiquidity = vault.TotalLiquidity.Add(liquidityChange)
	if err := e.store.SaveVault(ctx, vault); err != nil {
		return fmt.Errorf("save vault: %w", err)
	}
	if err := e.snapshots.TakeVaultSnapshot(ctx, vault, timestamp); err != nil {
		return fmt.Errorf("take vault snapshot: %w", err)
	}

	return nil
}
