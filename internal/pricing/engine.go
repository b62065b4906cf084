// Package pricing implements token pricing and pool liquidity valuation.
//
// Prices are self-referential: assets are priced in terms of each other,
// chained through a configured set of pricing assets and a USD-stable
// subset treated as pegged 1:1. The engine maintains an append-only log
// of trade-realized price samples, a mutable latest-price cache over
// that log, and per-pool USD liquidity valuations recomputed after each
// qualifying event.
package pricing

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rumble-exchange/rumble-indexer/internal/config"
	"github.com/rumble-exchange/rumble-indexer/internal/domain"
	"github.com/rumble-exchange/rumble-indexer/internal/store"
)

// Snapshotter rolls pool and vault state into daily time series records.
// The engine invokes it after every committed valuation pass.
type Snapshotter interface {
	TakePoolSnapshot(ctx context.Context, pool *domain.Pool, timestamp time.Time) error
	TakeVaultSnapshot(ctx context.Context, vault *domain.Vault, timestamp time.Time) error
}

// Engine values pools and trades against a fixed per-network asset table.
// It is invoked synchronously, one event at a time, in arrival order;
// it has no internal locking and must not be shared across concurrent
// event streams.
type Engine struct {
	store     store.Store
	snapshots Snapshotter

	assets        config.NetworkAssets
	pricingAssets []common.Address
	usdStables    []common.Address
}

// NewEngine creates a valuation engine over the given store and asset table
func NewEngine(s store.Store, snapshots Snapshotter, assets config.NetworkAssets) *Engine {
	return &Engine{
		store:         s,
		snapshots:     snapshots,
		assets:        assets,
		pricingAssets: assets.PricingAssets(),
		usdStables:    assets.USDStableAssets(),
	}
}

// IsPricingAsset reports whether the asset is usable as an intermediate
// unit of account.
func (e *Engine) IsPricingAsset(asset common.Address) bool {
	for _, a := range e.pricingAssets {
		if a == asset {
			return true
		}
	}
	return false
}

// IsUSDStable reports whether the asset is treated as pegged 1:1 to USD.
func (e *Engine) IsUSDStable(asset common.Address) bool {
	for _, a := range e.usdStables {
		if a == asset {
			return true
		}
	}
	return false
}
