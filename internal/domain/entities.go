package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// VaultID is the fixed identity of the protocol-wide aggregate record.
// Exactly one Vault row exists per deployment.
const VaultID = "2"

// Pool is the mutable record for a single pool registered with the vault.
// TotalLiquidity is overwritten in place after every successful valuation
// pass; the append-only history lives in PoolHistoricalLiquidity.
type Pool struct {
	ID              string
	Address         common.Address
	PoolType        PoolType
	TokensList      []common.Address // ordered constituent token addresses
	TotalShares     decimal.Decimal
	TotalLiquidity  decimal.Decimal // USD
	TotalSwapVolume decimal.Decimal // USD, cumulative
	SwapFee         decimal.Decimal
	CreatedAt       time.Time
}

// PoolToken is the per-(pool, token) balance record. It is owned by
// event ingestion; the valuation engine only reads it.
type PoolToken struct {
	PoolID  string
	Token   common.Address
	Balance decimal.Decimal
}

// Token is the registry record for a priced asset. LatestPriceID points
// at the LatestPrice entry for its most recently priced pairing.
type Token struct {
	Address       common.Address
	LatestPriceID string
}

// TokenPrice is a price sample realized by an actual trade: asset priced
// in pricingAsset, in a given pool at a given block. Samples are
// immutable once written; a later block produces a new record.
type TokenPrice struct {
	ID           string // <poolId>-<asset>-<pricingAsset>-<block>
	PoolID       string
	Asset        common.Address
	PricingAsset common.Address
	Block        uint64
	Price        decimal.Decimal
}

// LatestPrice is the single live cache entry for a directed asset pair,
// overwritten in place by each newer observation. The key is directional:
// (asset, pricingAsset) and (pricingAsset, asset) are distinct entries.
type LatestPrice struct {
	ID           string // <asset>-<pricingAsset>
	Asset        common.Address
	PricingAsset common.Address
	Price        decimal.Decimal
	Block        uint64
	PoolID       string // pool that produced the observation
}

// PoolHistoricalLiquidity is an append-only valuation snapshot of one
// pool at one block, for one choice of pricing asset.
type PoolHistoricalLiquidity struct {
	ID              string // <poolId>-<pricingAsset>-<block>
	PoolID          string
	PricingAsset    common.Address
	Block           uint64
	PoolTotalShares decimal.Decimal
	PoolLiquidity   decimal.Decimal // denominated in the pricing asset
	PoolShareValue  decimal.Decimal // PoolLiquidity / PoolTotalShares
}

// Vault is the protocol-wide aggregate. TotalLiquidity is adjusted by
// each pool's liquidity delta, never recomputed from scratch.
type Vault struct {
	ID              string
	Address         common.Address
	PoolCount       int
	TotalLiquidity  decimal.Decimal // USD
	TotalSwapVolume decimal.Decimal // USD
	TotalSwapCount  uint64
}

// PoolSnapshot is a daily rollup of one pool's state
type PoolSnapshot struct {
	ID             string // <poolId>-<dayTimestamp>
	PoolID         string
	TotalShares    decimal.Decimal
	TotalLiquidity decimal.Decimal
	SwapVolume     decimal.Decimal
	Timestamp      time.Time // start of day, UTC
}

// VaultSnapshot is a daily rollup of the protocol aggregate
type VaultSnapshot struct {
	ID             string // <vaultId>-<dayTimestamp>
	VaultID        string
	TotalLiquidity decimal.Decimal
	Timestamp      time.Time // start of day, UTC
}
