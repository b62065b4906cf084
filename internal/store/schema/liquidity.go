package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// PoolHistoricalLiquidity represents the pool_historical_liquidity table -
// append-only valuation snapshots, one row per (pool, pricing asset, block).
type PoolHistoricalLiquidity struct {
	ID              string          `gorm:"column:id;primaryKey;type:text"`
	PoolID          string          `gorm:"column:pool_id;not null;index;type:text"`
	PricingAsset    string          `gorm:"column:pricing_asset;not null;type:text"`
	Block           uint64          `gorm:"column:block;not null;type:bigint"`
	PoolTotalShares decimal.Decimal `gorm:"column:pool_total_shares;not null;type:numeric(78,18)"`
	PoolLiquidity   decimal.Decimal `gorm:"column:pool_liquidity;not null;type:numeric(78,18)"`
	PoolShareValue  decimal.Decimal `gorm:"column:pool_share_value;not null;type:numeric(78,18)"`
}

// TableName specifies the table name for the PoolHistoricalLiquidity model
func (PoolHistoricalLiquidity) TableName() string {
	return "pool_historical_liquidity"
}

// Vault represents the vault table - the protocol-wide aggregate singleton
type Vault struct {
	ID              string          `gorm:"column:id;primaryKey;type:text"`
	Address         string          `gorm:"column:address;not null;type:text"`
	PoolCount       int             `gorm:"column:pool_count;not null"`
	TotalLiquidity  decimal.Decimal `gorm:"column:total_liquidity;not null;type:numeric(78,18)"`
	TotalSwapVolume decimal.Decimal `gorm:"column:total_swap_volume;not null;type:numeric(78,18)"`
	TotalSwapCount  uint64          `gorm:"column:total_swap_count;not null;type:bigint"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Vault model
func (Vault) TableName() string {
	return "vault"
}

// PoolSnapshot represents the pool_snapshots table - daily pool rollups
type PoolSnapshot struct {
	ID             string          `gorm:"column:id;primaryKey;type:text"`
	PoolID         string          `gorm:"column:pool_id;not null;index;type:text"`
	TotalShares    decimal.Decimal `gorm:"column:total_shares;not null;type:numeric(78,18)"`
	TotalLiquidity decimal.Decimal `gorm:"column:total_liquidity;not null;type:numeric(78,18)"`
	SwapVolume     decimal.Decimal `gorm:"column:swap_volume;not null;type:numeric(78,18)"`
	Timestamp      time.Time       `gorm:"column:timestamp;not null;type:timestamptz"`
}

// TableName specifies the table name for the PoolSnapshot model
func (PoolSnapshot) TableName() string {
	return "pool_snapshots"
}

// VaultSnapshot represents the vault_snapshots table - daily aggregate rollups
type VaultSnapshot struct {
	ID             string          `gorm:"column:id;primaryKey;type:text"`
	VaultID        string          `gorm:"column:vault_id;not null;type:text"`
	TotalLiquidity decimal.Decimal `gorm:"column:total_liquidity;not null;type:numeric(78,18)"`
	Timestamp      time.Time       `gorm:"column:timestamp;not null;type:timestamptz"`
}

// TableName specifies the table name for the VaultSnapshot model
func (VaultSnapshot) TableName() string {
	return "vault_snapshots"
}
