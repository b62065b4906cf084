package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Pool represents the pools table - the mutable record per registered pool
type Pool struct {
	// ID is the vault-assigned pool identifier
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Address is the pool contract address (lowercase hex)
	Address string `gorm:"column:address;not null;uniqueIndex;type:text"`
	// PoolType identifies the pool variant (weighted, stable, stable_phantom, linear, ...)
	PoolType string `gorm:"column:pool_type;not null;type:text"`
	// TokensList is the ordered list of constituent token addresses
	TokensList datatypes.JSONSlice[string] `gorm:"column:tokens_list;not null;type:jsonb"`
	// TotalShares is the outstanding pool share supply
	TotalShares decimal.Decimal `gorm:"column:total_shares;not null;type:numeric(78,18)"`
	// TotalLiquidity is the pool's current USD valuation, overwritten on each recompute
	TotalLiquidity decimal.Decimal `gorm:"column:total_liquidity;not null;type:numeric(78,18)"`
	// TotalSwapVolume is the cumulative USD swap volume
	TotalSwapVolume decimal.Decimal `gorm:"column:total_swap_volume;not null;type:numeric(78,18)"`
	// SwapFee is the pool's swap fee fraction
	SwapFee decimal.Decimal `gorm:"column:swap_fee;not null;type:numeric(78,18)"`
	// CreatedAt is the timestamp when this pool was registered
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Pool model
func (Pool) TableName() string {
	return "pools"
}

// PoolToken represents the pool_tokens table - per-(pool, token) balances
type PoolToken struct {
	PoolID string `gorm:"column:pool_id;primaryKey;type:text"`
	// Token is the token address (lowercase hex)
	Token   string          `gorm:"column:token;primaryKey;type:text"`
	Balance decimal.Decimal `gorm:"column:balance;not null;type:numeric(78,18)"`
	// UpdatedAt is the timestamp when this balance was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the PoolToken model
func (PoolToken) TableName() string {
	return "pool_tokens"
}
