package schema

import (
	"github.com/shopspring/decimal"
)

// TokenPrice represents the token_prices table - immutable trade-derived
// price samples. Rows are only ever inserted, keyed deterministically by
// (pool, asset, pricing asset, block).
type TokenPrice struct {
	ID           string          `gorm:"column:id;primaryKey;type:text"`
	PoolID       string          `gorm:"column:pool_id;not null;index;type:text"`
	Asset        string          `gorm:"column:asset;not null;index:idx_token_prices_pair,priority:1;type:text"`
	PricingAsset string          `gorm:"column:pricing_asset;not null;index:idx_token_prices_pair,priority:2;type:text"`
	Block        uint64          `gorm:"column:block;not null;type:bigint"`
	Price        decimal.Decimal `gorm:"column:price;not null;type:numeric(78,18)"`
}

// TableName specifies the table name for the TokenPrice model
func (TokenPrice) TableName() string {
	return "token_prices"
}

// LatestPrice represents the latest_prices table - the single live cache
// entry per directed asset pair, overwritten in place.
type LatestPrice struct {
	ID           string          `gorm:"column:id;primaryKey;type:text"`
	Asset        string          `gorm:"column:asset;not null;index;type:text"`
	PricingAsset string          `gorm:"column:pricing_asset;not null;type:text"`
	Price        decimal.Decimal `gorm:"column:price;not null;type:numeric(78,18)"`
	Block        uint64          `gorm:"column:block;not null;type:bigint"`
	PoolID       string          `gorm:"column:pool_id;not null;type:text"`
}

// TableName specifies the table name for the LatestPrice model
func (LatestPrice) TableName() string {
	return "latest_prices"
}

// Token represents the tokens table - the priced-asset registry
type Token struct {
	// Address is the token address (lowercase hex)
	Address string `gorm:"column:address;primaryKey;type:text"`
	// LatestPriceID references the latest_prices row for the token's most recently priced pairing
	LatestPriceID string `gorm:"column:latest_price_id;type:text"`
}

// TableName specifies the table name for the Token model
func (Token) TableName() string {
	return "tokens"
}
