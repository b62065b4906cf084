// Package dto defines the JSON representations served by the REST API.
package dto

import (
	"time"

	"github.com/rumble-exchange/rumble-indexer/internal/domain"
)

// Pool is the API representation of a pool.
// Decimal quantities are serialized as strings to preserve precision.
type Pool struct {
	ID              string   `json:"id"`
	Address         string   `json:"address"`
	PoolType        string   `json:"pool_type"`
	Tokens          []string `json:"tokens"`
	TotalShares     string   `json:"total_shares"`
	TotalLiquidity  string   `json:"total_liquidity"`
	TotalSwapVolume string   `json:"total_swap_volume"`
	SwapFee         string   `json:"swap_fee"`
	CreatedAt       string   `json:"created_at"`
}

// FromPool maps a domain pool to its API representation
func FromPool(pool *domain.Pool) *Pool {
	tokens := make([]string, 0, len(pool.TokensList))
	for _, token := range pool.TokensList {
		tokens = append(tokens, domain.AddressHex(token))
	}
	return &Pool{
		ID:              pool.ID,
		Address:         domain.AddressHex(pool.Address),
		PoolType:        string(pool.PoolType),
		Tokens:          tokens,
		TotalShares:     pool.TotalShares.String(),
		TotalLiquidity:  pool.TotalLiquidity.String(),
		TotalSwapVolume: pool.TotalSwapVolume.String(),
		SwapFee:         pool.SwapFee.String(),
		CreatedAt:       pool.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// HistoricalLiquidity is one append-only valuation record of a pool
type HistoricalLiquidity struct {
	ID              string `json:"id"`
	PricingAsset    string `json:"pricing_asset"`
	Block           uint64 `json:"block"`
	PoolTotalShares string `json:"pool_total_shares"`
	PoolLiquidity   string `json:"pool_liquidity"`
	PoolShareValue  string `json:"pool_share_value"`
}

// FromHistoricalLiquidity maps a valuation record to its API representation
func FromHistoricalLiquidity(record *domain.PoolHistoricalLiquidity) *HistoricalLiquidity {
	return &HistoricalLiquidity{
		ID:              record.ID,
		PricingAsset:    domain.AddressHex(record.PricingAsset),
		Block:           record.Block,
		PoolTotalShares: record.PoolTotalShares.String(),
		PoolLiquidity:   record.PoolLiquidity.String(),
		PoolShareValue:  record.PoolShareValue.String(),
	}
}

// LatestPrice is the cached price for one directed asset pair
type LatestPrice struct {
	ID           string `json:"id"`
	Asset        string `json:"asset"`
	PricingAsset string `json:"pricing_asset"`
	Price        string `json:"price"`
	Block        uint64 `json:"block"`
	PoolID       string `json:"pool_id"`
}

// FromLatestPrice maps a cached price to its API representation
func FromLatestPrice(price *domain.LatestPrice) *LatestPrice {
	return &LatestPrice{
		ID:           price.ID,
		Asset:        domain.AddressHex(price.Asset),
		PricingAsset: domain.AddressHex(price.PricingAsset),
		Price:        price.Price.String(),
		Block:        price.Block,
		PoolID:       price.PoolID,
	}
}

// Vault is the protocol-wide aggregate
type Vault struct {
	ID              string `json:"id"`
	Address         string `json:"address"`
	PoolCount       int    `json:"pool_count"`
	TotalLiquidity  string `json:"total_liquidity"`
	TotalSwapVolume string `json:"total_swap_volume"`
	TotalSwapCount  uint64 `json:"total_swap_count"`
}

// FromVault maps the aggregate to its API representation
func FromVault(vault *domain.Vault) *Vault {
	return &Vault{
		ID:              vault.ID,
		Address:         domain.AddressHex(vault.Address),
		PoolCount:       vault.PoolCount,
		TotalLiquidity:  vault.TotalLiquidity.String(),
		TotalSwapVolume: vault.TotalSwapVolume.String(),
		TotalSwapCount:  vault.TotalSwapCount,
	}
}
