package store

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/rumble-exchange/rumble-indexer/internal/domain"
	"github.com/rumble-exchange/rumble-indexer/internal/store/schema"
)

// Schema rows store addresses as lowercase hex text; the domain layer
// works with common.Address. Conversion lives here so neither side leaks
// into the other.

func poolToSchema(p *domain.Pool) *schema.Pool {
	tokens := make([]string, len(p.TokensList))
	for i, t := range p.TokensList {
		tokens[i] = domain.AddressHex(t)
	}
	return &schema.Pool{
		ID:              p.ID,
		Address:         domain.AddressHex(p.Address),
		PoolType:        string(p.PoolType),
		TokensList:      tokens,
		TotalShares:     p.TotalShares,
		TotalLiquidity:  p.TotalLiquidity,
		TotalSwapVolume: p.TotalSwapVolume,
		SwapFee:         p.SwapFee,
		CreatedAt:       p.CreatedAt,
	}
}

func poolFromSchema(p *schema.Pool) *domain.Pool {
	tokens := make([]common.Address, len(p.TokensList))
	for i, t := range p.TokensList {
		tokens[i] = common.HexToAddress(t)
	}
	return &domain.Pool{
		ID:              p.ID,
		Address:         common.HexToAddress(p.Address),
		PoolType:        domain.PoolType(p.PoolType),
		TokensList:      tokens,
		TotalShares:     p.TotalShares,
		TotalLiquidity:  p.TotalLiquidity,
		TotalSwapVolume: p.TotalSwapVolume,
		SwapFee:         p.SwapFee,
		CreatedAt:       p.CreatedAt,
	}
}

func poolTokenToSchema(pt *domain.PoolToken) *schema.PoolToken {
	return &schema.PoolToken{
		PoolID:  pt.PoolID,
		Token:   domain.AddressHex(pt.Token),
		Balance: pt.Balance,
	}
}

func poolTokenFromSchema(pt *schema.PoolToken) *domain.PoolToken {
	return &domain.PoolToken{
		PoolID:  pt.PoolID,
		Token:   common.HexToAddress(pt.Token),
		Balance: pt.Balance,
	}
}

func tokenToSchema(t *domain.Token) *schema.Token {
	return &schema.Token{
		Address:       domain.AddressHex(t.Address),
		LatestPriceID: t.LatestPriceID,
	}
}

func tokenFromSchema(t *schema.Token) *domain.Token {
	return &domain.Token{
		Address:       common.HexToAddress(t.Address),
		LatestPriceID: t.LatestPriceID,
	}
}

func tokenPriceToSchema(p *domain.TokenPrice) *schema.TokenPrice {
	return &schema.TokenPrice{
		ID:           p.ID,
		PoolID:       p.PoolID,
		Asset:        domain.AddressHex(p.Asset),
		PricingAsset: domain.AddressHex(p.PricingAsset),
		Block:        p.Block,
		Price:        p.Price,
	}
}

func tokenPriceFromSchema(p *schema.TokenPrice) *domain.TokenPrice {
	return &domain.TokenPrice{
		ID:           p.ID,
		PoolID:       p.PoolID,
		Asset:        common.HexToAddress(p.Asset),
		PricingAsset: common.HexToAddress(p.PricingAsset),
		Block:        p.Block,
		Price:        p.Price,
	}
}

func latestPriceToSchema(p *domain.LatestPrice) *schema.LatestPrice {
	return &schema.LatestPrice{
		ID:           p.ID,
		Asset:        domain.AddressHex(p.Asset),
		PricingAsset: domain.AddressHex(p.PricingAsset),
		Price:        p.Price,
		Block:        p.Block,
		PoolID:       p.PoolID,
	}
}

func latestPriceFromSchema(p *schema.LatestPrice) *domain.LatestPrice {
	return &domain.LatestPrice{
		ID:           p.ID,
		Asset:        common.HexToAddress(p.Asset),
		PricingAsset: common.HexToAddress(p.PricingAsset),
		Price:        p.Price,
		Block:        p.Block,
		PoolID:       p.PoolID,
	}
}

func historicalLiquidityToSchema(r *domain.PoolHistoricalLiquidity) *schema.PoolHistoricalLiquidity {
	return &schema.PoolHistoricalLiquidity{
		ID:              r.ID,
		PoolID:          r.PoolID,
		PricingAsset:    domain.AddressHex(r.PricingAsset),
		Block:           r.Block,
		PoolTotalShares: r.PoolTotalShares,
		PoolLiquidity:   r.PoolLiquidity,
		PoolShareValue:  r.PoolShareValue,
	}
}

func historicalLiquidityFromSchema(r *schema.PoolHistoricalLiquidity) *domain.PoolHistoricalLiquidity {
	return &domain.PoolHistoricalLiquidity{
		ID:              r.ID,
		PoolID:          r.PoolID,
		PricingAsset:    common.HexToAddress(r.PricingAsset),
		Block:           r.Block,
		PoolTotalShares: r.PoolTotalShares,
		PoolLiquidity:   r.PoolLiquidity,
		PoolShareValue:  r.PoolShareValue,
	}
}

func vaultToSchema(v *domain.Vault) *schema.Vault {
	return &schema.Vault{
		ID:              v.ID,
		Address:         domain.AddressHex(v.Address),
		PoolCount:       v.PoolCount,
		TotalLiquidity:  v.TotalLiquidity,
		TotalSwapVolume: v.TotalSwapVolume,
		TotalSwapCount:  v.TotalSwapCount,
	}
}

func vaultFromSchema(v *schema.Vault) *domain.Vault {
	return &domain.Vault{
		ID:              v.ID,
		Address:         common.HexToAddress(v.Address),
		PoolCount:       v.PoolCount,
		TotalLiquidity:  v.TotalLiquidity,
		TotalSwapVolume: v.TotalSwapVolume,
		TotalSwapCount:  v.TotalSwapCount,
	}
}

func poolSnapshotToSchema(s *domain.PoolSnapshot) *schema.PoolSnapshot {
	return &schema.PoolSnapshot{
		ID:             s.ID,
		PoolID:         s.PoolID,
		TotalShares:    s.TotalShares,
		TotalLiquidity: s.TotalLiquidity,
		SwapVolume:     s.SwapVolume,
		Timestamp:      s.Timestamp,
	}
}

func vaultSnapshotToSchema(s *domain.VaultSnapshot) *schema.VaultSnapshot {
	return &schema.VaultSnapshot{
		ID:             s.ID,
		VaultID:        s.VaultID,
		TotalLiquidity: s.TotalLiquidity,
		Timestamp:      s.Timestamp,
	}
}
