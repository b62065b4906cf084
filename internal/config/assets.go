package config

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/rumble-exchange/rumble-indexer/internal/domain"
)

// NetworkAssets is the fixed, network-specific address table the pricing
// engine is configured with. A zero address means the asset does not
// exist on that deployment.
type NetworkAssets struct {
	Vault common.Address

	WETH common.Address
	WBTC common.Address
	USDC common.Address
	USDT common.Address
	DAI  common.Address
	BAL  common.Address

	AltDAI  common.Address
	AltUSDC common.Address
	AltUSDT common.Address

	LinearDAI  common.Address
	LinearUSDC common.Address
	LinearUSDT common.Address
}

var avalancheAssets = NetworkAssets{
	Vault: common.HexToAddress("0x83e04C35BC67dba37Aa296EA5f37984f648f691B"),
	WETH:  common.HexToAddress("0x49d5c2bdffac6ce2bfdb6640f4f80f226bc10bab"),
	WBTC:  common.HexToAddress("0x50b7545627a5162F82A992c33b87aDc75187B218"),
	USDC:  common.HexToAddress("0xA7D7079b0FEaD91F3e65f86E8915Cb59c1a4C664"),
	USDT:  common.HexToAddress("0xc7198437980c041c805A1EDcbA50c1Ce5db95118"),
	DAI:   common.HexToAddress("0xd586e7f844cea2f87f50152665bcbc2c279d8d70"),
	// BAL and the alt/linear wrappers are not deployed on Avalanche
}

var devAssets = NetworkAssets{
	Vault: common.HexToAddress("0xa0B05b20e511B1612E908dFCeE0E407E22B76028"),
	WETH:  common.HexToAddress("0x4CDDb3505Cf09ee0Fa0877061eB654839959B9cd"),
	WBTC:  common.HexToAddress("0xcD80986f08d776CE41698c47f705CDc99dDBfB0A"),
	USDC:  common.HexToAddress("0x7c0c5AdA758cf764EcD6bAC05b63b2482f90bBB2"),
	USDT:  common.HexToAddress("0x7c0c5AdA758cf764EcD6bAC05b63b2482f90bBB2"),
	DAI:   common.HexToAddress("0x5C0E66606eAbEC1df45E2ADd26C5DF8C0895a397"),
	BAL:   common.HexToAddress("0xf702269193081364E355f862f2CFbFCdC5DB738C"),
}

// AssetsForNetwork resolves the address table for a network identifier.
// Resolved once at process start.
func AssetsForNetwork(network domain.Network) (NetworkAssets, error) {
	switch network {
	case domain.NetworkAvalanche:
		return avalancheAssets, nil
	case domain.NetworkDev:
		return devAssets, nil
	default:
		return NetworkAssets{}, domain.ErrUnknownNetwork
	}
}

// PricingAssets returns the assets usable as an intermediate unit of
// account, in configuration order. Order matters: USD conversion scans
// stable assets in this fixed order and takes the first match.
func (a NetworkAssets) PricingAssets() []common.Address {
	return filterConfigured([]common.Address{
		a.WETH, a.WBTC, a.USDC, a.DAI, a.USDT, a.BAL,
		a.AltDAI, a.AltUSDC, a.AltUSDT,
		a.LinearDAI, a.LinearUSDC, a.LinearUSDT,
	})
}

// USDStableAssets returns the subset of pricing assets treated as pegged
// 1:1 to USD, in configuration order.
func (a NetworkAssets) USDStableAssets() []common.Address {
	return filterConfigured([]common.Address{
		a.USDC, a.DAI, a.USDT,
		a.AltDAI, a.AltUSDC, a.AltUSDT,
	})
}

func filterConfigured(addrs []common.Address) []common.Address {
	out := make([]common.Address, 0, len(addrs))
	for _, addr := range addrs {
		if addr == (common.Address{}) {
			continue
		}
		out = append(out, addr)
	}
	return out
}
