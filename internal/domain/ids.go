package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Entity keys are deterministic so that reprocessing the same event
// derives the same record instead of a duplicate. Addresses are encoded
// as lowercase hex, fields joined with "-".

// AddressHex returns the canonical lowercase hex encoding of an address
func AddressHex(a common.Address) string {
	return strings.ToLower(a.Hex())
}

// LatestPriceID builds the directed cache key for (asset, pricingAsset).
// The key is directional: no symmetric fallback is performed on lookup.
func LatestPriceID(asset, pricingAsset common.Address) string {
	return AddressHex(asset) + "-" + AddressHex(pricingAsset)
}

// TokenPriceID builds the key of a price sample realized in a pool at a block
func TokenPriceID(poolID string, asset, pricingAsset common.Address, block uint64) string {
	return fmt.Sprintf("%s-%s-%s-%d", poolID, AddressHex(asset), AddressHex(pricingAsset), block)
}

// PoolHistoricalLiquidityID builds the key of a historical liquidity record
func PoolHistoricalLiquidityID(poolID string, pricingAsset common.Address, block uint64) string {
	return fmt.Sprintf("%s-%s-%d", poolID, AddressHex(pricingAsset), block)
}

// PoolSnapshotID builds the key of a pool's daily snapshot
func PoolSnapshotID(poolID string, dayTimestamp int64) string {
	return fmt.Sprintf("%s-%d", poolID, dayTimestamp)
}

// VaultSnapshotID builds the key of the aggregate's daily snapshot
func VaultSnapshotID(vaultID string, dayTimestamp int64) string {
	return fmt.Sprintf("%s-%d", vaultID, dayTimestamp)
}
