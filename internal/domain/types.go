package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Network identifies the deployment the indexer runs against
type Network string

const (
	NetworkAvalanche Network = "avalanche"
	NetworkDev       Network = "dev"
)

// IsValidNetwork checks if a network is valid
func IsValidNetwork(network Network) bool {
	return network == NetworkAvalanche || network == NetworkDev
}

// PoolType represents the pool variant registered with the vault
type PoolType string

const (
	PoolTypeWeighted               PoolType = "weighted"
	PoolTypeStable                 PoolType = "stable"
	PoolTypeMetaStable             PoolType = "meta_stable"
	PoolTypeLiquidityBootstrapping PoolType = "liquidity_bootstrapping"
	PoolTypeInvestment             PoolType = "investment"
	PoolTypeStablePhantom          PoolType = "stable_phantom"
	PoolTypeLinear                 PoolType = "linear"
)

// IsValid checks if a pool type is one of the known variants
func (t PoolType) IsValid() bool {
	switch t {
	case PoolTypeWeighted, PoolTypeStable, PoolTypeMetaStable,
		PoolTypeLiquidityBootstrapping, PoolTypeInvestment,
		PoolTypeStablePhantom, PoolTypeLinear:
		return true
	}
	return false
}

// HasVirtualSupply reports whether pools of this type hold their own
// pool token among their constituents. That balance is unminted supply
// and carries no backing value.
func (t PoolType) HasVirtualSupply() bool {
	return t == PoolTypeStablePhantom || t == PoolTypeLinear
}

// EventType represents the type of vault event
type EventType string

const (
	EventTypeSwap               EventType = "swap"
	EventTypePoolBalanceChanged EventType = "pool_balance_changed"
	EventTypePoolRegistered     EventType = "pool_registered"
)

// SwapEvent is a single trade executed against a pool
type SwapEvent struct {
	TokenIn   common.Address  `json:"token_in"`
	TokenOut  common.Address  `json:"token_out"`
	AmountIn  decimal.Decimal `json:"amount_in"`
	AmountOut decimal.Decimal `json:"amount_out"`
}

// PoolBalanceChangedEvent is a join or exit that moved pool balances.
// Deltas are signed: positive on join, negative on exit.
type PoolBalanceChangedEvent struct {
	Tokens []common.Address  `json:"tokens"`
	Deltas []decimal.Decimal `json:"deltas"`
}

// PoolRegisteredEvent announces a new pool registered with the vault
type PoolRegisteredEvent struct {
	PoolAddress common.Address   `json:"pool_address"`
	PoolType    PoolType         `json:"pool_type"`
	Tokens      []common.Address `json:"tokens"`
}

// VaultEvent is a normalized, decoded vault event.
// This is the standard format published to NATS by the event decoder.
type VaultEvent struct {
	Network   Network     `json:"network"`
	Type      EventType   `json:"type"`
	PoolID    string      `json:"pool_id"`
	TxHash    common.Hash `json:"tx_hash"`
	LogIndex  uint        `json:"log_index"`
	Block     uint64      `json:"block"`     // block number
	Timestamp time.Time   `json:"timestamp"` // block timestamp

	// Exactly one of the following is set, matching Type
	Swap          *SwapEvent               `json:"swap,omitempty"`
	BalanceChange *PoolBalanceChangedEvent `json:"balance_change,omitempty"`
	Registration  *PoolRegisteredEvent     `json:"registration,omitempty"`
}

// Valid reports whether the event carries a consistent payload for its type
func (e *VaultEvent) Valid() bool {
	if e.PoolID == "" || e.Block == 0 {
		return false
	}
	if !IsValidNetwork(e.Network) {
		return false
	}

	switch e.Type {
	case EventTypeSwap:
		if e.Swap == nil {
			return false
		}
		if e.Swap.TokenIn == e.Swap.TokenOut {
			return false
		}
		if e.Swap.AmountIn.IsNegative() || e.Swap.AmountOut.IsNegative() {
			return false
		}
	case EventTypePoolBalanceChanged:
		if e.BalanceChange == nil {
			return false
		}
		if len(e.BalanceChange.Tokens) == 0 {
			return false
		}
		if len(e.BalanceChange.Tokens) != len(e.BalanceChange.Deltas) {
			return false
		}
	case EventTypePoolRegistered:
		if e.Registration == nil {
			return false
		}
		if !e.Registration.PoolType.IsValid() {
			return false
		}
	default:
		return false
	}

	return true
}
