package store

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rumble-exchange/rumble-indexer/internal/domain"
)

// Store defines the entity storage interface the valuation engine and the
// API read from. Lookups return (nil, nil) when the entity does not exist.
//
// Two storage disciplines coexist and are never mixed: Insert* methods
// write append-only history (an existing deterministic key makes the
// insert a no-op, so reprocessing an event is idempotent), while Save*
// methods overwrite mutable state in place.
type Store interface {
	// GetPool retrieves a pool by its vault-assigned identifier
	GetPool(ctx context.Context, poolID string) (*domain.Pool, error)
	// SavePool creates or overwrites a pool record
	SavePool(ctx context.Context, pool *domain.Pool) error
	// ListPools retrieves pools ordered by total liquidity descending.
	// A limit <= 0 means no limit.
	ListPools(ctx context.Context, limit, offset int) ([]*domain.Pool, error)

	// GetPoolToken retrieves the balance record for one (pool, token) pair
	GetPoolToken(ctx context.Context, poolID string, token common.Address) (*domain.PoolToken, error)
	// SavePoolToken creates or overwrites a balance record
	SavePoolToken(ctx context.Context, poolToken *domain.PoolToken) error

	// GetToken retrieves a token registry record by address
	GetToken(ctx context.Context, address common.Address) (*domain.Token, error)
	// SaveToken creates or overwrites a token registry record
	SaveToken(ctx context.Context, token *domain.Token) error

	// GetTokenPrice retrieves an immutable price sample by its deterministic ID
	GetTokenPrice(ctx context.Context, id string) (*domain.TokenPrice, error)
	// InsertTokenPrice appends a price sample; a duplicate key is a no-op
	InsertTokenPrice(ctx context.Context, price *domain.TokenPrice) error

	// GetLatestPrice retrieves the live cache entry for a directed asset pair
	GetLatestPrice(ctx context.Context, id string) (*domain.LatestPrice, error)
	// SaveLatestPrice creates or overwrites the cache entry in place
	SaveLatestPrice(ctx context.Context, price *domain.LatestPrice) error

	// InsertPoolHistoricalLiquidity appends a valuation snapshot; a duplicate key is a no-op
	InsertPoolHistoricalLiquidity(ctx context.Context, record *domain.PoolHistoricalLiquidity) error
	// ListPoolHistoricalLiquidity retrieves a pool's valuation history
	// ordered by block ascending. A limit <= 0 means no limit.
	ListPoolHistoricalLiquidity(ctx context.Context, poolID string, limit, offset int) ([]*domain.PoolHistoricalLiquidity, error)

	// GetOrCreateVault retrieves the protocol aggregate, creating the
	// well-known singleton row on first access
	GetOrCreateVault(ctx context.Context, address common.Address) (*domain.Vault, error)
	// SaveVault overwrites the protocol aggregate
	SaveVault(ctx context.Context, vault *domain.Vault) error

	// UpsertPoolSnapshot creates or overwrites a pool's daily rollup
	UpsertPoolSnapshot(ctx context.Context, snapshot *domain.PoolSnapshot) error
	// UpsertVaultSnapshot creates or overwrites the aggregate's daily rollup
	UpsertVaultSnapshot(ctx context.Context, snapshot *domain.VaultSnapshot) error

	// GetBlockCursor retrieves the last processed block number for a network
	GetBlockCursor(ctx context.Context, network string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a network
	SetBlockCursor(ctx context.Context, network string, blockNumber uint64) error
}
