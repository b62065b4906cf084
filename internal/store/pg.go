package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rumble-exchange/rumble-indexer/internal/domain"
	"github.com/rumble-exchange/rumble-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Pool{},
		&schema.PoolToken{},
		&schema.Token{},
		&schema.TokenPrice{},
		&schema.LatestPrice{},
		&schema.PoolHistoricalLiquidity{},
		&schema.Vault{},
		&schema.PoolSnapshot{},
		&schema.VaultSnapshot{},
		&schema.BlockCursor{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a
// GORM database connection. Zero values fall back to defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return nil
}

// GetPool retrieves a pool by its vault-assigned identifier
func (s *pgStore) GetPool(ctx context.Context, poolID string) (*domain.Pool, error) {
	var pool schema.Pool
	err := s.db.WithContext(ctx).Where("id = ?", poolID).First(&pool).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	return poolFromSchema(&pool), nil
}

// SavePool creates or overwrites a pool record
func (s *pgStore) SavePool(ctx context.Context, pool *domain.Pool) error {
	row := poolToSchema(pool)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tokens_list", "total_shares", "total_liquidity", "total_swap_volume", "swap_fee", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to save pool: %w", err)
	}
	return nil
}

// listLimit maps the interface convention (limit <= 0 means no limit)
// to gorm, where Limit(0) emits LIMIT 0 and Limit(-1) clears the clause.
func listLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// ListPools retrieves pools ordered by total liquidity descending
func (s *pgStore) ListPools(ctx context.Context, limit, offset int) ([]*domain.Pool, error) {
	var rows []schema.Pool
	err := s.db.WithContext(ctx).
		Order("total_liquidity DESC").
		Limit(listLimit(limit)).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	pools := make([]*domain.Pool, len(rows))
	for i := range rows {
		pools[i] = poolFromSchema(&rows[i])
	}
	return pools, nil
}

// GetPoolToken retrieves the balance record for one (pool, token) pair
func (s *pgStore) GetPoolToken(ctx context.Context, poolID string, token common.Address) (*domain.PoolToken, error) {
	var row schema.PoolToken
	err := s.db.WithContext(ctx).
		Where("pool_id = ? AND token = ?", poolID, domain.AddressHex(token)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pool token: %w", err)
	}
	return poolTokenFromSchema(&row), nil
}

// SavePoolToken creates or overwrites a balance record
func (s *pgStore) SavePoolToken(ctx context.Context, poolToken *domain.PoolToken) error {
	row := poolTokenToSchema(poolToken)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pool_id"}, {Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to save pool token: %w", err)
	}
	return nil
}

// GetToken retrieves a token registry record by address
func (s *pgStore) GetToken(ctx context.Context, address common.Address) (*domain.Token, error) {
	var row schema.Token
	err := s.db.WithContext(ctx).Where("address = ?", domain.AddressHex(address)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return tokenFromSchema(&row), nil
}

// SaveToken creates or overwrites a token registry record
func (s *pgStore) SaveToken(ctx context.Context, token *domain.Token) error {
	row := tokenToSchema(token)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"latest_price_id"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// GetTokenPrice retrieves an immutable price sample by its deterministic ID
func (s *pgStore) GetTokenPrice(ctx context.Context, id string) (*domain.TokenPrice, error) {
	var row schema.TokenPrice
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token price: %w", err)
	}
	return tokenPriceFromSchema(&row), nil
}

// InsertTokenPrice appends a price sample. The key is deterministic, so
// re-inserting the same sample during event reprocessing is a no-op.
func (s *pgStore) InsertTokenPrice(ctx context.Context, price *domain.TokenPrice) error {
	row := tokenPriceToSchema(price)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to insert token price: %w", err)
	}
	return nil
}

// GetLatestPrice retrieves the live cache entry for a directed asset pair
func (s *pgStore) GetLatestPrice(ctx context.Context, id string) (*domain.LatestPrice, error) {
	var row schema.LatestPrice
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest price: %w", err)
	}
	return latestPriceFromSchema(&row), nil
}

// SaveLatestPrice creates or overwrites the cache entry in place
func (s *pgStore) SaveLatestPrice(ctx context.Context, price *domain.LatestPrice) error {
	row := latestPriceToSchema(price)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "block", "pool_id"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to save latest price: %w", err)
	}
	return nil
}

// InsertPoolHistoricalLiquidity appends a valuation snapshot; a duplicate key is a no-op
func (s *pgStore) InsertPoolHistoricalLiquidity(ctx context.Context, record *domain.PoolHistoricalLiquidity) error {
	row := historicalLiquidityToSchema(record)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to insert historical liquidity: %w", err)
	}
	return nil
}

// ListPoolHistoricalLiquidity retrieves a pool's valuation history ordered by block ascending
func (s *pgStore) ListPoolHistoricalLiquidity(ctx context.Context, poolID string, limit, offset int) ([]*domain.PoolHistoricalLiquidity, error) {
	var rows []schema.PoolHistoricalLiquidity
	err := s.db.WithContext(ctx).
		Where("pool_id = ?", poolID).
		Order("block ASC").
		Limit(listLimit(limit)).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list historical liquidity: %w", err)
	}

	records := make([]*domain.PoolHistoricalLiquidity, len(rows))
	for i := range rows {
		records[i] = historicalLiquidityFromSchema(&rows[i])
	}
	return records, nil
}

// GetOrCreateVault retrieves the protocol aggregate, creating the
// well-known singleton row on first access
func (s *pgStore) GetOrCreateVault(ctx context.Context, address common.Address) (*domain.Vault, error) {
	row := schema.Vault{
		ID:      domain.VaultID,
		Address: domain.AddressHex(address),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create vault: %w", err)
	}

	err = s.db.WithContext(ctx).Where("id = ?", domain.VaultID).First(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}
	return vaultFromSchema(&row), nil
}

// SaveVault overwrites the protocol aggregate
func (s *pgStore) SaveVault(ctx context.Context, vault *domain.Vault) error {
	row := vaultToSchema(vault)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"pool_count", "total_liquidity", "total_swap_volume", "total_swap_count", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to save vault: %w", err)
	}
	return nil
}

// UpsertPoolSnapshot creates or overwrites a pool's daily rollup
func (s *pgStore) UpsertPoolSnapshot(ctx context.Context, snapshot *domain.PoolSnapshot) error {
	row := poolSnapshotToSchema(snapshot)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_shares", "total_liquidity", "swap_volume"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert pool snapshot: %w", err)
	}
	return nil
}

// UpsertVaultSnapshot creates or overwrites the aggregate's daily rollup
func (s *pgStore) UpsertVaultSnapshot(ctx context.Context, snapshot *domain.VaultSnapshot) error {
	row := vaultSnapshotToSchema(snapshot)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_liquidity"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert vault snapshot: %w", err)
	}
	return nil
}

// GetBlockCursor retrieves the last processed block number for a network
func (s *pgStore) GetBlockCursor(ctx context.Context, network string) (uint64, error) {
	var cursor schema.BlockCursor
	err := s.db.WithContext(ctx).Where("network = ?", network).First(&cursor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil // Return 0 if no cursor exists
		}
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	return cursor.BlockNumber, nil
}

// SetBlockCursor stores the last processed block number for a network
func (s *pgStore) SetBlockCursor(ctx context.Context, network string, blockNumber uint64) error {
	cursor := schema.BlockCursor{
		Network:     network,
		BlockNumber: blockNumber,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "network"}},
		DoUpdates: clause.AssignmentColumns([]string{"block_number", "updated_at"}),
	}).Create(&cursor).Error
	if err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}

	return nil
}
