package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rumble-exchange/rumble-indexer/internal/domain"
)

// memoryStore is a map-backed Store used by tests and local development.
// It mirrors the persistence disciplines of the PostgreSQL store:
// Insert* is a no-op on an existing key, Save* overwrites in place.
type memoryStore struct {
	mu sync.RWMutex

	pools               map[string]domain.Pool
	poolTokens          map[string]domain.PoolToken // keyed by poolID + "-" + token hex
	tokens              map[common.Address]domain.Token
	tokenPrices         map[string]domain.TokenPrice
	latestPrices        map[string]domain.LatestPrice
	historicalLiquidity map[string]domain.PoolHistoricalLiquidity
	vault               *domain.Vault
	poolSnapshots       map[string]domain.PoolSnapshot
	vaultSnapshots      map[string]domain.VaultSnapshot
	blockCursors        map[string]uint64
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() Store {
	return &memoryStore{
		pools:               make(map[string]domain.Pool),
		poolTokens:          make(map[string]domain.PoolToken),
		tokens:              make(map[common.Address]domain.Token),
		tokenPrices:         make(map[string]domain.TokenPrice),
		latestPrices:        make(map[string]domain.LatestPrice),
		historicalLiquidity: make(map[string]domain.PoolHistoricalLiquidity),
		poolSnapshots:       make(map[string]domain.PoolSnapshot),
		vaultSnapshots:      make(map[string]domain.VaultSnapshot),
		blockCursors:        make(map[string]uint64),
	}
}

func poolTokenKey(poolID string, token common.Address) string {
	return poolID + "-" + domain.AddressHex(token)
}

func (s *memoryStore) GetPool(_ context.Context, poolID string) (*domain.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, ok := s.pools[poolID]
	if !ok {
		return nil, nil
	}
	pool.TokensList = append([]common.Address(nil), pool.TokensList...)
	return &pool, nil
}

func (s *memoryStore) SavePool(_ context.Context, pool *domain.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *pool
	stored.TokensList = append([]common.Address(nil), pool.TokensList...)
	s.pools[pool.ID] = stored
	return nil
}

func (s *memoryStore) ListPools(_ context.Context, limit, offset int) ([]*domain.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pools := make([]*domain.Pool, 0, len(s.pools))
	for id := range s.pools {
		pool := s.pools[id]
		pools = append(pools, &pool)
	}
	sort.Slice(pools, func(i, j int) bool {
		return pools[i].TotalLiquidity.GreaterThan(pools[j].TotalLiquidity)
	})

	return paginate(pools, limit, offset), nil
}

func (s *memoryStore) GetPoolToken(_ context.Context, poolID string, token common.Address) (*domain.PoolToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pt, ok := s.poolTokens[poolTokenKey(poolID, token)]
	if !ok {
		return nil, nil
	}
	return &pt, nil
}

func (s *memoryStore) SavePoolToken(_ context.Context, poolToken *domain.PoolToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.poolTokens[poolTokenKey(poolToken.PoolID, poolToken.Token)] = *poolToken
	return nil
}

func (s *memoryStore) GetToken(_ context.Context, address common.Address) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[address]
	if !ok {
		return nil, nil
	}
	return &token, nil
}

func (s *memoryStore) SaveToken(_ context.Context, token *domain.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token.Address] = *token
	return nil
}

func (s *memoryStore) GetTokenPrice(_ context.Context, id string) (*domain.TokenPrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	price, ok := s.tokenPrices[id]
	if !ok {
		return nil, nil
	}
	return &price, nil
}

func (s *memoryStore) InsertTokenPrice(_ context.Context, price *domain.TokenPrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokenPrices[price.ID]; exists {
		return nil
	}
	s.tokenPrices[price.ID] = *price
	return nil
}

func (s *memoryStore) GetLatestPrice(_ context.Context, id string) (*domain.LatestPrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	price, ok := s.latestPrices[id]
	if !ok {
		return nil, nil
	}
	return &price, nil
}

func (s *memoryStore) SaveLatestPrice(_ context.Context, price *domain.LatestPrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latestPrices[price.ID] = *price
	return nil
}

func (s *memoryStore) InsertPoolHistoricalLiquidity(_ context.Context, record *domain.PoolHistoricalLiquidity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.historicalLiquidity[record.ID]; exists {
		return nil
	}
	s.historicalLiquidity[record.ID] = *record
	return nil
}

func (s *memoryStore) ListPoolHistoricalLiquidity(_ context.Context, poolID string, limit, offset int) ([]*domain.PoolHistoricalLiquidity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*domain.PoolHistoricalLiquidity, 0)
	for id := range s.historicalLiquidity {
		record := s.historicalLiquidity[id]
		if record.PoolID == poolID {
			records = append(records, &record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Block < records[j].Block
	})

	return paginate(records, limit, offset), nil
}

func (s *memoryStore) GetOrCreateVault(_ context.Context, address common.Address) (*domain.Vault, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vault == nil {
		s.vault = &domain.Vault{
			ID:      domain.VaultID,
			Address: address,
		}
	}
	vault := *s.vault
	return &vault, nil
}

func (s *memoryStore) SaveVault(_ context.Context, vault *domain.Vault) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *vault
	s.vault = &stored
	return nil
}

func (s *memoryStore) UpsertPoolSnapshot(_ context.Context, snapshot *domain.PoolSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.poolSnapshots[snapshot.ID] = *snapshot
	return nil
}

func (s *memoryStore) UpsertVaultSnapshot(_ context.Context, snapshot *domain.VaultSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vaultSnapshots[snapshot.ID] = *snapshot
	return nil
}

func (s *memoryStore) GetBlockCursor(_ context.Context, network string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.blockCursors[network], nil
}

func (s *memoryStore) SetBlockCursor(_ context.Context, network string, blockNumber uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blockCursors[network] = blockNumber
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
