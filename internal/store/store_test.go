package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumble-exchange/rumble-indexer/internal/domain"
)

// =============================================================================
// Test Data Builders
// =============================================================================

var (
	testWETH  = common.HexToAddress("0x49D5c2BdFfac6CE2BFdB6640F4F80f226bc10bAB")
	testUSDC  = common.HexToAddress("0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E")
	testVaultAddress = common.HexToAddress("0xad68ea482860cd7077a5D0684313dD3a9BC70fbB")
)

func buildTestPool(id string, poolType domain.PoolType) *domain.Pool {
	return &domain.Pool{
		ID:              id,
		Address:         common.HexToAddress("0x" + id[len(id)-40:]),
		PoolType:        poolType,
		TokensList:      []common.Address{testWETH, testUSDC},
		TotalShares:     decimal.RequireFromString("100"),
		TotalLiquidity:  decimal.Zero,
		TotalSwapVolume: decimal.Zero,
		SwapFee:         decimal.RequireFromString("0.003"),
		CreatedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}
}

func buildTestTokenPrice(poolID string, block uint64, price string) *domain.TokenPrice {
	return &domain.TokenPrice{
		ID:           domain.TokenPriceID(poolID, testWETH, testUSDC, block),
		PoolID:       poolID,
		Asset:        testWETH,
		PricingAsset: testUSDC,
		Block:        block,
		Price:        decimal.RequireFromString(price),
	}
}

// =============================================================================
// Test: Pools
// =============================================================================

func testPools(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("missing pool returns nil without error", func(t *testing.T) {
		pool, err := s.GetPool(ctx, "ffffffffffffffffffffffffffffffffffffffff000200000000000000000000")
		require.NoError(t, err)
		assert.Nil(t, pool)
	})

	t.Run("save and reload pool", func(t *testing.T) {
		pool := buildTestPool("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa000200000000000000000001", domain.PoolTypeWeighted)
		require.NoError(t, s.SavePool(ctx, pool))

		got, err := s.GetPool(ctx, pool.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, pool.ID, got.ID)
		assert.Equal(t, pool.Address, got.Address)
		assert.Equal(t, domain.PoolTypeWeighted, got.PoolType)
		assert.Equal(t, pool.TokensList, got.TokensList)
		assert.True(t, got.TotalShares.Equal(pool.TotalShares))
	})

	t.Run("save overwrites in place", func(t *testing.T) {
		pool := buildTestPool("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb000200000000000000000002", domain.PoolTypeStable)
		require.NoError(t, s.SavePool(ctx, pool))

		pool.TotalLiquidity = decimal.RequireFromString("2000000")
		require.NoError(t, s.SavePool(ctx, pool))

		got, err := s.GetPool(ctx, pool.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.TotalLiquidity.Equal(decimal.RequireFromString("2000000")))
	})

	t.Run("list pools ordered by liquidity with pagination", func(t *testing.T) {
		for i, liq := range []string{"10", "30", "20"} {
			id := fmt.Sprintf("cccccccccccccccccccccccccccccccccccccccc00020000000000000000000%d", 3+i)
			pool := buildTestPool(id, domain.PoolTypeWeighted)
			pool.TotalLiquidity = decimal.RequireFromString(liq)
			require.NoError(t, s.SavePool(ctx, pool))
		}

		pools, err := s.ListPools(ctx, 2, 0)
		require.NoError(t, err)
		require.Len(t, pools, 2)
		assert.True(t, pools[0].TotalLiquidity.GreaterThanOrEqual(pools[1].TotalLiquidity))
	})

	t.Run("list pools with no limit returns everything", func(t *testing.T) {
		pools, err := s.ListPools(ctx, 0, 0)
		require.NoError(t, err)
		// Pools from the preceding subtests.
		require.Len(t, pools, 5)
	})
}

// =============================================================================
// Test: PoolTokens
// =============================================================================

func testPoolTokens(t *testing.T, s Store) {
	ctx := context.Background()
	poolID := "dddddddddddddddddddddddddddddddddddddddd000200000000000000000006"

	t.Run("missing pool token returns nil without error", func(t *testing.T) {
		pt, err := s.GetPoolToken(ctx, poolID, testWETH)
		require.NoError(t, err)
		assert.Nil(t, pt)
	})

	t.Run("save and reload balance", func(t *testing.T) {
		pt := &domain.PoolToken{
			PoolID:  poolID,
			Token:   testWETH,
			Balance: decimal.RequireFromString("1000"),
		}
		require.NoError(t, s.SavePoolToken(ctx, pt))

		got, err := s.GetPoolToken(ctx, poolID, testWETH)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Balance.Equal(decimal.RequireFromString("1000")))

		pt.Balance = decimal.RequireFromString("1250")
		require.NoError(t, s.SavePoolToken(ctx, pt))

		got, err = s.GetPoolToken(ctx, poolID, testWETH)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Balance.Equal(decimal.RequireFromString("1250")))
	})
}

// =============================================================================
// Test: Tokens
// =============================================================================

func testTokens(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("missing token returns nil without error", func(t *testing.T) {
		token, err := s.GetToken(ctx, common.HexToAddress("0x00000000000000000000000000000000000000ff"))
		require.NoError(t, err)
		assert.Nil(t, token)
	})

	t.Run("save and relink latest price pointer", func(t *testing.T) {
		token := &domain.Token{Address: testWETH}
		require.NoError(t, s.SaveToken(ctx, token))

		token.LatestPriceID = domain.LatestPriceID(testWETH, testUSDC)
		require.NoError(t, s.SaveToken(ctx, token))

		got, err := s.GetToken(ctx, testWETH)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.LatestPriceID(testWETH, testUSDC), got.LatestPriceID)
	})
}

// =============================================================================
// Test: TokenPrices
// =============================================================================

func testTokenPrices(t *testing.T, s Store) {
	ctx := context.Background()
	poolID := "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee000200000000000000000007"

	t.Run("insert is idempotent on the derived key", func(t *testing.T) {
		price := buildTestTokenPrice(poolID, 500, "2000")
		require.NoError(t, s.InsertTokenPrice(ctx, price))

		// Same key, different value. The first write wins.
		replay := buildTestTokenPrice(poolID, 500, "9999")
		require.NoError(t, s.InsertTokenPrice(ctx, replay))

		got, err := s.GetTokenPrice(ctx, price.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("2000")))
	})

	t.Run("distinct blocks produce distinct samples", func(t *testing.T) {
		require.NoError(t, s.InsertTokenPrice(ctx, buildTestTokenPrice(poolID, 501, "2010")))

		got, err := s.GetTokenPrice(ctx, domain.TokenPriceID(poolID, testWETH, testUSDC, 501))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("2010")))
	})
}

// =============================================================================
// Test: LatestPrices
// =============================================================================

func testLatestPrices(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("key is directional", func(t *testing.T) {
		forward := &domain.LatestPrice{
			ID:           domain.LatestPriceID(testWETH, testUSDC),
			Asset:        testWETH,
			PricingAsset: testUSDC,
			Price:        decimal.RequireFromString("2000"),
			Block:        100,
		}
		reverse := &domain.LatestPrice{
			ID:           domain.LatestPriceID(testUSDC, testWETH),
			Asset:        testUSDC,
			PricingAsset: testWETH,
			Price:        decimal.RequireFromString("0.0005"),
			Block:        100,
		}
		require.NoError(t, s.SaveLatestPrice(ctx, forward))
		require.NoError(t, s.SaveLatestPrice(ctx, reverse))

		got, err := s.GetLatestPrice(ctx, forward.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("2000")))

		got, err = s.GetLatestPrice(ctx, reverse.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("0.0005")))
	})

	t.Run("newer observation overwrites", func(t *testing.T) {
		price := &domain.LatestPrice{
			ID:           domain.LatestPriceID(testWETH, testUSDC),
			Asset:        testWETH,
			PricingAsset: testUSDC,
			Price:        decimal.RequireFromString("2100"),
			Block:        101,
		}
		require.NoError(t, s.SaveLatestPrice(ctx, price))

		got, err := s.GetLatestPrice(ctx, price.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("2100")))
		assert.Equal(t, uint64(101), got.Block)
	})
}

// =============================================================================
// Test: PoolHistoricalLiquidity
// =============================================================================

func testHistoricalLiquidity(t *testing.T, s Store) {
	ctx := context.Background()
	poolID := "abababababababababababababababababababab000200000000000000000008"

	t.Run("append only with idempotent replay", func(t *testing.T) {
		record := &domain.PoolHistoricalLiquidity{
			ID:              domain.PoolHistoricalLiquidityID(poolID, testUSDC, 700),
			PoolID:          poolID,
			PricingAsset:    testUSDC,
			Block:           700,
			PoolTotalShares: decimal.RequireFromString("100"),
			PoolLiquidity:   decimal.RequireFromString("4000000"),
			PoolShareValue:  decimal.RequireFromString("40000"),
		}
		require.NoError(t, s.InsertPoolHistoricalLiquidity(ctx, record))

		replay := *record
		replay.PoolLiquidity = decimal.RequireFromString("123")
		require.NoError(t, s.InsertPoolHistoricalLiquidity(ctx, &replay))

		records, err := s.ListPoolHistoricalLiquidity(ctx, poolID, 0, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].PoolLiquidity.Equal(decimal.RequireFromString("4000000")))
	})

	t.Run("listing orders by block", func(t *testing.T) {
		for _, block := range []uint64{720, 710} {
			require.NoError(t, s.InsertPoolHistoricalLiquidity(ctx, &domain.PoolHistoricalLiquidity{
				ID:           domain.PoolHistoricalLiquidityID(poolID, testUSDC, block),
				PoolID:       poolID,
				PricingAsset: testUSDC,
				Block:        block,
			}))
		}

		records, err := s.ListPoolHistoricalLiquidity(ctx, poolID, 0, 0)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, uint64(700), records[0].Block)
		assert.Equal(t, uint64(710), records[1].Block)
		assert.Equal(t, uint64(720), records[2].Block)
	})
}

// =============================================================================
// Test: Vault
// =============================================================================

func testVault(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("get or create is a singleton", func(t *testing.T) {
		vault, err := s.GetOrCreateVault(ctx, testVaultAddress)
		require.NoError(t, err)
		require.NotNil(t, vault)
		assert.Equal(t, domain.VaultID, vault.ID)
		assert.Equal(t, testVaultAddress, vault.Address)

		vault.PoolCount = 3
		vault.TotalSwapCount = 42
		require.NoError(t, s.SaveVault(ctx, vault))

		again, err := s.GetOrCreateVault(ctx, testVaultAddress)
		require.NoError(t, err)
		require.NotNil(t, again)
		assert.Equal(t, 3, again.PoolCount)
		assert.Equal(t, uint64(42), again.TotalSwapCount)
	})
}

// =============================================================================
// Test: Snapshots
// =============================================================================

func testSnapshots(t *testing.T, s Store) {
	ctx := context.Background()
	poolID := "cdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcd000200000000000000000009"
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("pool snapshot upsert", func(t *testing.T) {
		snapshot := &domain.PoolSnapshot{
			ID:             domain.PoolSnapshotID(poolID, day.Unix()),
			PoolID:         poolID,
			TotalShares:    decimal.RequireFromString("100"),
			TotalLiquidity: decimal.RequireFromString("50000"),
			SwapVolume:     decimal.RequireFromString("1200"),
			Timestamp:      day,
		}
		require.NoError(t, s.UpsertPoolSnapshot(ctx, snapshot))

		snapshot.SwapVolume = decimal.RequireFromString("1500")
		require.NoError(t, s.UpsertPoolSnapshot(ctx, snapshot))
	})

	t.Run("vault snapshot upsert", func(t *testing.T) {
		snapshot := &domain.VaultSnapshot{
			ID:             domain.VaultSnapshotID(domain.VaultID, day.Unix()),
			VaultID:        domain.VaultID,
			TotalLiquidity: decimal.RequireFromString("9000000"),
			Timestamp:      day,
		}
		require.NoError(t, s.UpsertVaultSnapshot(ctx, snapshot))
		require.NoError(t, s.UpsertVaultSnapshot(ctx, snapshot))
	})
}

// =============================================================================
// Test: BlockCursor
// =============================================================================

func testBlockCursor(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("unset cursor is zero", func(t *testing.T) {
		cursor, err := s.GetBlockCursor(ctx, "avalanche")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), cursor)
	})

	t.Run("set and advance", func(t *testing.T) {
		require.NoError(t, s.SetBlockCursor(ctx, "avalanche", 12345))
		require.NoError(t, s.SetBlockCursor(ctx, "avalanche", 12350))

		cursor, err := s.GetBlockCursor(ctx, "avalanche")
		require.NoError(t, err)
		assert.Equal(t, uint64(12350), cursor)

		other, err := s.GetBlockCursor(ctx, "dev")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), other)
	})
}

// RunStoreTests runs the shared suite against a Store implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"Pools", testPools},
		{"PoolTokens", testPoolTokens},
		{"Tokens", testTokens},
		{"TokenPrices", testTokenPrices},
		{"LatestPrices", testLatestPrices},
		{"HistoricalLiquidity", testHistoricalLiquidity},
		{"Vault", testVault},
		{"Snapshots", testSnapshots},
		{"BlockCursor", testBlockCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
