package pricing_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumble-exchange/rumble-indexer/internal/config"
	"github.com/rumble-exchange/rumble-indexer/internal/domain"
	"github.com/rumble-exchange/rumble-indexer/internal/logger"
	"github.com/rumble-exchange/rumble-indexer/internal/pricing"
	"github.com/rumble-exchange/rumble-indexer/internal/snapshots"
	"github.com/rumble-exchange/rumble-indexer/internal/store"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

var (
	testTimestamp = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	// An address outside the configured asset table.
	unlistedToken = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

type testEnv struct {
	engine *pricing.Engine
	store  store.Store
	assets config.NetworkAssets
}

func setupTest(t *testing.T) *testEnv {
	assets, err := config.AssetsForNetwork(domain.NetworkAvalanche)
	require.NoError(t, err)

	s := store.NewMemoryStore()
	return &testEnv{
		engine: pricing.NewEngine(s, snapshots.NewService(s), assets),
		store:  s,
		assets: assets,
	}
}

func (env *testEnv) savePool(t *testing.T, id string, poolType domain.PoolType, address common.Address, totalShares string, tokens ...common.Address) *domain.Pool {
	pool := &domain.Pool{
		ID:          id,
		Address:     address,
		PoolType:    poolType,
		TokensList:  tokens,
		TotalShares: decimal.RequireFromString(totalShares),
	}
	require.NoError(t, env.store.SavePool(context.Background(), pool))
	return pool
}

func (env *testEnv) saveBalance(t *testing.T, poolID string, token common.Address, balance string) {
	require.NoError(t, env.store.SavePoolToken(context.Background(), &domain.PoolToken{
		PoolID:  poolID,
		Token:   token,
		Balance: decimal.RequireFromString(balance),
	}))
}

func (env *testEnv) saveLatestPrice(t *testing.T, asset, pricingAsset common.Address, price string, block uint64) {
	require.NoError(t, env.store.SaveLatestPrice(context.Background(), &domain.LatestPrice{
		ID:           domain.LatestPriceID(asset, pricingAsset),
		Asset:        asset,
		PricingAsset: pricingAsset,
		Price:        decimal.RequireFromString(price),
		Block:        block,
	}))
}

// =============================================================================
// Asset classification
// =============================================================================

func TestEngine_AssetClassification(t *testing.T) {
	env := setupTest(t)

	t.Run("pricing assets include volatile and stable members", func(t *testing.T) {
		assert.True(t, env.engine.IsPricingAsset(env.assets.WETH))
		assert.True(t, env.engine.IsPricingAsset(env.assets.WBTC))
		assert.True(t, env.engine.IsPricingAsset(env.assets.USDC))
		assert.False(t, env.engine.IsPricingAsset(unlistedToken))
	})

	t.Run("usd stables are a strict subset", func(t *testing.T) {
		assert.True(t, env.engine.IsUSDStable(env.assets.USDC))
		assert.True(t, env.engine.IsUSDStable(env.assets.DAI))
		assert.True(t, env.engine.IsUSDStable(env.assets.USDT))
		assert.False(t, env.engine.IsUSDStable(env.assets.WETH))
		assert.False(t, env.engine.IsUSDStable(env.assets.WBTC))
		assert.False(t, env.engine.IsUSDStable(unlistedToken))
	})

	t.Run("classification is stable across calls", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.True(t, env.engine.IsPricingAsset(env.assets.WETH))
			assert.False(t, env.engine.IsUSDStable(env.assets.WETH))
		}
	})
}

// =============================================================================
// Price repository
// =============================================================================

func TestEngine_RecordObservedPrice(t *testing.T) {
	ctx := context.Background()
	env := setupTest(t)
	poolID := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa000200000000000000000001"

	t.Run("writes sample and refreshes cache", func(t *testing.T) {
		err := env.engine.RecordObservedPrice(ctx, poolID, env.assets.WETH, env.assets.USDC, 100, decimal.RequireFromString("2000"))
		require.NoError(t, err)

		sample, err := env.store.GetTokenPrice(ctx, domain.TokenPriceID(poolID, env.assets.WETH, env.assets.USDC, 100))
		require.NoError(t, err)
		require.NotNil(t, sample)
		assert.True(t, sample.Price.Equal(decimal.RequireFromString("2000")))

		latest, err := env.store.GetLatestPrice(ctx, domain.LatestPriceID(env.assets.WETH, env.assets.USDC))
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.True(t, latest.Price.Equal(decimal.RequireFromString("2000")))
		assert.Equal(t, uint64(100), latest.Block)
		assert.Equal(t, poolID, latest.PoolID)

		token, err := env.store.GetToken(ctx, env.assets.WETH)
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, latest.ID, token.LatestPriceID)
	})

	t.Run("later observation supersedes the cache but not the sample", func(t *testing.T) {
		err := env.engine.RecordObservedPrice(ctx, poolID, env.assets.WETH, env.assets.USDC, 101, decimal.RequireFromString("2100"))
		require.NoError(t, err)

		first, err := env.store.GetTokenPrice(ctx, domain.TokenPriceID(poolID, env.assets.WETH, env.assets.USDC, 100))
		require.NoError(t, err)
		require.NotNil(t, first)
		assert.True(t, first.Price.Equal(decimal.RequireFromString("2000")))

		latest, err := env.store.GetLatestPrice(ctx, domain.LatestPriceID(env.assets.WETH, env.assets.USDC))
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.True(t, latest.Price.Equal(decimal.RequireFromString("2100")))
		assert.Equal(t, uint64(101), latest.Block)
	})

	t.Run("recording a pair does not satisfy the reverse lookup", func(t *testing.T) {
		reverse, err := env.store.GetLatestPrice(ctx, domain.LatestPriceID(env.assets.USDC, env.assets.WETH))
		require.NoError(t, err)
		assert.Nil(t, reverse)
	})
}

// =============================================================================
// USD conversion
// =============================================================================

func TestEngine_ValueInUSD(t *testing.T) {
	ctx := context.Background()

	t.Run("stable assets convert 1:1", func(t *testing.T) {
		env := setupTest(t)
		for _, stable := range []common.Address{env.assets.USDC, env.assets.DAI, env.assets.USDT} {
			value, err := env.engine.ValueInUSD(ctx, decimal.RequireFromString("123.45"), stable)
			require.NoError(t, err)
			assert.True(t, value.Equal(decimal.RequireFromString("123.45")))
		}
	})

	t.Run("non-stable chains through first stable with a cached price", func(t *testing.T) {
		env := setupTest(t)
		env.saveLatestPrice(t, env.assets.WETH, env.assets.USDC, "2000", 50)

		value, err := env.engine.ValueInUSD(ctx, decimal.RequireFromString("3"), env.assets.WETH)
		require.NoError(t, err)
		assert.True(t, value.Equal(decimal.RequireFromString("6000")))
	})

	t.Run("stables are scanned in configuration order", func(t *testing.T) {
		env := setupTest(t)
		// USDC comes before DAI. Both have cached prices; USDC wins.
		env.saveLatestPrice(t, env.assets.WETH, env.assets.DAI, "1990", 50)
		env.saveLatestPrice(t, env.assets.WETH, env.assets.USDC, "2000", 50)

		value, err := env.engine.ValueInUSD(ctx, decimal.NewFromInt(1), env.assets.WETH)
		require.NoError(t, err)
		assert.True(t, value.Equal(decimal.RequireFromString("2000")))
	})

	t.Run("no price path yields zero", func(t *testing.T) {
		env := setupTest(t)
		value, err := env.engine.ValueInUSD(ctx, decimal.RequireFromString("999"), env.assets.WETH)
		require.NoError(t, err)
		assert.True(t, value.IsZero())
	})

	t.Run("reverse direction of a recorded pair is not a path", func(t *testing.T) {
		env := setupTest(t)
		// Cached (USDC, WETH) must not serve a (WETH, stable) scan.
		env.saveLatestPrice(t, env.assets.USDC, env.assets.WETH, "0.0005", 50)

		value, err := env.engine.ValueInUSD(ctx, decimal.NewFromInt(1), env.assets.WETH)
		require.NoError(t, err)
		assert.True(t, value.IsZero())
	})
}

// =============================================================================
// Swap valuation
// =============================================================================

func TestEngine_SwapValueInUSD(t *testing.T) {
	ctx := context.Background()

	t.Run("stable out leg is authoritative", func(t *testing.T) {
		env := setupTest(t)
		value, err := env.engine.SwapValueInUSD(ctx, env.assets.WETH, decimal.NewFromInt(1), env.assets.USDC, decimal.RequireFromString("1995"))
		require.NoError(t, err)
		assert.True(t, value.Equal(decimal.RequireFromString("1995")))
	})

	t.Run("stable in leg is used when out is not stable", func(t *testing.T) {
		env := setupTest(t)
		value, err := env.engine.SwapValueInUSD(ctx, env.assets.USDC, decimal.RequireFromString("2005"), env.assets.WETH, decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.True(t, value.Equal(decimal.RequireFromString("2005")))
	})

	t.Run("both legs positive are averaged", func(t *testing.T) {
		env := setupTest(t)
		env.saveLatestPrice(t, env.assets.WETH, env.assets.USDC, "2000", 50)
		env.saveLatestPrice(t, env.assets.WBTC, env.assets.USDC, "30000", 50)

		// 1 WETH in, 0.07 WBTC out: (2000 + 2100) / 2
		value, err := env.engine.SwapValueInUSD(ctx, env.assets.WETH, decimal.NewFromInt(1), env.assets.WBTC, decimal.RequireFromString("0.07"))
		require.NoError(t, err)
		assert.True(t, value.Equal(decimal.RequireFromString("2050")))

		inUSD, err := env.engine.ValueInUSD(ctx, decimal.NewFromInt(1), env.assets.WETH)
		require.NoError(t, err)
		outUSD, err := env.engine.ValueInUSD(ctx, decimal.RequireFromString("0.07"), env.assets.WBTC)
		require.NoError(t, err)
		assert.True(t, value.Equal(inUSD.Add(outUSD).Div(decimal.NewFromInt(2))))
	})

	t.Run("single resolved leg is not diluted", func(t *testing.T) {
		env := setupTest(t)
		env.saveLatestPrice(t, env.assets.WETH, env.assets.USDC, "2000", 50)

		// WBTC leg has no price path; WETH leg stands alone.
		value, err := env.engine.SwapValueInUSD(ctx, env.assets.WETH, decimal.NewFromInt(1), env.assets.WBTC, decimal.RequireFromString("0.07"))
		require.NoError(t, err)
		assert.True(t, value.Equal(decimal.RequireFromString("2000")))
	})

	t.Run("no resolved leg yields zero", func(t *testing.T) {
		env := setupTest(t)
		value, err := env.engine.SwapValueInUSD(ctx, env.assets.WETH, decimal.NewFromInt(1), env.assets.WBTC, decimal.RequireFromString("0.07"))
		require.NoError(t, err)
		assert.True(t, value.IsZero())
	})
}
