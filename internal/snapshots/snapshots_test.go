package snapshots_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumble-exchange/rumble-indexer/internal/domain"
	"github.com/rumble-exchange/rumble-indexer/internal/snapshots"
	"github.com/rumble-exchange/rumble-indexer/internal/store"
)

func TestDayTimestamp(t *testing.T) {
	t.Run("truncates to start of UTC day", func(t *testing.T) {
		ts := time.Date(2024, 6, 15, 13, 45, 12, 0, time.UTC)
		day := snapshots.DayTimestamp(ts)
		assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), day)
	})

	t.Run("start of day maps to itself", func(t *testing.T) {
		ts := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, ts, snapshots.DayTimestamp(ts))
	})

	t.Run("same day yields same bucket", func(t *testing.T) {
		morning := time.Date(2024, 6, 15, 1, 0, 0, 0, time.UTC)
		evening := time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC)
		assert.Equal(t, snapshots.DayTimestamp(morning), snapshots.DayTimestamp(evening))
	})
}

func TestService_SameDayOverwrites(t *testing.T) {
	ctx := context.Background()
	svc := snapshots.NewService(store.NewMemoryStore())

	pool := &domain.Pool{
		ID:             "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa000200000000000000000001",
		TotalShares:    decimal.RequireFromString("100"),
		TotalLiquidity: decimal.RequireFromString("50000"),
	}
	require.NoError(t, svc.TakePoolSnapshot(ctx, pool, time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)))

	pool.TotalLiquidity = decimal.RequireFromString("52000")
	require.NoError(t, svc.TakePoolSnapshot(ctx, pool, time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)))

	vault := &domain.Vault{
		ID:             domain.VaultID,
		TotalLiquidity: decimal.RequireFromString("9000000"),
	}
	require.NoError(t, svc.TakeVaultSnapshot(ctx, vault, time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)))
}
