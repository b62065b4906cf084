// Package snapshots maintains daily rollups of pool and vault state.
package snapshots

import (
	"context"
	"fmt"
	"time"

	"github.com/rumble-exchange/rumble-indexer/internal/domain"
	"github.com/rumble-exchange/rumble-indexer/internal/store"
)

// A day bucket is the event timestamp truncated to the UTC day.
const secondsPerDay = 86400

// Service writes one snapshot row per entity per day, overwriting the
// row in place as later events land in the same bucket.
type Service struct {
	store store.Store
}

// NewService creates a snapshot service over the given store
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// DayTimestamp returns the start of the UTC day containing ts.
func DayTimestamp(ts time.Time) time.Time {
	day := ts.Unix() / secondsPerDay * secondsPerDay
	return time.Unix(day, 0).UTC()
}

// TakePoolSnapshot upserts the pool's snapshot row for the day of ts.
func (s *Service) TakePoolSnapshot(ctx context.Context, pool *domain.Pool, ts time.Time) error {
	day := DayTimestamp(ts)
	snapshot := &domain.PoolSnapshot{
		ID:             domain.PoolSnapshotID(pool.ID, day.Unix()),
		PoolID:         pool.ID,
		TotalShares:    pool.TotalShares,
		TotalLiquidity: pool.TotalLiquidity,
		SwapVolume:     pool.TotalSwapVolume,
		Timestamp:      day,
	}
	if err := s.store.UpsertPoolSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("upsert pool snapshot %s: %w", snapshot.ID, err)
	}
	return nil
}

// TakeVaultSnapshot upserts the vault's snapshot row for the day of ts.
func (s *Service) TakeVaultSnapshot(ctx context.Context, vault *domain.Vault, ts time.Time) error {
	day := DayTimestamp(ts)
	snapshot := &domain.VaultSnapshot{
		ID:             domain.VaultSnapshotID(vault.ID, day.Unix()),
		VaultID:        vault.ID,
		TotalLiquidity: vault.TotalLiquidity,
		Timestamp:      day,
	}
	if err := s.store.UpsertVaultSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("upsert vault snapshot %s: %w", snapshot.ID, err)
	}
	return nil
}
