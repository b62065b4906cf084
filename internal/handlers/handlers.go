// Package handlers applies decoded vault events to the indexed state.
package handlers

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rumble-exchange/rumble-indexer/internal/config"
	"github.com/rumble-exchange/rumble-indexer/internal/domain"
	"github.com/rumble-exchange/rumble-indexer/internal/logger"
	"github.com/rumble-exchange/rumble-indexer/internal/pricing"
	"github.com/rumble-exchange/rumble-indexer/internal/store"
)

// Processor applies events one at a time, in arrival order. Handlers
// wrap domain.ErrPoolNotFound and domain.ErrInvalidEvent for conditions
// that cannot succeed on retry; the consumer terminates those messages
// instead of redelivering them.
type Processor struct {
	store  store.Store
	engine *pricing.Engine
	assets config.NetworkAssets
}

// NewProcessor creates an event processor
func NewProcessor(s store.Store, engine *pricing.Engine, assets config.NetworkAssets) *Processor {
	return &Processor{
		store:  s,
		engine: engine,
		assets: assets,
	}
}

// ProcessEvent validates and dispatches a single vault event, then
// advances the block cursor for the event's network.
func (p *Processor) ProcessEvent(ctx context.Context, event *domain.VaultEvent) error {
	if !event.Valid() {
		return fmt.Errorf("%w: type %q pool %q", domain.ErrInvalidEvent, event.Type, event.PoolID)
	}

	var err error
	switch event.Type {
	case domain.EventTypePoolRegistered:
		err = p.handlePoolRegistered(ctx, event)
	case domain.EventTypeSwap:
		err = p.handleSwap(ctx, event)
	case domain.EventTypePoolBalanceChanged:
		err = p.handlePoolBalanceChanged(ctx, event)
	default:
		err = fmt.Errorf("%w: unknown type %q", domain.ErrInvalidEvent, event.Type)
	}
	if err != nil {
		return err
	}

	return p.store.SetBlockCursor(ctx, string(event.Network), event.Block)
}

func (p *Processor) handlePoolRegistered(ctx context.Context, event *domain.VaultEvent) error {
	existing, err := p.store.GetPool(ctx, event.PoolID)
	if err != nil {
		return fmt.Errorf("get pool %s: %w", event.PoolID, err)
	}
	if existing != nil {
		// Redelivery of a registration already applied.
		return nil
	}

	reg := event.Registration
	pool := &domain.Pool{
		ID:         event.PoolID,
		Address:    reg.PoolAddress,
		PoolType:   reg.PoolType,
		TokensList: reg.Tokens,
		CreatedAt:  event.Timestamp,
	}
	if err := p.store.SavePool(ctx, pool); err != nil {
		return fmt.Errorf("save pool %s: %w", event.PoolID, err)
	}

	for _, token := range reg.Tokens {
		if err := p.ensureToken(ctx, token); err != nil {
			return err
		}
		if err := p.store.SavePoolToken(ctx, &domain.PoolToken{
			PoolID:  event.PoolID,
			Token:   token,
			Balance: decimal.Zero,
		}); err != nil {
			return fmt.Errorf("save pool token %s/%s: %w", event.PoolID, domain.AddressHex(token), err)
		}
	}

	vault, err := p.store.GetOrCreateVault(ctx, p.assets.Vault)
	if err != nil {
		return fmt.Errorf("get vault: %w", err)
	}
	vault.PoolCount++
	if err := p.store.SaveVault(ctx, vault); err != nil {
		return fmt.Errorf("save vault: %w", err)
	}

	logger.InfoCtx(ctx, "pool registered",
		zap.String("pool_id", event.PoolID),
		zap.String("pool_type", string(reg.PoolType)),
		zap.Int("tokens", len(reg.Tokens)))
	return nil
}

func (p *Processor) handleSwap(ctx context.Context, event *domain.VaultEvent) error {
	pool, err := p.store.GetPool(ctx, event.PoolID)
	if err != nil {
		return fmt.Errorf("get pool %s: %w", event.PoolID, err)
	}
	if pool == nil {
		return fmt.Errorf("%w: swap for %s", domain.ErrPoolNotFound, event.PoolID)
	}

	swap := event.Swap
	if err := p.applyBalanceDelta(ctx, event.PoolID, swap.TokenIn, swap.AmountIn); err != nil {
		return err
	}
	if err := p.applyBalanceDelta(ctx, event.PoolID, swap.TokenOut, swap.AmountOut.Neg()); err != nil {
		return err
	}

	// A trade against a pricing asset realizes a price for the other
	// leg. Both directions can fire on a pricing-asset-to-pricing-asset
	// trade.
	if swap.AmountIn.IsPositive() && swap.AmountOut.IsPositive() {
		if p.engine.IsPricingAsset(swap.TokenOut) {
			price := swap.AmountOut.Div(swap.AmountIn)
			if err := p.engine.RecordObservedPrice(ctx, event.PoolID, swap.TokenIn, swap.TokenOut, event.Block, price); err != nil {
				return err
			}
		}
		if p.engine.IsPricingAsset(swap.TokenIn) {
			price := swap.AmountIn.Div(swap.AmountOut)
			if err := p.engine.RecordObservedPrice(ctx, event.PoolID, swap.TokenOut, swap.TokenIn, event.Block, price); err != nil {
				return err
			}
		}
	}

	swapUSD, err := p.engine.SwapValueInUSD(ctx, swap.TokenIn, swap.AmountIn, swap.TokenOut, swap.AmountOut)
	if err != nil {
		return err
	}

	pool, err = p.store.GetPool(ctx, event.PoolID)
	if err != nil {
		return fmt.Errorf("get pool %s: %w", event.PoolID, err)
	}
	pool.TotalSwapVolume = pool.TotalSwapVolume.Add(swapUSD)
	if err := p.store.SavePool(ctx, pool); err != nil {
		return fmt.Errorf("save pool %s: %w", event.PoolID, err)
	}

	vault, err := p.store.GetOrCreateVault(ctx, p.assets.Vault)
	if err != nil {
		return fmt.Errorf("get vault: %w", err)
	}
	vault.TotalSwapVolume = vault.TotalSwapVolume.Add(swapUSD)
	vault.TotalSwapCount++
	if err := p.store.SaveVault(ctx, vault); err != nil {
		return fmt.Errorf("save vault: %w", err)
	}

	for _, asset := range []common.Address{swap.TokenIn, swap.TokenOut} {
		if !p.engine.IsPricingAsset(asset) {
			continue
		}
		if err := p.revalue(ctx, event, asset); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) handlePoolBalanceChanged(ctx context.Context, event *domain.VaultEvent) error {
	pool, err := p.store.GetPool(ctx, event.PoolID)
	if err != nil {
		return fmt.Errorf("get pool %s: %w", event.PoolID, err)
	}
	if pool == nil {
		return fmt.Errorf("%w: balance change for %s", domain.ErrPoolNotFound, event.PoolID)
	}

	change := event.BalanceChange
	for i, token := range change.Tokens {
		if err := p.applyBalanceDelta(ctx, event.PoolID, token, change.Deltas[i]); err != nil {
			return err
		}
	}

	for _, asset := range pool.TokensList {
		if !p.engine.IsPricingAsset(asset) {
			continue
		}
		if err := p.revalue(ctx, event, asset); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) revalue(ctx context.Context, event *domain.VaultEvent, pricingAsset common.Address) error {
	ok, err := p.engine.UpdatePoolLiquidity(ctx, event.PoolID, event.Block, pricingAsset, event.Timestamp)
	if err != nil {
		return err
	}
	if !ok {
		logger.DebugCtx(ctx, "pool not revalued",
			zap.String("pool_id", event.PoolID),
			zap.String("pricing_asset", domain.AddressHex(pricingAsset)),
			zap.Uint64("block", event.Block))
	}
	return nil
}

func (p *Processor) applyBalanceDelta(ctx context.Context, poolID string, token common.Address, delta decimal.Decimal) error {
	poolToken, err := p.store.GetPoolToken(ctx, poolID, token)
	if err != nil {
		return fmt.Errorf("get pool token %s/%s: %w", poolID, domain.AddressHex(token), err)
	}
	if poolToken == nil {
		poolToken = &domain.PoolToken{PoolID: poolID, Token: token}
	}
	poolToken.Balance = poolToken.Balance.Add(delta)
	if err := p.store.SavePoolToken(ctx, poolToken); err != nil {
		return fmt.Errorf("save pool token %s/%s: %w", poolID, domain.AddressHex(token), err)
	}
	return nil
}

func (p *Processor) ensureToken(ctx context.Context, address common.Address) error {
	token, err := p.store.GetToken(ctx, address)
	if err != nil {
		return fmt.Errorf("get token %s: %w", domain.AddressHex(address), err)
	}
	if token != nil {
		return nil
	}
	if err := p.store.SaveToken(ctx, &domain.Token{Address: address}); err != nil {
		return fmt.Errorf("save token %s: %w", domain.AddressHex(address), err)
	}
	return nil
}
