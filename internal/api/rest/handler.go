package rest

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/rumble-exchange/rumble-indexer/internal/api/rest/dto"
	"github.com/rumble-exchange/rumble-indexer/internal/config"
	"github.com/rumble-exchange/rumble-indexer/internal/domain"
	"github.com/rumble-exchange/rumble-indexer/internal/store"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// ListPools retrieves pools ordered by total liquidity
	// GET /api/v1/pools?limit=<limit>&offset=<offset>
	ListPools(c *gin.Context)

	// GetPool retrieves a single pool by its ID
	// GET /api/v1/pools/:id
	GetPool(c *gin.Context)

	// GetPoolLiquidity retrieves a pool's historical valuation records
	// GET /api/v1/pools/:id/liquidity?limit=<limit>&offset=<offset>
	GetPoolLiquidity(c *gin.Context)

	// GetLatestPrice retrieves the cached price for a directed asset pair
	// GET /api/v1/prices/latest?asset=<address>&pricing_asset=<address>
	GetLatestPrice(c *gin.Context)

	// GetVault retrieves the protocol-wide aggregate
	// GET /api/v1/vault
	GetVault(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	store  store.Store
	assets config.NetworkAssets
}

// NewHandler creates a new REST API handler
func NewHandler(s store.Store, assets config.NetworkAssets) Handler {
	return &handler{
		store:  s,
		assets: assets,
	}
}

// ListPools retrieves pools ordered by total liquidity
func (h *handler) ListPools(c *gin.Context) {
	limit, offset, err := parsePagination(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	pools, err := h.store.ListPools(c.Request.Context(), limit, offset)
	if err != nil {
		respondInternalError(c, err, "Failed to list pools")
		return
	}

	out := make([]*dto.Pool, 0, len(pools))
	for _, pool := range pools {
		out = append(out, dto.FromPool(pool))
	}
	c.JSON(http.StatusOK, gin.H{"pools": out})
}

// GetPool retrieves a single pool by its ID
func (h *handler) GetPool(c *gin.Context) {
	poolID := c.Param("id")
	if poolID == "" {
		respondBadRequest(c, "Pool ID is required")
		return
	}

	pool, err := h.store.GetPool(c.Request.Context(), poolID)
	if err != nil {
		respondInternalError(c, err, "Failed to get pool")
		return
	}
	if pool == nil {
		respondNotFound(c, "Pool not found")
		return
	}

	c.JSON(http.StatusOK, dto.FromPool(pool))
}

// GetPoolLiquidity retrieves a pool's historical valuation records
func (h *handler) GetPoolLiquidity(c *gin.Context) {
	poolID := c.Param("id")
	if poolID == "" {
		respondBadRequest(c, "Pool ID is required")
		return
	}

	limit, offset, err := parsePagination(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	pool, err := h.store.GetPool(c.Request.Context(), poolID)
	if err != nil {
		respondInternalError(c, err, "Failed to get pool")
		return
	}
	if pool == nil {
		respondNotFound(c, "Pool not found")
		return
	}

	records, err := h.store.ListPoolHistoricalLiquidity(c.Request.Context(), poolID, limit, offset)
	if err != nil {
		respondInternalError(c, err, "Failed to list historical liquidity")
		return
	}

	out := make([]*dto.HistoricalLiquidity, 0, len(records))
	for _, record := range records {
		out = append(out, dto.FromHistoricalLiquidity(record))
	}
	c.JSON(http.StatusOK, gin.H{"pool_id": poolID, "liquidity": out})
}

// GetLatestPrice retrieves the cached price for a directed asset pair
func (h *handler) GetLatestPrice(c *gin.Context) {
	asset := c.Query("asset")
	pricingAsset := c.Query("pricing_asset")
	if !common.IsHexAddress(asset) || !common.IsHexAddress(pricingAsset) {
		respondBadRequest(c, "asset and pricing_asset must be valid addresses")
		return
	}

	id := domain.LatestPriceID(common.HexToAddress(asset), common.HexToAddress(pricingAsset))
	price, err := h.store.GetLatestPrice(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "Failed to get latest price")
		return
	}
	if price == nil {
		respondNotFound(c, "No price recorded for this pair")
		return
	}

	c.JSON(http.StatusOK, dto.FromLatestPrice(price))
}

// GetVault retrieves the protocol-wide aggregate
func (h *handler) GetVault(c *gin.Context) {
	vault, err := h.store.GetOrCreateVault(c.Request.Context(), h.assets.Vault)
	if err != nil {
		respondInternalError(c, err, "Failed to get vault")
		return
	}

	c.JSON(http.StatusOK, dto.FromVault(vault))
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
