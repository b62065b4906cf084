package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/pools", handler.ListPools)
		v1.GET("/pools/:id", handler.GetPool)
		v1.GET("/pools/:id/liquidity", handler.GetPoolLiquidity)

		v1.GET("/prices/latest", handler.GetLatestPrice)

		v1.GET("/vault", handler.GetVault)
	}
}
