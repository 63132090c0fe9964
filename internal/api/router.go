package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/tradeledger/internal/metrics"
	"github.com/guttosm/tradeledger/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	requestTimeout  = 30 * time.Second
	rateLimitPerMin = 120
)

// NewRouter creates a Gin engine with routes configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, Metrics,
//     ErrorHandler, RateLimiter).
//   - Adds a per-request timeout that cancels the store query.
//   - Mounts Swagger docs (/swagger/*any) and Prometheus (/metrics).
//   - Configures API v1 routes (/api/v1).
//
// Health and readiness endpoints are registered by app.InitializeApp.
func NewRouter(handler *Handler, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.Metrics(m),
		middleware.ErrorHandler,
		middleware.RateLimiter(rateLimitPerMin, time.Minute),
	)

	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/trades", handler.SearchTrades)
	}

	return router
}
