package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"storefront/internal/handler"
	"storefront/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CheckoutHandler *handler.CheckoutHandler
	WebhookHandler  *handler.WebhookHandler
	OrderHandler    *handler.OrderHandler
	ProductHandler  *handler.ProductHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		// Webhooks carry their own replay protection (signatures plus the
		// conditional order transition) and must not pass through the
		// idempotency cache.
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/stripe", deps.WebhookHandler.HandleStripe)
		}

		checkout := v1.Group("/checkout")
		checkout.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
		{
			checkout.POST("", deps.CheckoutHandler.CreateCheckout)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("/:id", deps.OrderHandler.GetOrder)
		}

		products := v1.Group("/products")
		{
			products.GET("", deps.ProductHandler.GetAll)
			products.GET("/:id", deps.ProductHandler.GetProduct)
		}
	}

	return router
}
