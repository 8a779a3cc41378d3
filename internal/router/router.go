package router

import (
	"fmt"
	"strings"

	"github.com/mealbox-next/internal/cache"
	"github.com/mealbox-next/internal/config"
	"github.com/mealbox-next/internal/constants"
	publichandlers "github.com/mealbox-next/internal/http/handlers/public"
	"github.com/mealbox-next/internal/logger"
	"github.com/mealbox-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mb"
	}
	redisClient := cache.Client()
	checkoutCodeRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout_code", redisPrefix),
		WindowSeconds: cfg.Checkout.RateLimit.WindowSeconds,
		MaxRequests:   cfg.Checkout.RateLimit.MaxRequests,
		BlockSeconds:  cfg.Checkout.RateLimit.BlockSeconds,
		Message:       "too many code requests",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 会话与目录（无需会话头）
		apiV1.POST("/session", publicHandler.CreateSession)
		apiV1.GET("/restaurants", publicHandler.GetRestaurants)
		apiV1.GET("/restaurants/:slug", publicHandler.GetRestaurantBySlug)
		apiV1.GET("/delivery-slots", publicHandler.GetDeliverySlots)

		// 购物车（需 X-Cart-Session 头）
		cart := apiV1.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.DELETE("", publicHandler.ClearCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PUT("/items/quantity", publicHandler.UpdateCartItemQuantity)
			cart.DELETE("/items", publicHandler.DeleteCartItem)
			cart.DELETE("/groups", publicHandler.DeleteCartDateGroup)
			cart.PUT("/groups/delivery-time", publicHandler.ChangeDeliveryTime)
			cart.PUT("/groups/expanded", publicHandler.SetGroupExpanded)
			cart.PUT("/recurring", publicHandler.SetRecurring)
			cart.PUT("/recurring/frequency", publicHandler.SetRecurringFrequency)
		}

		// 结算
		checkout := apiV1.Group("/checkout")
		{
			checkout.GET("/preview", publicHandler.GetCheckoutPreview)
			checkout.POST("/request-code",
				RateLimitMiddleware(redisClient, checkoutCodeRule, KeyByCartSession(constants.CartSessionHeader)),
				publicHandler.RequestCheckoutCode)
			checkout.POST("/confirm", publicHandler.ConfirmCheckout)
		}

		// 订单
		apiV1.GET("/orders", publicHandler.ListOrders)
		apiV1.GET("/orders/:order_no", publicHandler.GetOrderByOrderNo)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
