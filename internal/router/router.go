package router

import (
	"fmt"
	"strings"

	"github.com/purinorder/purinorder/internal/cache"
	"github.com/purinorder/purinorder/internal/config"
	adminhandlers "github.com/purinorder/purinorder/internal/http/handlers/admin"
	publichandlers "github.com/purinorder/purinorder/internal/http/handlers/public"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with every storefront and back
// office route.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "purin"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "Đăng nhập quá nhiều lần, vui lòng thử lại sau",
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: 60,
		MaxRequests:   10,
		Message:       "Thao tác quá nhanh, vui lòng thử lại sau",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	uploadDir := strings.TrimSpace(cfg.Upload.Dir)
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.Static("/uploads", uploadDir)

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetShopConfig)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/listings", publicHandler.GetListings)
			public.GET("/listings/:code", publicHandler.GetListing)
			public.POST("/listings", publicHandler.SubmitListing)
			public.POST("/affiliates/register", publicHandler.RegisterAffiliate)
			public.POST("/upload/payment-proof", publicHandler.UploadPaymentProof)
		}

		guest := apiV1.Group("/guest")
		{
			guest.POST("/checkout/preview", publicHandler.PreviewCheckout)
			guest.POST("/checkout", RateLimitMiddleware(redisClient, checkoutRule, KeyByIP), publicHandler.CreateCheckout)
			guest.GET("/orders/track", publicHandler.TrackOrder)
			guest.GET("/orders", publicHandler.ListOrdersByPhone)
		}

		admin := apiV1.Group("/admin")
		{
			admin.GET("/captcha", adminHandler.GetCaptcha)
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), adminHandler.Login)

			authorized := admin.Use(AdminJWTAuthMiddleware(c.AuthService))
			{
				authorized.GET("/me", adminHandler.Me)
				authorized.PUT("/password", adminHandler.ChangePassword)

				authorized.GET("/dashboard/overview", adminHandler.GetDashboardOverview)
				authorized.GET("/dashboard/trends", adminHandler.GetDashboardTrends)
				authorized.GET("/dashboard/top-products", adminHandler.GetDashboardTopProducts)

				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/orders/merge-candidates", adminHandler.GetMergeCandidates)
				authorized.POST("/orders/merge", adminHandler.MergeOrders)
				authorized.GET("/orders/:id", adminHandler.GetOrder)
				authorized.GET("/orders/:id/history", adminHandler.GetOrderHistory)
				authorized.PATCH("/orders/:id/payment-status", adminHandler.UpdateOrderPaymentStatus)
				authorized.PATCH("/orders/:id/progress", adminHandler.UpdateOrderProgress)
				authorized.PUT("/orders/:id", adminHandler.UpdateOrderDetails)

				authorized.GET("/products", adminHandler.ListProducts)
				authorized.GET("/products/expiring", adminHandler.ListExpiringProducts)
				authorized.POST("/products/sync", adminHandler.SyncProductsFromFeed)
				authorized.POST("/products/push", adminHandler.PushProductsToFeed)
				authorized.GET("/products/:id", adminHandler.GetProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)

				authorized.GET("/discounts", adminHandler.ListDiscounts)
				authorized.GET("/discounts/:id", adminHandler.GetDiscount)
				authorized.POST("/discounts", adminHandler.CreateDiscount)
				authorized.PUT("/discounts/:id", adminHandler.UpdateDiscount)
				authorized.DELETE("/discounts/:id", adminHandler.DeleteDiscount)

				authorized.GET("/affiliates", adminHandler.ListAffiliates)
				authorized.POST("/affiliates/recompute-rates", adminHandler.RecomputeAffiliateRates)
				authorized.GET("/affiliates/:id", adminHandler.GetAffiliate)
				authorized.GET("/affiliates/:id/orders", adminHandler.ListAffiliateOrders)
				authorized.PATCH("/affiliates/:id/status", adminHandler.ModerateAffiliate)
				authorized.PUT("/affiliates/:id", adminHandler.UpdateAffiliate)
				authorized.POST("/affiliates/:id/pay", adminHandler.PayAffiliateCommission)

				authorized.GET("/listings", adminHandler.ListListings)
				authorized.GET("/listings/:id", adminHandler.GetListing)
				authorized.PATCH("/listings/:id/status", adminHandler.ModerateListing)
				authorized.PUT("/listings/:id", adminHandler.UpdateListing)
				authorized.DELETE("/listings/:id", adminHandler.DeleteListing)

				authorized.GET("/settings/:key", adminHandler.GetSetting)
				authorized.PUT("/settings/:key", adminHandler.SetSetting)
				authorized.POST("/settings/email/test", adminHandler.SendTestEmail)

				authorized.POST("/upload", adminHandler.UploadFile)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
