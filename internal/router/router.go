package router

import (
	"fmt"
	"strings"

	"github.com/prostore-next/internal/cache"
	"github.com/prostore-next/internal/config"
	adminhandlers "github.com/prostore-next/internal/http/handlers/admin"
	publichandlers "github.com/prostore-next/internal/http/handlers/public"
	"github.com/prostore-next/internal/logger"
	"github.com/prostore-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ps"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（商品图片）
	r.Static("/uploads", "./uploads")

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/latest", publicHandler.ListLatestProducts)
			public.GET("/products/featured", publicHandler.ListFeaturedProducts)
			public.GET("/products/categories", publicHandler.ListCategories)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/reviews/:product_id", publicHandler.ListProductReviews)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 购物车接口（登录用户与游客共用）
		cart := apiV1.Group("/cart")
		cart.Use(OptionalUserAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), SessionCartMiddleware(cfg.Cart))
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.DELETE("/items/:product_id", publicHandler.RemoveCartItem)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		auth.Use(SessionCartMiddleware(cfg.Cart))
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.POST("/auth/logout", publicHandler.UserLogout)
			user.GET("/me", publicHandler.GetProfile)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.PUT("/me/address", publicHandler.UpdateShippingAddress)
			user.PUT("/me/payment-method", publicHandler.UpdatePaymentMethod)
			user.POST("/orders", publicHandler.PlaceOrder)
			user.GET("/orders", publicHandler.ListMyOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/paypal", publicHandler.CreatePayPalOrder)
			user.POST("/orders/:id/paypal/capture", publicHandler.ApprovePayPalOrder)
			user.POST("/orders/:id/stripe", publicHandler.CreateStripeIntent)
			user.POST("/orders/:id/stripe/sync", publicHandler.SyncStripeIntent)
			user.POST("/reviews", publicHandler.SaveReview)
			user.GET("/reviews/:product_id/mine", publicHandler.GetMyProductReview)
		}

		apiV1.POST("/payments/webhook/stripe", publicHandler.StripeWebhook)

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			authorized := admin.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), AdminRBACMiddleware(c.AuthzService))
			{
				// 仪表盘
				authorized.GET("/dashboard", adminHandler.AdminGetDashboard)

				// 商品管理
				authorized.GET("/products", adminHandler.AdminListProducts)
				authorized.GET("/products/:id", adminHandler.AdminGetProduct)
				authorized.POST("/products", adminHandler.AdminCreateProduct)
				authorized.PUT("/products/:id", adminHandler.AdminUpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.AdminDeleteProduct)

				// 订单管理
				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.PUT("/orders/:id/pay", adminHandler.AdminMarkOrderPaid)
				authorized.PUT("/orders/:id/deliver", adminHandler.AdminMarkOrderDelivered)
				authorized.DELETE("/orders/:id", adminHandler.AdminDeleteOrder)

				// 用户管理
				authorized.GET("/users", adminHandler.AdminListUsers)
				authorized.GET("/users/:id", adminHandler.AdminGetUser)
				authorized.PUT("/users/:id", adminHandler.AdminUpdateUser)
				authorized.DELETE("/users/:id", adminHandler.AdminDeleteUser)
			}
		}
	}

	return r
}
