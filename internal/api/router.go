package api

import (
	"context"
	"net/http"
	"time"

	authHandler "recipe-box/internal/api/handlers/auth"
	"recipe-box/internal/api/handlers/health"
	recipeHandler "recipe-box/internal/api/handlers/recipe"
	"recipe-box/internal/api/middleware"
	"recipe-box/internal/core/account"
	coreauth "recipe-box/internal/core/auth"
	"recipe-box/internal/core/image"
	recipeService "recipe-box/internal/core/recipe"
	"recipe-box/internal/infrastructure/cache"
	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (50MB，與原始部署一致：食譜內嵌 base64 圖片)
	maxBodySize = 50 << 20
	// 遠端圖片驗證逾時
	remoteImageTimeout = 10 * time.Second
	// 靜態頁面目錄
	webDir = "web"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, store account.Store, cacheStore cache.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// 初始化服務
	authSvc := coreauth.NewService(store, &cfg.Auth)

	imageProcessor := image.NewProcessor(&cfg.Image)

	var fetcher *image.Fetcher
	if cfg.Image.ValidateRemote {
		fetcher = image.NewFetcher(remoteImageTimeout)
	}

	recipeSvc := recipeService.NewService(store, cacheStore, imageProcessor, fetcher)

	common.LogInfo("服務初始化完成",
		zap.Bool("cache_enabled", cacheStore != nil),
		zap.Bool("remote_image_validation", fetcher != nil),
	)

	// 處理程序
	authH := authHandler.NewHandler(authSvc, store, cfg.Auth.CookieSecure)
	recipeH := recipeHandler.NewHandler(recipeSvc)
	healthH := health.NewHandler(cfg, store)

	// 健康檢查路由
	router.GET("/health", healthH.HealthCheck)
	router.GET("/ready", healthH.ReadinessCheck)
	router.GET("/live", healthH.LivenessCheck)

	// 靜態頁面
	router.Static("/assets", webDir)
	router.GET("/login", func(c *gin.Context) {
		c.File(webDir + "/login.html")
	})
	router.GET("/signup", func(c *gin.Context) {
		c.File(webDir + "/signup.html")
	})
	router.GET("/", middleware.RequirePageAuth(authSvc), func(c *gin.Context) {
		c.File(webDir + "/main.html")
	})
	router.GET("/recipe/:id", func(c *gin.Context) {
		c.File(webDir + "/public-recipe.html")
	})

	// API 路由
	api := router.Group("/api")
	{
		// 不需登入
		api.POST("/auth/login", authH.HandleLogin)
		api.POST("/signup", authH.HandleSignup)
		api.POST("/logout", authH.HandleLogout)
		api.GET("/public-recipe/:id", recipeH.HandlePublicByID)

		// 需登入
		authed := api.Group("", middleware.RequireAuth(authSvc))
		{
			authed.GET("/user", authH.HandleUser)
			authed.GET("/user/current", authH.HandleCurrentUser)

			authed.GET("/recipes", recipeH.HandleList)
			authed.POST("/recipes", recipeH.HandleUpsert)
			authed.POST("/recipes/batch", recipeH.HandleBatch)
			authed.DELETE("/recipes/:id", recipeH.HandleDelete)
			authed.POST("/recipes/save-public", recipeH.HandleSavePublic)

			authed.GET("/public-recipes", recipeH.HandlePublicList)
			authed.GET("/stats", recipeH.HandleStats)
		}
	}

	// 未匹配路由
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Success: false,
			Message: "Not Found",
		})
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
