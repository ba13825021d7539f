package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	catalogAPI "github.com/mauryaent/mtech-store/internal/catalog/api"
	catalogRepo "github.com/mauryaent/mtech-store/internal/catalog/repository"
	catalogService "github.com/mauryaent/mtech-store/internal/catalog/service"
	"github.com/mauryaent/mtech-store/internal/platform/cache"
	"github.com/mauryaent/mtech-store/internal/platform/config"
	"github.com/mauryaent/mtech-store/internal/platform/database"
	"github.com/mauryaent/mtech-store/internal/platform/logger"
	"github.com/mauryaent/mtech-store/internal/platform/middleware"
	userAPI "github.com/mauryaent/mtech-store/internal/user/api"
	userRepo "github.com/mauryaent/mtech-store/internal/user/repository"
	userService "github.com/mauryaent/mtech-store/internal/user/service"
)

func main() {
	// Load Config
	dbCfg := config.LoadDBConfig()
	serverCfg := config.LoadServerConfig("3000")
	cacheCfg := config.LoadCacheConfig()
	authCfg := config.LoadAuthConfig()

	logger.Info("Starting MTech Store API...")

	// Setup Database
	db, err := database.Connect(dbCfg.Path)
	if err != nil {
		logger.Error("Failed to connect to database", err)
		return
	}
	defer db.Close()

	// Setup Dependencies
	catRepository, err := catalogRepo.NewSQLiteCatalogRepository(db)
	if err != nil {
		logger.Error("Failed to initialize catalog repository", err)
		return
	}
	if err := catRepository.EnsureSeedData(context.Background()); err != nil {
		logger.Error("Failed to seed catalog", err)
		return
	}

	usrRepository, err := userRepo.NewSQLiteUserRepository(db)
	if err != nil {
		logger.Error("Failed to initialize user repository", err)
		return
	}

	var c cache.Cache
	if cacheCfg.RedisAddr != "" {
		c = cache.NewRedisCache(cacheCfg.RedisAddr, "mtech-store")
		logger.Info("Category cache backed by redis at " + cacheCfg.RedisAddr)
	} else {
		c = cache.NewNopCache()
		logger.Info("No REDIS_ADDR configured, category cache disabled")
	}

	catService := catalogService.NewCatalogService(catRepository, c, cacheCfg.CategoryTTL)
	defer catService.Close()
	catalogHandler := catalogAPI.NewCatalogHandler(catService)

	usrService := userService.NewUserService(usrRepository, authCfg)
	userHandler := userAPI.NewUserHandler(usrService)

	// Setup Gin Router
	router := gin.Default()
	router.RedirectTrailingSlash = false

	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:3001",
			"https://maurya.enterprises",
			"https://www.maurya.enterprises",
		},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 100 requests per 15 minutes per client, matching the original limiter.
	api := router.Group("/api", middleware.RateLimit(100.0/(15*60), 100))
	catalogHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"service":   "MTech API",
			"company":   "Maurya Enterprises",
			"version":   "1.0.0",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	logger.Info("MTech Store API running on port " + serverCfg.Port)
	if err := router.Run(serverCfg.Port); err != nil {
		logger.Error("Failed to run MTech Store API server", err)
	}
}
