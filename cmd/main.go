package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"catalog-transformer/internal/config"
	"catalog-transformer/internal/handlers"
	"catalog-transformer/internal/middleware"
	"catalog-transformer/internal/pipeline"
	"catalog-transformer/internal/repository"
	"catalog-transformer/internal/store"
	"catalog-transformer/internal/transform"
)

// @title Catalog Transformer API
// @version 1.0.0
// @description Deterministic CSV to JSON product catalog transform with forgiving input handling

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8088
// @BasePath /api/v1

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize run-history database (optional)
	var runsRepo *repository.RunsRepository
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if db != nil {
		runsRepo = repository.NewRunsRepository(db)
		log.Println("✓ Run history enabled (database connected)")
	} else {
		log.Println("DB_HOST not set, run history disabled")
	}

	// Initialize result store: Redis with in-memory fallback
	var resultStore store.ResultStore
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (using in-memory result store)", err)
		resultStore = store.NewMemoryStore()
	} else {
		redisClient := redis.NewClient(redisOpts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("WARNING: Failed to connect to Redis: %v (using in-memory result store)", err)
			resultStore = store.NewMemoryStore()
		} else {
			log.Println("✓ Redis connected successfully")
			resultStore = store.NewRedisStore(redisClient)
		}
		cancel()
	}

	// Initialize pipeline with the configured color table
	colors := transform.NewColorResolver(cfg.ColorCodes)
	catalogPipeline := pipeline.New(colors, logger)

	// Initialize handlers
	convertHandler := handlers.NewConvertHandler(catalogPipeline, resultStore, runsRepo, logger)
	templateHandler := handlers.NewTemplateHandler()

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Health check endpoints
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)

	// API routes
	api := router.Group("/api/v1")
	{
		catalog := api.Group("/catalog")
		{
			catalog.POST("/convert", convertHandler.ConvertCatalog)
			catalog.GET("/result", convertHandler.GetLastResult)
			catalog.GET("/export", convertHandler.ExportCatalog)
			catalog.GET("/runs", convertHandler.GetRuns)
			catalog.GET("/runs/:id", convertHandler.GetRun)
			catalog.GET("/template", templateHandler.GetTemplate)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Catalog transformer starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-quit
	log.Println("Catalog transformer stopped")
}
