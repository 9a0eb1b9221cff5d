package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	contentapp "github.com/shopadmin/backend/internal/application/content"
	importapp "github.com/shopadmin/backend/internal/application/import"
	"github.com/shopadmin/backend/internal/infrastructure/cache"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"github.com/shopadmin/backend/internal/infrastructure/logger"
	"github.com/shopadmin/backend/internal/infrastructure/persistence"
	"github.com/shopadmin/backend/internal/interfaces/http/handler"
	"github.com/shopadmin/backend/internal/interfaces/http/middleware"
	"github.com/shopadmin/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shop admin backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	blockRepo := persistence.NewGormBlockRepository(db.DB)

	// Import sessions live in Redis when enabled, in process memory otherwise
	sessionStore := cache.NewSessionStore(cfg.Redis, log)
	defer func() {
		if err := sessionStore.Close(); err != nil {
			log.Error("Error closing session store", zap.Error(err))
		}
	}()

	// Application services
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	blockService := contentapp.NewBlockService(blockRepo)
	importService := importapp.NewProductImportService(sessionStore, productRepo, categoryRepo, cfg.Import, log)

	// Handlers
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	blockHandler := handler.NewBlockHandler(blockService)
	importHandler := handler.NewImportHandler(importService)
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name, cfg.App.Env)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request id first so recovery and logging can tag
	// their output, CORS before the body limit so preflights never 413.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")

	// Category routes
	catalogRoutes.POST("/categories", categoryHandler.Create)
	catalogRoutes.GET("/categories", categoryHandler.List)
	catalogRoutes.GET("/categories/tree", categoryHandler.Tree)
	catalogRoutes.GET("/categories/:id", categoryHandler.Get)
	catalogRoutes.PUT("/categories/:id", categoryHandler.Update)
	catalogRoutes.PUT("/categories/:id/reorder", categoryHandler.Reorder)
	catalogRoutes.POST("/categories/merge", categoryHandler.Merge)
	catalogRoutes.POST("/categories/bulk-active", categoryHandler.BulkActive)
	catalogRoutes.DELETE("/categories/:id", categoryHandler.Delete)

	// Product routes
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.Get)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)
	catalogRoutes.PUT("/products/:id/categories", productHandler.SetCategories)
	catalogRoutes.GET("/products/:id/fitments", productHandler.GetFitments)
	catalogRoutes.PUT("/products/:id/fitments", productHandler.SetFitments)
	catalogRoutes.POST("/products/variants/generate", productHandler.GenerateVariants)

	// Content block routes
	contentRoutes := router.NewDomainGroup("content", "/content")
	contentRoutes.POST("/blocks", blockHandler.Create)
	contentRoutes.GET("/blocks", blockHandler.List)
	contentRoutes.GET("/blocks/:id", blockHandler.Get)
	contentRoutes.PUT("/blocks/:id", blockHandler.Update)
	contentRoutes.DELETE("/blocks/:id", blockHandler.Delete)
	contentRoutes.PUT("/blocks/reorder", blockHandler.Reorder)

	// Import pipeline routes
	importRoutes := router.NewDomainGroup("import", "/import")
	importRoutes.POST("/sessions", importHandler.CreateSession)
	importRoutes.POST("/sessions/skus", importHandler.CreateFromSKUPaste)
	importRoutes.GET("/sessions/:id", importHandler.GetSession)
	importRoutes.DELETE("/sessions/:id", importHandler.DeleteSession)
	importRoutes.PUT("/sessions/:id/mapping", importHandler.SetMapping)
	importRoutes.POST("/sessions/:id/validate", importHandler.Validate)
	importRoutes.PUT("/sessions/:id/variants", importHandler.SetVariants)
	importRoutes.PUT("/sessions/:id/fitments", importHandler.SetFitments)
	importRoutes.POST("/sessions/:id/commit", importHandler.Commit)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	r.Register(catalogRoutes).
		Register(contentRoutes).
		Register(importRoutes).
		Register(systemRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
