package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "todoapi/docs"
	"todoapi/internal/cache"
	"todoapi/internal/config"
	"todoapi/internal/handler"
	"todoapi/internal/middleware"
	"todoapi/internal/repository"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Logger *zap.Logger

	redis *redis.Client
}

// Init connects to the database (and Redis, when configured), prepares the
// schema and default data, and builds the HTTP engine.
func Init(cfg *config.Config, log *zap.Logger) (*Server, error) {
	db, err := repository.NewDB(cfg.DB.Driver, cfg.DSN(), log)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Info("✅ Connected to database", zap.String("driver", cfg.DB.Driver))

	var (
		rdb           *redis.Client
		categoryCache cache.CategoryCache
	)
	if cfg.CacheEnabled() {
		rdb = cache.NewRedisClient(cfg.Redis)
		categoryCache = cache.NewRedisCategoryCache(rdb, cfg.Redis.TTL)
		log.Info("Category cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	s := New(cfg, db, categoryCache, log)
	s.redis = rdb

	if err := Bootstrap(context.Background(), db, categoryCache, log); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Bootstrap creates missing tables and seeds the default categories into an
// empty database. categoryCache may be nil.
func Bootstrap(ctx context.Context, db *gorm.DB, categoryCache cache.CategoryCache, log *zap.Logger) error {
	if err := repository.Migrate(db); err != nil {
		return err
	}

	seeded, err := repository.SeedDefaultCategories(ctx, db)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if !seeded {
		return nil
	}

	log.Info("Default categories created")
	if categoryCache != nil {
		if err := categoryCache.Invalidate(ctx); err != nil {
			log.Warn("failed to invalidate category cache", zap.Error(err))
		}
	}
	return nil
}

// New builds the engine and route table over an already prepared database.
func New(cfg *config.Config, db *gorm.DB, categoryCache cache.CategoryCache, log *zap.Logger) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log))
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics())
	}
	if cfg.CORS.Enabled {
		r.Use(middleware.CORS(cfg.CORS.AllowOrigins))
	}

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize handlers
	categoryHandler := handler.NewCategoryHandler(categoryRepo, categoryCache, log)
	taskHandler := handler.NewTaskHandler(taskRepo, categoryRepo, log)
	healthHandler := handler.NewHealthHandler(db, log)

	// Operational routes
	r.GET("/health", healthHandler.Check)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")
	{
		// Category routes
		api.GET("/categories", categoryHandler.GetAll)

		// Task routes
		tasks := api.Group("/tasks")
		tasks.GET("", taskHandler.GetAll)
		tasks.GET("/", taskHandler.GetAll)
		tasks.POST("", taskHandler.Create)
		tasks.POST("/", taskHandler.Create)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.PATCH("/:id/toggle", taskHandler.Toggle)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Logger: log,
	}
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Logger.Info("🚀 Server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Fatal("❌ Failed to listen", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.Error("❌ Server forced to shutdown", zap.Error(err))
	}

	s.Close()
	s.Logger.Info("✅ Server exited properly")
}

// Close releases the database pool and the Redis client.
func (s *Server) Close() {
	if sqlDB, err := s.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.Logger.Warn("failed to close database", zap.Error(err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.Logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
}
