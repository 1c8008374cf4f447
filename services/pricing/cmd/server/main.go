// services/pricing/cmd/server/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/pricing/internal/handler"
	"github.com/CSINCE90/bnb-manager-macos-sub000/services/pricing/internal/service"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/clock"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/config"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/database"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/logger"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/middleware"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/redis"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/store"
)

type Config struct {
	config.Base
	PriceMin        float64       `envconfig:"PRICE_MIN" default:"0"`
	PriceMax        float64       `envconfig:"PRICE_MAX" default:"0"`
	CalendarMaxDays int           `envconfig:"CALENDAR_MAX_DAYS" default:"365"`
	CacheTTL        time.Duration `envconfig:"CACHE_TTL" default:"1h"`
	RetrainInterval time.Duration `envconfig:"RETRAIN_INTERVAL" default:"6h"`
	RateLimitRPS    float64       `envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst  int           `envconfig:"RATE_LIMIT_BURST" default:"100"`
}

func main() {
	bootLog := logger.NewLogger("pricing")
	var cfg Config
	if err := config.Load(bootLog, &cfg); err != nil {
		bootLog.Fatal("failed to load configuration", zap.Error(err))
	}

	log := logger.New("pricing", cfg.Environment)
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	var (
		st store.Store
		db *sql.DB
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(ctx, cfg.DatabaseURL, cfg.Pool)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		pg := store.NewPostgresStore(db)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatal("failed to migrate database", zap.Error(err))
		}
		st = pg
		log.Info("using postgres store", zap.String("database", config.MaskURL(cfg.DatabaseURL)))
	} else {
		st = store.NewMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	// Cache
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		var err error
		redisClient, err = redis.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, caching in memory only", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	clk := clock.Real{}
	engine := service.NewPriceEngine(service.PriceBand{Min: cfg.PriceMin, Max: cfg.PriceMax}, clk, log)
	cache := service.NewSuggestionCache(redisClient, cfg.CacheTTL, clk, log)
	pricingService := service.NewPricingService(st, engine, cache, clk, log,
		service.WithPropertyID(cfg.PropertyID),
		service.WithCalendarMaxDays(cfg.CalendarMaxDays),
	)

	go pricingService.RunRetrainer(ctx, cfg.RetrainInterval)
	go cache.RunJanitor(ctx, time.Minute)

	pricingHandler := handler.NewPricingHandler(pricingService, log)
	router := setupRouter(pricingHandler, db, cfg, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func setupRouter(h *handler.PricingHandler, db *sql.DB, cfg Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())
	router.Use(middleware.RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if db != nil {
			if err := db.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.Register(router.Group("/api/v1"))

	return router
}
