// services/analytics/cmd/server/main.go
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

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/analytics/internal/handler"
	"github.com/CSINCE90/bnb-manager-macos-sub000/services/analytics/internal/service"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/clock"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/config"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/database"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/logger"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/middleware"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/store"
)

type Config struct {
	config.Base
	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"40"`
}

func main() {
	bootLog := logger.NewLogger("analytics")
	var cfg Config
	if err := config.Load(bootLog, &cfg); err != nil {
		bootLog.Fatal("failed to load configuration", zap.Error(err))
	}

	log := logger.New("analytics", cfg.Environment)
	defer log.Sync()

	ctx := context.Background()

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

	analyticsService := service.NewAnalyticsService(st, clock.Real{}, log, cfg.PropertyID)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, log)
	router := setupRouter(analyticsHandler, db, cfg, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func setupRouter(h *handler.AnalyticsHandler, db *sql.DB, cfg Config, log *zap.Logger) *gin.Engine {
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
