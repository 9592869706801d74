package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"syncial/internal/client/aleo"
	"syncial/internal/config"
	cronrunner "syncial/internal/cron"
	"syncial/internal/db"
	"syncial/internal/handler"
	"syncial/internal/logger"
	gormrepository "syncial/internal/repository/gorm"
	"syncial/internal/service"
)

func main() {
	cfgPath := os.Getenv("SY_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("SY_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Driver, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	if err := store.SeedCategories(context.Background()); err != nil {
		logger.Fatal("seed categories failed", zap.Error(err))
	}

	aleoHTTP := &http.Client{Timeout: cfg.Aleo.Timeout}
	aleoClient := aleo.NewClient(aleoHTTP, cfg.Aleo.BaseURL, cfg.Aleo.Network, logger)

	syncService := &service.LedgerSyncService{
		Store:             store,
		Aleo:              aleoClient,
		Logger:            logger,
		BettingProgram:    cfg.Aleo.BettingProgram,
		ReputationProgram: cfg.Aleo.ReputationProgram,
		PollConcurrency:   cfg.Sync.PollConcurrency,
	}
	feedService := service.NewFeedService(store)

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization"},
	}))

	healthHandler := &handler.HealthHandler{
		DB:       dbConn.Gorm,
		Repo:     store,
		Aleo:     aleoClient,
		Programs: []string{cfg.Aleo.BettingProgram, cfg.Aleo.ReputationProgram},
	}
	healthHandler.Register(engine)
	pollHandler := &handler.PollHandler{Feed: feedService, Repo: store, Logger: logger}
	pollHandler.Register(engine)
	postHandler := &handler.PostHandler{Feed: feedService, Repo: store, Logger: logger}
	postHandler.Register(engine)
	repHandler := &handler.ReputationHandler{Repo: store}
	repHandler.Register(engine)
	statsHandler := &handler.StatsHandler{Repo: store}
	statsHandler.Register(engine)
	syncHandler := &handler.SyncHandler{Service: syncService, Repo: store, Logger: logger}
	syncHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add(cfg.Cron.PollSync, func(ctx context.Context) {
			result, err := syncService.SyncPolls(ctx)
			if err != nil {
				logger.Warn("cron poll sync failed", zap.Error(err))
				return
			}
			if result.Skipped {
				return
			}
			logger.Info("cron poll sync ok",
				zap.Int("attempted", result.Attempted),
				zap.Int("synced", result.Synced),
				zap.Int("failed", result.Failed),
			)
		})
		if err != nil {
			logger.Warn("cron register poll sync failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	if cfg.Sync.InitialRun {
		go func() {
			result, err := syncService.SyncPolls(ctx)
			if err != nil {
				logger.Warn("initial poll sync failed", zap.Error(err))
				return
			}
			logger.Info("initial poll sync complete",
				zap.Int("attempted", result.Attempted),
				zap.Int("synced", result.Synced),
				zap.Int("failed", result.Failed),
			)
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown failed", zap.Error(err))
	}
}
