package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	"go.uber.org/zap"

	"github.com/iliyamo/mbs-backend/internal/action"
	"github.com/iliyamo/mbs-backend/internal/cache"
	"github.com/iliyamo/mbs-backend/internal/config" // Internal config loader
	"github.com/iliyamo/mbs-backend/internal/database"
	"github.com/iliyamo/mbs-backend/internal/logging"
	"github.com/iliyamo/mbs-backend/internal/queue"
	"github.com/iliyamo/mbs-backend/internal/repository"
	"github.com/iliyamo/mbs-backend/internal/router" // Internal router setup
	"github.com/iliyamo/mbs-backend/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config

	logger, err := logging.New(cfg.Env, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db, cfg.DefaultAdmin, logger); err != nil {
		logger.Fatal("ensure schema", zap.Error(err))
	}

	// Redis is optional: without it the cache is off and rate limiting
	// falls back to in-process buckets.
	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err != nil {
		logger.Warn("redis unavailable, continuing without it", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	opts := action.Options{
		DetailsPolicy: action.DetailsPolicy(cfg.AccountDetailsPolicy),
		Logger:        logger,
	}
	if cfg.EventsEnabled {
		opts.Events = service.NewTicketPublisher(cfg.RabbitURL, logger)
		go func() {
			err := queue.StartTicketConsumer(ctx, queue.ConsumerConfig{URL: cfg.RabbitURL, LogDir: "logs", Logger: logger})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("ticket consumer stopped", zap.Error(err))
			}
		}()
	}

	handlers := action.NewHandlers(repository.NewStore(db), opts).Table()
	if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled && rdb != nil {
		handlers = action.WithCache(cache.New(cacheCfg, rdb, logger), handlers)
	}
	registry, err := action.NewRegistry(handlers)
	if err != nil {
		logger.Fatal("build action registry", zap.Error(err))
	}

	rateCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		logger.Fatal("rate limit config", zap.Error(err))
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HidePort = true
	router.RegisterRoutes(e, router.Options{ // Register application routes
		Dispatcher:      action.NewDispatcher(registry, logger),
		DB:              db,
		Redis:           rdb,
		RateLimit:       rateCfg,
		BrowserDenylist: cfg.BrowserDenylist,
		Logger:          logger,
	})

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
