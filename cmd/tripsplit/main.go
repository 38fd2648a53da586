package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tripsplit/tripsplit/internal/app"
	"github.com/tripsplit/tripsplit/internal/exchange"
	"github.com/tripsplit/tripsplit/internal/observability"
	"github.com/tripsplit/tripsplit/internal/platform/cache"
	"github.com/tripsplit/tripsplit/internal/platform/db"
	"github.com/tripsplit/tripsplit/internal/receiptscan"
	"github.com/tripsplit/tripsplit/internal/settlement"
	"github.com/tripsplit/tripsplit/internal/trip"
	"github.com/tripsplit/tripsplit/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, rate caching disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tripRepo := trip.NewRepository(dbpool)
	settlementService := settlement.NewService(tripRepo)
	settlementHandler := settlement.NewHandler(logger, settlementService)

	rateStore := exchange.NewRepository(dbpool)
	rateCache := exchange.NewCache(redisClient, cfg.RateCacheTTL)
	rateAPI := exchange.NewClient(cfg.FrankfurterURL)
	exchangeService := exchange.NewService(rateStore, rateCache, rateAPI, logger)
	exchangeHandler := exchange.NewHandler(logger, exchangeService)

	scanClient := receiptscan.NewClient(cfg.OpenAIAPIKey)
	scanHandler := receiptscan.NewHandler(logger, scanClient)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SettlementHandler:  settlementHandler,
		ExchangeHandler:    exchangeHandler,
		ReceiptScanHandler: scanHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
