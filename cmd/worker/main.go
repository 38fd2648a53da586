package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/tripsplit/tripsplit/internal/app"
	"github.com/tripsplit/tripsplit/internal/exchange"
	jobmetrics "github.com/tripsplit/tripsplit/internal/jobs"
	"github.com/tripsplit/tripsplit/internal/platform/cache"
	"github.com/tripsplit/tripsplit/internal/platform/db"
	"github.com/tripsplit/tripsplit/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	rateStore := exchange.NewRepository(dbpool)
	rateCache := exchange.NewCache(redisClient, cfg.RateCacheTTL)
	rateAPI := exchange.NewClient(cfg.FrankfurterURL)
	exchangeService := exchange.NewService(rateStore, rateCache, rateAPI, logger)

	warmupJob := jobs.NewRatesWarmupJob(exchangeService, logger, jobmetrics.NewMetrics(nil))

	var cron []jobs.CronEntry
	if pairs := cfg.WarmupPairList(); len(pairs) > 0 && cfg.WarmupCron != "" {
		task, err := jobs.NewRatesWarmupTask(jobs.RatesWarmupPayload{Pairs: pairs})
		if err != nil {
			logger.Error("build warmup task", slog.Any("error", err))
			os.Exit(1)
		}
		cron = append(cron, jobs.CronEntry{Spec: cfg.WarmupCron, Task: task})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Registrations: []jobs.Registration{
			{Type: jobs.TaskRatesWarmup, Handler: warmupJob.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("queue", jobs.QueueDefault))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker shut down")
}
