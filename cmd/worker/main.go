package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/cotizamed/cotizamed/internal/app"
	"github.com/cotizamed/cotizamed/internal/currency"
	jobmetrics "github.com/cotizamed/cotizamed/internal/jobs"
	"github.com/cotizamed/cotizamed/internal/platform/cache"
	"github.com/cotizamed/cotizamed/internal/platform/db"
	"github.com/cotizamed/cotizamed/internal/pricing"
	"github.com/cotizamed/cotizamed/internal/projects"
	"github.com/cotizamed/cotizamed/internal/quotes"
	"github.com/cotizamed/cotizamed/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	rates, err := currency.ParseRates(cfg.FXRates)
	if err != nil {
		logger.Error("parse fx rates", slog.Any("error", err))
		os.Exit(1)
	}
	converter := currency.NewConverter(currency.NewTable(cfg.ReferenceCurrency, rates), cfg.FXStrict)
	calculator := pricing.NewCalculator(converter)

	projectsRepo := projects.NewRepository(pool)
	projectsService := projects.NewService(projectsRepo, nil)

	comparisonCache := quotes.NewComparisonCache(redisClient, cfg.ComparisonCacheTTL, logger)
	quotesRepo := quotes.NewRepository(pool)
	quotesService := quotes.NewService(quotesRepo, projectsService, calculator, comparisonCache, logger)

	warmupJob := jobs.NewComparisonWarmupJob(projectsRepo, quotesService, logger, jobmetrics.NewMetrics(nil))

	scanTask, err := jobs.NewComparisonWarmupTask(jobs.ComparisonWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskComparisonWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupCron, Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
