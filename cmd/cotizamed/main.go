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

	"github.com/cotizamed/cotizamed/internal/app"
	"github.com/cotizamed/cotizamed/internal/catalog"
	"github.com/cotizamed/cotizamed/internal/currency"
	"github.com/cotizamed/cotizamed/internal/observability"
	"github.com/cotizamed/cotizamed/internal/platform/cache"
	"github.com/cotizamed/cotizamed/internal/platform/db"
	"github.com/cotizamed/cotizamed/internal/pricing"
	"github.com/cotizamed/cotizamed/internal/projects"
	"github.com/cotizamed/cotizamed/internal/quotes"
	"github.com/cotizamed/cotizamed/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
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

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	projectsRepo := projects.NewRepository(pool)
	projectsService := projects.NewService(projectsRepo, jobClient)
	projectsHandler := projects.NewHandler(logger, projectsService)

	comparisonCache := quotes.NewComparisonCache(redisClient, cfg.ComparisonCacheTTL, logger)
	quotesRepo := quotes.NewRepository(pool)
	quotesService := quotes.NewService(quotesRepo, projectsService, calculator, comparisonCache, logger)
	quotesHandler := quotes.NewHandler(logger, quotesService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		CatalogHandler:  catalogHandler,
		ProjectsHandler: projectsHandler,
		QuotesHandler:   quotesHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
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
