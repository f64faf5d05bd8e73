package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/site-cloner/internal/adapter/chromedp_scraper"
	"github.com/user/site-cloner/internal/adapter/firecrawl"
	"github.com/user/site-cloner/internal/adapter/gemini"
	"github.com/user/site-cloner/internal/adapter/goquery_simplifier"
	"github.com/user/site-cloner/internal/adapter/memory"
	"github.com/user/site-cloner/internal/adapter/postgres"
	redis_adapter "github.com/user/site-cloner/internal/adapter/redis"
	"github.com/user/site-cloner/internal/delivery/http/handler"
	"github.com/user/site-cloner/internal/delivery/http/router"
	"github.com/user/site-cloner/internal/repository"
	"github.com/user/site-cloner/internal/usecase"
	"github.com/user/site-cloner/pkg/config"
	"github.com/user/site-cloner/pkg/logger"
	"github.com/user/site-cloner/pkg/metrics"
	"go.uber.org/zap"
)

// requestSlack is added on top of scrape and generation time for simplify
// and response writing.
const requestSlack = 30 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("could not load config", zap.Error(err))
	}

	// --- Logger ---
	log := logger.New(os.Stdout, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	// --- Metrics ---
	metrics.Init()

	ctx := context.Background()
	pingers := map[string]handler.Pinger{}

	// --- Result cache ---
	var cache repository.ResultCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("unable to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		redisCache := redis_adapter.NewResultCache(rdb)
		cache = redisCache
		pingers["redis"] = redisCache
		log.Info("redis result cache enabled", zap.String("addr", cfg.RedisAddr))
	} else {
		cache = memory.NewResultCache(10 * time.Minute)
		log.Info("in-memory result cache enabled")
	}

	// --- Clone history ---
	// A nil interface, not a typed nil, disables history in the use case.
	var history repository.HistoryRepository
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatal("unable to connect to postgres", zap.Error(err))
		}
		defer pool.Close()

		historyRepo := postgres.NewHistoryRepo(pool)
		if err := historyRepo.EnsureSchema(ctx); err != nil {
			log.Fatal("failed to prepare clone history schema", zap.Error(err))
		}
		history = historyRepo
		pingers["postgres"] = historyRepo
		log.Info("clone history enabled")
	}

	// --- Scraper ---
	var scraper repository.Scraper
	switch cfg.Scraper {
	case config.ScraperChromedp:
		cdp := chromedp_scraper.NewChromedpScraper(cfg.MaxConcurrency, cfg.PageLoadTimeout, log)
		defer cdp.Close()
		scraper = cdp
	default:
		scraper = firecrawl.NewFirecrawlScraper(cfg.FirecrawlHost, cfg.FirecrawlAPIKey, cfg.ScrapeTimeout, log)
	}
	log.Info("scraper selected", zap.String("scraper", scraper.Name()))

	// --- Generator ---
	generator, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GenerateTimeout, log)
	if err != nil {
		log.Fatal("failed to create gemini client", zap.Error(err))
	}

	// --- Use Cases ---
	cloner := usecase.NewCloneUseCase(
		scraper,
		goquery_simplifier.NewSimplifier(),
		generator,
		cache,
		history,
		cfg.CacheTTL,
		log,
	)

	// --- HTTP Server ---
	requestTimeout := cfg.ScrapeTimeout + cfg.GenerateTimeout + requestSlack
	apiHandler := handler.NewHandler(cloner, pingers, log)
	httpRouter := router.New(apiHandler, log, requestTimeout)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: requestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not start server", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exiting")
}
