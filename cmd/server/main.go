package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/cache"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/client"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/config"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/events"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/handler"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/logger"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/repository"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/service"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Auth.JWTSecret == "" {
		zapLogger.Fatal("auth.jwtSecret is required")
	}
	if cfg.Finnhub.APIKey == "" {
		zapLogger.Warn("Finnhub API key is not configured; search returns empty results and stock data requests fail")
	}

	ctx := context.Background()

	// Connect to database
	db, err := repository.Connect(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Shared fetch cache
	var store cache.Store = cache.NewMemoryStore(cfg.Cache.MaxEntries)
	if cfg.Cache.Backend == "redis" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			zapLogger.Warn("Failed to connect to Redis, using in-memory cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			store = cache.NewRedisStore(redisClient, zapLogger)
			zapLogger.Info("Connected to Redis", zap.String("address", cfg.Cache.RedisURL))
		}
	}

	// Event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.ClientID, zapLogger)
		zapLogger.Info("Initialized Kafka publisher", zap.Strings("brokers", cfg.Kafka.Brokers))
	}
	defer publisher.Close()

	// Create repositories
	userRepo := repository.NewUserRepository(db, zapLogger)
	watchlistRepo := repository.NewWatchlistRepository(db, zapLogger)

	// Create services
	finnhub := client.NewFinnhubClient(cfg.Finnhub, store, cfg.Cache.PrefixKey, zapLogger)
	stockService := service.NewStockService(finnhub, cfg.Revalidate, zapLogger)
	services := handler.Services{
		Auth:      service.NewAuthService(userRepo, cfg.Auth, zapLogger),
		Stocks:    stockService,
		Search:    service.NewSearchService(finnhub, cfg.Search, cfg.Revalidate, zapLogger),
		News:      service.NewNewsService(finnhub, cfg.News, cfg.Revalidate, zapLogger),
		Watchlist: service.NewWatchlistService(watchlistRepo, userRepo, stockService, publisher, cfg.Kafka.WatchlistTopic, zapLogger),
	}

	router := handler.SetupRouter(services, cfg.Search.MemoEntries, zapLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		zapLogger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited properly")
}
