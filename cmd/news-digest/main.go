package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/cache"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/client"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/config"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/events"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/logger"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/repository"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/service"

	"go.uber.org/zap"
)

// news-digest publishes one news digest per user to the digest topic
func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	workers := flag.Int("workers", 4, "users processed concurrently")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	if !cfg.Kafka.Enabled {
		zapLogger.Fatal("kafka must be enabled to publish news digests")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Connect(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.ClientID, zapLogger)
	defer publisher.Close()

	userRepo := repository.NewUserRepository(db, zapLogger)
	watchlistRepo := repository.NewWatchlistRepository(db, zapLogger)

	finnhub := client.NewFinnhubClient(cfg.Finnhub, cache.NewMemoryStore(cfg.Cache.MaxEntries), cfg.Cache.PrefixKey, zapLogger)
	stockService := service.NewStockService(finnhub, cfg.Revalidate, zapLogger)
	watchlistService := service.NewWatchlistService(watchlistRepo, userRepo, stockService, publisher, cfg.Kafka.WatchlistTopic, zapLogger)
	newsService := service.NewNewsService(finnhub, cfg.News, cfg.Revalidate, zapLogger)

	digests := service.NewDigestService(userRepo, watchlistService, newsService, publisher, cfg.Kafka.DigestTopic, *workers, zapLogger)

	n, err := digests.Run(ctx)
	if err != nil {
		zapLogger.Fatal("News digest run failed", zap.Error(err))
	}

	zapLogger.Info("News digest run complete", zap.Int("published", n), zap.String("topic", cfg.Kafka.DigestTopic))
}
