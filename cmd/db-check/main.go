package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/config"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/repository"

	"go.uber.org/zap"
)

// db-check connects to the configured database, pings it and reports the
// round trip. Exit status 1 on failure.
func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Database connection failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout+5*time.Second)
	defer cancel()

	start := time.Now()
	db, err := repository.Connect(ctx, cfg.Database, zap.NewNop())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	elapsed := time.Since(start)

	target := cfg.Database.Path
	if cfg.Database.Driver != "sqlite" {
		target = fmt.Sprintf("%s:%s/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	}

	fmt.Printf("OK: Connected to %s (%s) in %dms\n", target, cfg.Database.Driver, elapsed.Milliseconds())
	return nil
}
