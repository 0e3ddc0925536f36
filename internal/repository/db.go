package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/config"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func init() {
	// sqlx has no bind type for the modernc driver name
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Connect opens the configured database and pings it with exponential
// backoff until ConnectTimeout elapses
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open(cfg.Driver, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// SQLite allows a single writer
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = cfg.ConnectTimeout
	if b.MaxElapsedTime <= 0 {
		// zero would retry forever
		b.MaxElapsedTime = 10 * time.Second
	}

	attempt := 0
	ping := func() error {
		attempt++
		if err := db.PingContext(ctx); err != nil {
			logger.Warn("database ping failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		return nil
	}

	if err := backoff.Retry(ping, backoff.WithContext(b, ctx)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// DSN builds the driver specific data source name
func DSN(cfg config.DatabaseConfig) string {
	if cfg.Driver == "sqlite" {
		return "file:" + cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS watchlist (
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		symbol TEXT NOT NULL,
		company TEXT NOT NULL,
		added_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, symbol)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_watchlist_user_id ON watchlist (user_id)`,
}

// Migrate creates the tables if they do not exist
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
