package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Finnhub    FinnhubConfig
	Cache      CacheConfig
	Revalidate RevalidateConfig
	Search     SearchConfig
	News       NewsConfig
	Kafka      KafkaConfig
	Logging    LoggingConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string `validate:"required"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database specific configuration.
// Driver "pgx" connects to Postgres; "sqlite" opens the file at Path.
type DatabaseConfig struct {
	Driver          string `validate:"required,oneof=pgx sqlite"`
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string
	MaxOpenConns    int `validate:"gte=1"`
	MaxIdleConns    int `validate:"gte=0"`
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// AuthConfig holds authentication specific configuration
type AuthConfig struct {
	JWTSecret           string
	AccessTokenDuration time.Duration `validate:"gt=0"`
}

// FinnhubConfig holds the market-data API settings. An empty APIKey is
// accepted at load time and reported by the operations that need it.
type FinnhubConfig struct {
	BaseURL string        `validate:"required,url"`
	APIKey  string
	Timeout time.Duration `validate:"gt=0"`
}

// CacheConfig selects the shared store used for revalidated upstream responses
type CacheConfig struct {
	Backend       string `validate:"required,oneof=memory redis"`
	MaxEntries    int    `validate:"gte=1"`
	RedisURL      string
	RedisPassword string
	RedisDB       int
	PrefixKey     string
}

// RevalidateConfig holds how long each upstream response may be served from
// the shared cache. Zero means every call is a live request.
type RevalidateConfig struct {
	Quote          time.Duration
	Profile        time.Duration
	Metrics        time.Duration
	PopularProfile time.Duration
	Search         time.Duration
	News           time.Duration
}

// SearchConfig holds stock search tunables
type SearchConfig struct {
	PopularSymbols  []string `validate:"required,min=1"`
	PopularLimit    int      `validate:"gte=1"`
	MaxResults      int      `validate:"gte=1"`
	MemoEntries     int      `validate:"gte=1"`
	DefaultExchange string   `validate:"required"`
}

// NewsConfig holds news aggregation tunables
type NewsConfig struct {
	MaxArticles     int `validate:"gte=1"`
	GeneralDedupCap int `validate:"gtefield=MaxArticles"`
	LookbackDays    int `validate:"gte=1"`
	RequireSummary  bool
	SummaryLength   int `validate:"gte=0"`
}

// KafkaConfig holds Kafka specific configuration
type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	ClientID       string
	WatchlistTopic string
	DigestTopic    string
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string `validate:"omitempty,oneof=debug info warn error"`
	Format string `validate:"omitempty,oneof=json console"`
}

// LoadConfig loads the configuration from file and environment variables.
// An empty path skips the file and uses defaults plus environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Names used by the web front end deployment.
	_ = v.BindEnv("finnhub.apiKey", "FINNHUB_API_KEY", "NEXT_PUBLIC_FINNHUB_API_KEY")
	_ = v.BindEnv("auth.jwtSecret", "JWT_SECRET")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		return fmt.Errorf("invalid config: database.path is required for the sqlite driver")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("invalid config: kafka.brokers is required when kafka is enabled")
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("invalid config: cache.redisUrl is required for the redis backend")
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "30s")
	v.SetDefault("server.idleTimeout", "120s")

	// Database defaults
	v.SetDefault("database.driver", "pgx")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "signalist")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "signalist")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", "30m")
	v.SetDefault("database.connectTimeout", "8s")

	// Auth defaults
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.accessTokenDuration", "24h")

	// Finnhub defaults
	v.SetDefault("finnhub.baseURL", "https://finnhub.io/api/v1")
	v.SetDefault("finnhub.apiKey", "")
	v.SetDefault("finnhub.timeout", "10s")

	// Cache defaults
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.maxEntries", 1000)
	v.SetDefault("cache.redisUrl", "")
	v.SetDefault("cache.redisPassword", "")
	v.SetDefault("cache.redisDB", 0)
	v.SetDefault("cache.prefixKey", "signalist")

	// Revalidation windows
	v.SetDefault("revalidate.quote", "0s")
	v.SetDefault("revalidate.profile", "0s")
	v.SetDefault("revalidate.metrics", "0s")
	v.SetDefault("revalidate.popularProfile", "1h")
	v.SetDefault("revalidate.search", "30m")
	v.SetDefault("revalidate.news", "5m")

	// Search defaults
	v.SetDefault("search.popularSymbols", DefaultPopularSymbols)
	v.SetDefault("search.popularLimit", 10)
	v.SetDefault("search.maxResults", 15)
	v.SetDefault("search.memoEntries", 32)
	v.SetDefault("search.defaultExchange", "US")

	// News defaults
	v.SetDefault("news.maxArticles", 6)
	v.SetDefault("news.generalDedupCap", 20)
	v.SetDefault("news.lookbackDays", 5)
	v.SetDefault("news.requireSummary", false)
	v.SetDefault("news.summaryLength", 200)

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.clientID", "signalist")
	v.SetDefault("kafka.watchlistTopic", "watchlist-events")
	v.SetDefault("kafka.digestTopic", "news-digests")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// DefaultPopularSymbols is the list shown when a search has no query
var DefaultPopularSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX", "ORCL", "CRM",
	"ADBE", "INTC", "AMD", "PYPL", "UBER", "SPOT", "SQ", "SHOP", "ROKU",
	"SNOW", "PLTR", "COIN", "RBLX", "DDOG", "CRWD", "NET", "OKTA", "TWLO", "ZM",
}
