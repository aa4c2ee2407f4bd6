package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers for the cart slot
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Orders      OrdersConfig
	Cart        CartConfig
	Storage     StorageConfig
	Catalog     CatalogConfig
}

type OrdersConfig struct {
	BaseURL string
	Timeout time.Duration
}

type CartConfig struct {
	StorageKey string
	ReceiptTTL time.Duration
	// SessionIdleTTL is how long an untouched session stays in memory.
	SessionIdleTTL time.Duration
}

type StorageConfig struct {
	Driver     string
	SQLitePath string
	Redis      RedisConfig
	Database   DatabaseConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CatalogConfig struct {
	// Path to a YAML catalog; empty uses the built-in menu.
	Path string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORAGE_DRIVER", StorageSQLite)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.AutomaticEnv()

	// A missing .env is fine, env vars are enough
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	timeout, err := time.ParseDuration(getEnvOrViper("ORDER_API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORDER_API_TIMEOUT: %w", err)
	}
	receiptTTL, err := time.ParseDuration(getEnvOrViper("RECEIPT_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECEIPT_TTL: %w", err)
	}
	sessionIdleTTL, err := time.ParseDuration(getEnvOrViper("SESSION_IDLE_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TTL: %w", err)
	}
	if sessionIdleTTL <= 0 {
		return nil, fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}
	redisDB, err := strconv.Atoi(getEnvOrViper("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Orders: OrdersConfig{
			BaseURL: getEnvOrViper("ORDER_API_URL", "http://localhost:3000"),
			Timeout: timeout,
		},
		Cart: CartConfig{
			StorageKey:     getEnvOrViper("CART_STORAGE_KEY", "caffeineCart"),
			ReceiptTTL:     receiptTTL,
			SessionIdleTTL: sessionIdleTTL,
		},
		Storage: StorageConfig{
			Driver:     getEnvOrViper("STORAGE_DRIVER", StorageSQLite),
			SQLitePath: getEnvOrViper("SQLITE_PATH", "storefront.db"),
			Redis: RedisConfig{
				Addr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
				Password: getEnvOrViper("REDIS_PASSWORD", ""),
				DB:       redisDB,
			},
			Database: DatabaseConfig{
				Host:     getEnvOrViper("DB_HOST", "localhost"),
				Port:     getEnvOrViper("DB_PORT", "5432"),
				User:     getEnvOrViper("DB_USER", "postgres"),
				Password: getEnvOrViper("DB_PASSWORD", "postgres"),
				DBName:   getEnvOrViper("DB_NAME", "storefront"),
				SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
			},
		},
		Catalog: CatalogConfig{
			Path: getEnvOrViper("CATALOG_PATH", ""),
		},
	}

	// Validate required fields
	if cfg.Orders.BaseURL == "" {
		return nil, fmt.Errorf("ORDER_API_URL is required")
	}
	if cfg.Cart.StorageKey == "" {
		return nil, fmt.Errorf("CART_STORAGE_KEY is required")
	}
	switch cfg.Storage.Driver {
	case StorageMemory, StorageSQLite, StorageRedis, StoragePostgres:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
