package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	ProdOrigins string `envconfig:"PROD_ORIGINS"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DBDSN     string `envconfig:"DB_DSN" required:"true"`
	DBMigrate bool   `envconfig:"DB_MIGRATE" default:"true"`

	JWTSecret         string        `envconfig:"JWT_SECRET" required:"true"`
	JWTAccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"15m"`
	BcryptCost        int           `envconfig:"BCRYPT_COST" default:"12"`

	// Catalog cache is enabled only when REDIS_ADDR is set.
	RedisAddr       string        `envconfig:"REDIS_ADDR"`
	CatalogCacheTTL time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"10m"`

	// Notifications go to the log when RABBIT_URL is empty.
	RabbitURL      string        `envconfig:"RABBIT_URL"`
	NotifyExchange string        `envconfig:"NOTIFY_EXCHANGE" default:"notification.exchange"`
	NotifyTimeout  time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"5s"`

	StoragePath string `envconfig:"STORAGE_PATH" default:"./storage"`
}

// IsProduction reports whether APP_ENV selects the production profile.
func (c *Config) IsProduction() bool {
	return c.AppEnv == PROD_STRING
}

// Origins splits PROD_ORIGINS into individual origins.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.ProdOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// envconfig's required only checks presence; an empty value is still accepted.
	if strings.TrimSpace(cfg.DBDSN) == "" {
		return nil, fmt.Errorf("invalid configuration: DB_DSN must not be empty")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("invalid configuration: JWT_SECRET must not be empty")
	}

	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %d is outside [4,31]", cfg.BcryptCost)
	}
	if cfg.NotifyTimeout <= 0 {
		return nil, fmt.Errorf("invalid NOTIFY_TIMEOUT: must be positive")
	}

	return cfg, nil
}
