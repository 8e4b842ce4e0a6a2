package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv        string `envconfig:"APP_ENV" default:"development"`
	Port          string `envconfig:"PORT" default:"8080"`
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"http://127.0.0.1:3000"`

	DatabaseURL   string `envconfig:"DATABASE_URL"`
	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"true"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	AuthSecret     string        `envconfig:"AUTH_SECRET"`
	AccessTokenTTL time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"8h"`
	ManagerPIN     string        `envconfig:"MANAGER_PIN"`

	RequestTimeout         time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	CartSessionTTL         time.Duration `envconfig:"CART_SESSION_TTL" default:"12h"`
	OverrideUpdatesCatalog bool          `envconfig:"CART_OVERRIDE_UPDATES_CATALOG" default:"true"`

	AutoPrint      bool          `envconfig:"AUTO_PRINT" default:"false"`
	PrintBridgeURL string        `envconfig:"PRINT_BRIDGE_URL"`
	PrintTimeout   time.Duration `envconfig:"PRINT_TIMEOUT" default:"5s"`

	LowStockScanSpec string `envconfig:"LOW_STOCK_SCAN_SPEC" default:"@every 15m"`
	PrintQueueSpec   string `envconfig:"PRINT_QUEUE_SPEC" default:"@every 30s"`
	DailySummarySpec string `envconfig:"DAILY_SUMMARY_SPEC" default:"5 0 * * *"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.AuthSecret = strings.TrimSpace(cfg.AuthSecret)
	cfg.ManagerPIN = strings.TrimSpace(cfg.ManagerPIN)
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 8 * time.Hour
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &cfg, nil
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) Production() bool {
	return c.AppEnv == "production"
}
