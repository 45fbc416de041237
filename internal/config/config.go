package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort         string        `env:"PORT" envDefault:"8080"`
	DatabaseType       string        `env:"DB_TYPE" envDefault:"sqlite"`
	DatabasePath       string        `env:"DB_PATH" envDefault:"./astrocadet.db"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	StaticFilesPath    string        `env:"STATIC_PATH" envDefault:"./static"`
	CatalogSource      string        `env:"CATALOG_SOURCE" envDefault:"./static/gamedata.json"`
	SessionSecret      string        `env:"SESSION_SECRET"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	CacheVersion       string        `env:"CACHE_VERSION" envDefault:"astro-cadet-v1"`
	InputRateLimit     int           `env:"INPUT_RATE_LIMIT" envDefault:"20"`
	SessionRateLimit   int           `env:"SESSION_RATE_LIMIT" envDefault:"30"`
}

// Load reads configuration from an optional .env file and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to read .env file: %v", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.SessionSecret == "" {
		log.Println("Warning: SESSION_SECRET not set, using an insecure development secret")
		cfg.SessionSecret = "astro-cadet-dev-secret"
	}

	return cfg, nil
}
