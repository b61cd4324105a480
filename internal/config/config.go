package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	ServerAddress string        `env:"SERVER_ADDRESS"`
	BaseURL       string        `env:"BASE_URL"`
	DatabaseDSN   string        `env:"DATABASE_DSN"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	CacheTTL      time.Duration `env:"CACHE_TTL"`
}

func ParseFlags() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	envServerAddress := cfg.ServerAddress
	envBaseURL := cfg.BaseURL
	envDatabaseDSN := cfg.DatabaseDSN
	envRedisAddr := cfg.RedisAddr
	envCacheTTL := cfg.CacheTTL

	flag.StringVar(&cfg.ServerAddress, "a", "localhost:8080", "Address of the server")
	flag.StringVar(&cfg.BaseURL, "b", "http://localhost:8080", "Base URL for short URLs")
	flag.StringVar(&cfg.DatabaseDSN, "d", "", "PostgreSQL DSN (in-memory storage when empty)")
	flag.StringVar(&cfg.RedisAddr, "r", "", "Redis address for the lookup cache (disabled when empty)")
	flag.DurationVar(&cfg.CacheTTL, "cache-ttl", time.Hour, "TTL for cached lookups")

	flag.Parse()

	// Environment variables win over flags.
	if envServerAddress != "" {
		cfg.ServerAddress = envServerAddress
	}
	if envBaseURL != "" {
		cfg.BaseURL = envBaseURL
	}
	if envDatabaseDSN != "" {
		cfg.DatabaseDSN = envDatabaseDSN
	}
	if envRedisAddr != "" {
		cfg.RedisAddr = envRedisAddr
	}
	if envCacheTTL != 0 {
		cfg.CacheTTL = envCacheTTL
	}

	cfg.applyDefaultValues()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	return nil
}

func (c *Config) applyDefaultValues() {
	if c.ServerAddress == "" {
		c.ServerAddress = "localhost:8080"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8080"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = time.Hour
	}
}
