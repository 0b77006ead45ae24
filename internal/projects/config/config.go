package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
)

// RedisConfig holds the connection settings for the tag cache.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	Database int    `env:"REDIS_DB" envDefault:"0"`

	// TagCacheTTL bounds how stale the cached tag sets may get.
	TagCacheTTL time.Duration `env:"TAG_CACHE_TTL" envDefault:"5m"`
}

// Config holds all configuration for the projects module.
type Config struct {
	MongoDBURI   string `env:"MONGODB_URI"`
	DatabaseName string `env:"MONGODB_DATABASE" envDefault:"trackserver"`

	// AuthSecret signs and validates identity tokens (HS256).
	AuthSecret string `env:"AUTH_SECRET"`

	Redis RedisConfig
}

// LoadConfig loads configuration from environment variables and applies
// defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load projects configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Redis); err != nil {
		return nil, errors.New("failed to load redis configuration from environment: " + err.Error())
	}

	if cfg.MongoDBURI == "" {
		return nil, errors.New("MONGODB_URI environment variable is not set")
	}
	if cfg.Redis.TagCacheTTL <= 0 {
		cfg.Redis.TagCacheTTL = 5 * time.Minute
	}

	return cfg, nil
}

// DefaultConfig returns a Config with local development defaults.
func DefaultConfig() *Config {
	return &Config{
		MongoDBURI:   "mongodb://localhost:27017",
		DatabaseName: "trackserver",
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			TagCacheTTL: 5 * time.Minute,
		},
	}
}
