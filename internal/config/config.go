package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8000"`

	TelegramToken string `env:"TOKEN_TELEGRAM,required"`
	GroupID       int64  `env:"GRUPO_ID,required"`

	// StoreBackend selects where subscriber records live.
	StoreBackend  string `env:"STORE_BACKEND" envDefault:"postgres"`
	DatabaseDSN   string `env:"DATABASE_URL"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	switch cfg.StoreBackend {
	case StorePostgres:
		if cfg.DatabaseDSN == "" {
			return Config{}, fmt.Errorf("config: DATABASE_URL required for postgres backend")
		}
	case StoreRedis:
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("config: REDIS_ADDR required for redis backend")
		}
	default:
		return Config{}, fmt.Errorf("config: unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}
