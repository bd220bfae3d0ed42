package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppEnv             string `env:"APP_ENV" envDefault:"development"`
	APIAddr            string `env:"API_ADDR" envDefault:":8080"`
	PostgresDSN        string `env:"POSTGRES_DSN,notEmpty"`
	RedisAddr          string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword      string `env:"REDIS_PASSWORD"`
	AuctionSweepSec    int    `env:"AUCTION_SWEEP_SEC" envDefault:"30"`
	ShutdownTimeoutSec int    `env:"SHUTDOWN_TIMEOUT_SEC" envDefault:"5"`
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return c, nil
}
