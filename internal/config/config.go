// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting for the server.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"SUSU_ADDR" envDefault:":8080"`

	// DBPath is the SQLite file backing the durability mirror.
	DBPath string `env:"SUSU_DB_PATH" envDefault:"./data/susu.db"`

	// TokenSecret signs and verifies bearer tokens. Required.
	TokenSecret string `env:"SUSU_TOKEN_SECRET"`

	// TokenTTL is how long minted tokens remain valid.
	TokenTTL time.Duration `env:"SUSU_TOKEN_TTL" envDefault:"24h"`

	// PayoutURL is the endpoint withdrawals are confirmed against.
	// When empty, no payout rail exists and every withdrawal fails.
	PayoutURL string `env:"SUSU_PAYOUT_URL"`

	// PayoutTimeout bounds each payout call.
	PayoutTimeout time.Duration `env:"SUSU_PAYOUT_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment and validates required settings.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.TokenSecret == "" {
		return Config{}, errors.New("SUSU_TOKEN_SECRET must be set")
	}
	return cfg, nil
}
