package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PODIUM_CONFIG is set
//  3. env (prefix PODIUM_), after an optional .env is folded into the
//     process environment
func Load(_ context.Context) (*Config, error) {
	base := New()

	// Fold a local .env into the environment if one exists. This is how
	// store credentials reach the process in development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	k := koanf.New(".")

	if path := os.Getenv("PODIUM_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PODIUM_REDIS_HOST, PODIUM_SCAN_COUNT, ...
	// Map env keys like PODIUM_SCAN_COUNT -> scan_count (flat keys).
	envProvider := env.Provider("PODIUM_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "podium_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RedisHost == "":
		return fmt.Errorf("%w: redis_host must not be empty", ErrInvalidConfig)
	case c.RedisPort <= 0 || c.RedisPort > 65535:
		return fmt.Errorf("%w: redis_port out of range: %d", ErrInvalidConfig, c.RedisPort)
	case c.ScanCount <= 0:
		return fmt.Errorf("%w: scan_count must be positive", ErrInvalidConfig)
	case c.TopPlayersLimit <= 0:
		return fmt.Errorf("%w: top_players_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
