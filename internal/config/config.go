// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer sources.
// - Credentials are never defaulted in code; they come from env or file only.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// RedisHost and RedisPort locate the backing store.
	RedisHost string `koanf:"redis_host"`
	RedisPort int    `koanf:"redis_port"`

	// RedisUsername and RedisPassword authenticate the session.
	// No defaults; supply via PODIUM_REDIS_USERNAME / PODIUM_REDIS_PASSWORD.
	RedisUsername string `koanf:"redis_username"`
	RedisPassword string `koanf:"redis_password"`

	// RedisDB selects the logical database.
	RedisDB int `koanf:"redis_db"`

	// ScanCount is the COUNT hint passed to key-pattern scans.
	ScanCount int `koanf:"scan_count"`

	// TopPlayersLimit is the default limit for top-player queries.
	TopPlayersLimit int `koanf:"top_players_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		RedisHost:       "localhost",
		RedisPort:       6379,
		RedisDB:         0,
		ScanCount:       100,
		TopPlayersLimit: 10,
	}
}

// RedisAddr renders the host:port pair for the store client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
