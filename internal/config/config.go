// Package config loads server configuration from the environment
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/tableforge/tableforge/internal/errors"
)

// Config holds everything the server needs to start
type Config struct {
	// ServerAddr is the HTTP listen address for the websocket endpoint
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// AuthTimeout bounds how long a connection may idle before its
	// first authenticate command
	AuthTimeout time.Duration `env:"AUTH_TIMEOUT" envDefault:"30s"`

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// World generation defaults for new sessions
	WorldWidth  int `env:"WORLD_WIDTH" envDefault:"20"`
	WorldHeight int `env:"WORLD_HEIGHT" envDefault:"20"`

	// MaxPlayers is the default roster cap for new sessions
	MaxPlayers int32 `env:"MAX_PLAYERS" envDefault:"6"`

	// LogTailLimit caps the log entries carried in a state snapshot
	LogTailLimit int `env:"LOG_TAIL_LIMIT" envDefault:"50"`
}

// Load parses configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ServerAddr == "" {
		vb.RequiredField("ServerAddr")
	}
	if c.RedisAddr == "" {
		vb.RequiredField("RedisAddr")
	}
	if c.WorldWidth <= 0 {
		vb.InvalidField("WorldWidth", "must be positive")
	}
	if c.WorldHeight <= 0 {
		vb.InvalidField("WorldHeight", "must be positive")
	}
	if c.MaxPlayers <= 0 {
		vb.InvalidField("MaxPlayers", "must be positive")
	}
	if c.AuthTimeout <= 0 {
		vb.InvalidField("AuthTimeout", "must be positive")
	}

	return vb.Build()
}
