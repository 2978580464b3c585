package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment, one variable per knob.
type Config struct {
	APIBaseURL string `env:"GAMEKEYS_API_URL" envDefault:"http://localhost:8000/api"`

	// StateDir holds cart.json, tokens.json and the pending-order marker
	// when the file backend is used. Empty means a per-user default.
	StateDir string `env:"GAMEKEYS_STATE_DIR"`

	// RedisAddr switches client-state persistence to Redis when set.
	RedisAddr     string `env:"GAMEKEYS_REDIS_ADDR"`
	RedisPassword string `env:"GAMEKEYS_REDIS_PASSWORD"`
	RedisDB       int    `env:"GAMEKEYS_REDIS_DB" envDefault:"0"`

	// StateOwner namespaces Redis keys so terminals can share one server.
	StateOwner string `env:"GAMEKEYS_STATE_OWNER" envDefault:"default"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.StateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve state dir: %w", err)
		}
		cfg.StateDir = filepath.Join(base, "gamekeys")
	}
	return cfg, nil
}
