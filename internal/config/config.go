package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application level configuration loaded from environment
// variables.
type Config struct {
	APIBaseURL     string        `env:"SANTA_API_URL" envDefault:"http://localhost:4000"`
	RequestTimeout time.Duration `env:"SANTA_REQUEST_TIMEOUT" envDefault:"30s"`
	MaxRetries     int           `env:"SANTA_MAX_RETRIES" envDefault:"3"`
	RetryBaseDelay time.Duration `env:"SANTA_RETRY_BASE_DELAY" envDefault:"1s"`
	StatePath      string        `env:"SANTA_STATE_PATH"`
	LogLevel       string        `env:"SANTA_LOG_LEVEL" envDefault:"warn"`
	Debug          bool          `env:"SANTA_DEBUG" envDefault:"false"`
}

// Load builds Config from environment with sensible defaults. StatePath
// falls back to a per-user location when unset.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.StatePath == "" {
		path, err := defaultStatePath()
		if err != nil {
			return nil, err
		}
		cfg.StatePath = path
	}

	return &cfg, nil
}

// defaultStatePath places the session database under the user config
// directory, creating the parent directory if needed.
func defaultStatePath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	dir := filepath.Join(base, "santactl")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return filepath.Join(dir, "state.db"), nil
}
