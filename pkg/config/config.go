// Package config loads runtime configuration from the environment and an
// optional YAML distribution file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Mindburn-Labs/floot/pkg/chain"
	"github.com/Mindburn-Labs/floot/pkg/commitment"
)

// Defaults mirror the reference deployment.
const (
	DefaultGuardianWindow = 24 * time.Hour
	DefaultMaxDuration    = 10 * 24 * time.Hour
	DefaultMaxSupply      = 8000
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime configuration.
type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`
	DatabaseURL string `env:"DATABASE_URL"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisStream   string `env:"REDIS_STREAM" envDefault:"floot:seed-events"`

	DistributionFile string `env:"FLOOT_DISTRIBUTION_FILE"`
	Distribution     Distribution

	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
}

// Distribution holds the immutable construction parameters of a distribution.
type Distribution struct {
	GuardianSeedHash string        `env:"FLOOT_GUARDIAN_SEED_HASH" yaml:"guardian_seed_hash"`
	GuardianWindow   time.Duration `env:"FLOOT_GUARDIAN_WINDOW" envDefault:"24h" yaml:"guardian_window"`
	MaxDuration      time.Duration `env:"FLOOT_MAX_DURATION" envDefault:"240h" yaml:"max_duration"`
	MaxSupply        uint64        `env:"FLOOT_MAX_SUPPLY" envDefault:"8000" yaml:"max_supply"`
}

// Load reads the environment, then overlays the distribution file if one is
// configured. Values set in the file win over the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DistributionFile != "" {
		if err := cfg.Distribution.overlayFile(cfg.DistributionFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (d *Distribution) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load distribution file %q: %w", path, err)
	}
	var file Distribution
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse distribution file %q: %w", path, err)
	}
	if file.GuardianSeedHash != "" {
		d.GuardianSeedHash = file.GuardianSeedHash
	}
	if file.GuardianWindow != 0 {
		d.GuardianWindow = file.GuardianWindow
	}
	if file.MaxDuration != 0 {
		d.MaxDuration = file.MaxDuration
	}
	if file.MaxSupply != 0 {
		d.MaxSupply = file.MaxSupply
	}
	return nil
}

// Validate checks the distribution parameters. An empty guardian seed hash is
// allowed; callers that need a commitment ask for one explicitly.
func (c *Config) Validate() error {
	d := c.Distribution
	if d.GuardianWindow <= 0 {
		return fmt.Errorf("%w: guardian window must be positive", ErrInvalidConfig)
	}
	if d.MaxDuration <= 0 {
		return fmt.Errorf("%w: max duration must be positive", ErrInvalidConfig)
	}
	if d.MaxSupply == 0 {
		return fmt.Errorf("%w: max supply must be positive", ErrInvalidConfig)
	}
	if d.GuardianSeedHash != "" {
		if _, err := d.Commitment(); err != nil {
			return err
		}
	}
	return nil
}

// Commitment parses the configured guardian seed hash.
func (d Distribution) Commitment() (commitment.Commitment, error) {
	if d.GuardianSeedHash == "" {
		return commitment.Commitment{}, fmt.Errorf("%w: FLOOT_GUARDIAN_SEED_HASH is not set", ErrInvalidConfig)
	}
	h, err := chain.ParseHash(d.GuardianSeedHash)
	if err != nil {
		return commitment.Commitment{}, fmt.Errorf("%w: guardian seed hash: %v", ErrInvalidConfig, err)
	}
	c, err := commitment.New(h)
	if err != nil {
		return commitment.Commitment{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return c, nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to INFO.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// UsesPostgres reports whether DatabaseURL selects the postgres driver.
func (c *Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}
