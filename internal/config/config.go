package config

import (
	"github.com/caarlos0/env/v11"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
)

// Config holds all configuration for the engine and its tools
type Config struct {
	Combat      CombatConfig
	Definitions DefinitionsConfig
	Redis       RedisConfig
	Log         LogConfig
	DND5E       DND5EConfig
}

// CombatConfig holds rule engine settings
type CombatConfig struct {
	Seed                   int64    `env:"COMBAT_SEED" envDefault:"1"`
	ConcentrationSaveBonus int      `env:"CONCENTRATION_SAVE_BONUS" envDefault:"0"`
	SurfaceActions         []string `env:"SURFACE_ACTIONS" envSeparator:","`
	RuleMaxDepth           int      `env:"RULE_MAX_DEPTH" envDefault:"8"`
}

// DefinitionsConfig says where status and passive definitions come from
type DefinitionsConfig struct {
	Dir string `env:"DEFINITIONS_DIR" envDefault:"data"`
}

// RedisConfig holds Redis-specific configuration. An empty URL disables the Redis store.
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// DND5EConfig holds D&D 5e API configuration
type DND5EConfig struct {
	BaseURL string `env:"DND5E_API_URL" envDefault:"https://www.dnd5eapi.co"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, dnderr.Wrap(err, "failed to parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot
func (c *Config) Validate() error {
	if c.Combat.RuleMaxDepth < 1 {
		return dnderr.InvalidArgumentf("RULE_MAX_DEPTH must be at least 1, got %d", c.Combat.RuleMaxDepth)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return dnderr.InvalidArgumentf("LOG_FORMAT must be console or json, got %q", c.Log.Format)
	}
	return nil
}
