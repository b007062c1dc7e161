package config

import (
	"os"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	engineErrors "github.com/mudforge/mudcore/internal/errors"
	"github.com/mudforge/mudcore/internal/progression"
)

// Config holds all configuration for the engine
type Config struct {
	Redis  RedisConfig
	Engine EngineConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// EngineConfig holds engine tuning and data file paths
type EngineConfig struct {
	// RulebookPath points at the rulebook YAML (skills, effects,
	// equipment templates).
	RulebookPath string
	// PolicyPath points at the progression policy YAML; empty means the
	// shipped default policy.
	PolicyPath string
	// ConvergenceInterval is the driver cadence.
	ConvergenceInterval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
		Engine: EngineConfig{
			RulebookPath:        getEnvOrDefault("RULEBOOK_PATH", "data/rulebook.yaml"),
			PolicyPath:          os.Getenv("POLICY_PATH"),
			ConvergenceInterval: getEnvAsDurationOrDefault("CONVERGENCE_INTERVAL", time.Second),
		},
	}

	if cfg.Engine.ConvergenceInterval <= 0 {
		return nil, engineErrors.InvalidArgument("CONVERGENCE_INTERVAL must be positive")
	}

	return cfg, nil
}

// LoadPolicy reads a progression policy from a YAML file, falling back
// to the default policy when the path is empty.
func LoadPolicy(path string) (*progression.Policy, error) {
	if path == "" {
		return progression.DefaultPolicy(), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, engineErrors.Wrapf(err, "failed to load policy from %s", path)
	}

	policy := progression.DefaultPolicy()
	if err := k.Unmarshal("", policy); err != nil {
		return nil, engineErrors.Wrapf(err, "failed to parse policy from %s", path)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
