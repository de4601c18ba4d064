// Package config loads VoiceGit runtime configuration from an optional TOML file
// and environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full runtime configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	AI      AIConfig      `toml:"ai"`
	Store   StoreConfig   `toml:"store"`
	Capture CaptureConfig `toml:"capture"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AIConfig holds the fixed chat-completion parameters
type AIConfig struct {
	BaseURL     string  `toml:"base_url"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
	// APIKeyEnv names the environment variable read on every upstream call
	APIKeyEnv string `toml:"api_key_env"`
	// APIKeySecret, when set, is an AWS Secrets Manager id holding the key instead
	APIKeySecret string `toml:"api_key_secret"`
}

// StoreConfig selects where commit records live
type StoreConfig struct {
	Driver       string `toml:"driver"`
	SQLitePath   string `toml:"sqlite_path"`
	DatabaseURL  string `toml:"database_url"`
	DBSecretName string `toml:"db_secret_name"`
	Seed         bool   `toml:"seed"`
}

// CaptureConfig controls the canned transcript recorder
type CaptureConfig struct {
	Duration string `toml:"duration"`
}

// LogConfig controls slog output
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		AI: AIConfig{
			BaseURL:     "https://integrate.api.nvidia.com",
			Model:       "moonshotai/kimi-k2.5",
			MaxTokens:   2048,
			Temperature: 0.7,
			APIKeyEnv:   "NVIDIA_API_KEY",
		},
		Store: StoreConfig{
			Driver:     StoreMemory,
			SQLitePath: "voicegit.db",
			Seed:       true,
		},
		Capture: CaptureConfig{
			Duration: "3s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path (if non-empty), applies environment overrides and validates
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	setString("VOICEGIT_ADDR", &c.Server.Addr)
	setString("VOICEGIT_AI_BASE_URL", &c.AI.BaseURL)
	setString("VOICEGIT_AI_MODEL", &c.AI.Model)
	setString("VOICEGIT_AI_KEY_ENV", &c.AI.APIKeyEnv)
	setString("VOICEGIT_AI_KEY_SECRET", &c.AI.APIKeySecret)
	setString("VOICEGIT_STORE", &c.Store.Driver)
	setString("VOICEGIT_SQLITE_PATH", &c.Store.SQLitePath)
	setString("DATABASE_URL", &c.Store.DatabaseURL)
	setString("DB_SECRET_NAME", &c.Store.DBSecretName)
	setString("VOICEGIT_CAPTURE_DURATION", &c.Capture.Duration)
	setString("VOICEGIT_LOG_LEVEL", &c.Log.Level)
	setString("VOICEGIT_LOG_FORMAT", &c.Log.Format)

	// PORT is what Lambda web adapters and most PaaS runtimes hand us
	if port, ok := lookup("PORT"); ok && port != "" {
		c.Server.Addr = ":" + port
	}

	if v, ok := lookup("VOICEGIT_SEED"); ok && v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: VOICEGIT_SEED must be a boolean: %v", ErrInvalidConfig, err)
		}
		c.Store.Seed = seed
	}
	return nil
}

// Validate checks the configuration and fills derived defaults
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server address is required", ErrInvalidConfig)
	}
	if c.AI.BaseURL == "" {
		return fmt.Errorf("%w: ai base_url is required", ErrInvalidConfig)
	}
	if c.AI.Model == "" {
		return fmt.Errorf("%w: ai model is required", ErrInvalidConfig)
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("%w: ai max_tokens must be positive", ErrInvalidConfig)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("%w: ai temperature must be between 0 and 2", ErrInvalidConfig)
	}
	if c.AI.APIKeyEnv == "" && c.AI.APIKeySecret == "" {
		return fmt.Errorf("%w: ai api_key_env or api_key_secret is required", ErrInvalidConfig)
	}

	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("%w: store sqlite_path is required for the sqlite driver", ErrInvalidConfig)
		}
	case StorePostgres:
		if c.Store.DatabaseURL == "" && c.Store.DBSecretName == "" {
			return fmt.Errorf("%w: store database_url or db_secret_name is required for the postgres driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}

	if _, err := c.CaptureDuration(); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log format must be json or text", ErrInvalidConfig)
	}
	return nil
}

// CaptureDuration parses Capture.Duration
func (c *Config) CaptureDuration() (time.Duration, error) {
	if c.Capture.Duration == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Capture.Duration)
	if err != nil {
		return 0, fmt.Errorf("%w: capture duration: %v", ErrInvalidConfig, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: capture duration must not be negative", ErrInvalidConfig)
	}
	return d, nil
}
