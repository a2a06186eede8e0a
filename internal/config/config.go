package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/food-ledger/internal/ledger"
	"github.com/insightdelivered/food-ledger/internal/models"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Environment variables that override file values.
const (
	EnvLedgerPath = "FOOD_LEDGER_PATH"
	EnvLogLevel   = "FOOD_LEDGER_LOG_LEVEL"
	EnvPort       = "PORT"
)

// Config is the full application configuration.
type Config struct {
	Ledger  LedgerConfig  `yaml:"ledger"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// LedgerConfig locates the ledger file and its text dialect. Delimiter and
// Quote must each be a single character.
type LedgerConfig struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter"`
	Quote     string `yaml:"quote"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// LoggingConfig selects the slog level (debug, info, warn, error) and
// handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			Path:      "data/food_log.csv",
			Delimiter: ",",
			Quote:     `"`,
		},
		Server: ServerConfig{
			Addr: ":3000",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (when
// path is not empty) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLedgerPath); v != "" {
		c.Ledger.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		c.Server.Addr = ":" + v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Ledger.Path == "" {
		return fmt.Errorf("%w: ledger.path is required", ErrInvalidConfig)
	}
	if _, err := c.StoreConfig(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q must be text or json", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// StoreConfig converts the ledger section into a ledger.Config.
func (c *Config) StoreConfig() (ledger.Config, error) {
	delim, err := singleRune("ledger.delimiter", c.Ledger.Delimiter)
	if err != nil {
		return ledger.Config{}, err
	}
	quote, err := singleRune("ledger.quote", c.Ledger.Quote)
	if err != nil {
		return ledger.Config{}, err
	}

	d := models.Dialect{Delimiter: delim, Quote: quote}
	if err := d.Validate(); err != nil {
		return ledger.Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return ledger.Config{Path: c.Ledger.Path, Dialect: d}, nil
}

func singleRune(key, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %s %q must be exactly one character", ErrInvalidConfig, key, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
