// Package config provides configuration management for the eqonomize CLI.
// Settings are read from an optional YAML file and then overridden by
// environment variables, which may come from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/culso/Eqonomize/ledger"
)

// DefaultFile is the settings file looked up when none is given.
const DefaultFile = "eqonomize.yaml"

// Config represents the application configuration.
type Config struct {
	Budget   string       `yaml:"budget"`
	LogLevel string       `yaml:"log_level"`
	Ledger   LedgerConfig `yaml:"ledger"`
}

// LedgerConfig holds the book-wide settings handed to ledger.ParseConfig.
type LedgerConfig struct {
	MonetaryDecimalPlaces   *int   `yaml:"monetary_decimal_places"`
	BalancingDescription    string `yaml:"balancing_description"`
	DividendDescription     string `yaml:"dividend_description"`
	SecurityBuyDescription  string `yaml:"security_buy_description"`
	SecuritySellDescription string `yaml:"security_sell_description"`
}

// Load reads the settings file at path and applies environment overrides.
// An empty path means DefaultFile, which may be absent. A .env file is
// loaded from envPath if given, otherwise from the current directory when
// present.
func Load(path string, envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file settings with EQONOMIZE_* variables.
func (c *Config) applyEnv() error {
	c.Budget = getEnvOrDefault("EQONOMIZE_BUDGET", c.Budget)
	c.LogLevel = getEnvOrDefault("EQONOMIZE_LOG_LEVEL", c.LogLevel)

	if v := os.Getenv("EQONOMIZE_DECIMAL_PLACES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid EQONOMIZE_DECIMAL_PLACES: %s", v)
		}
		c.Ledger.MonetaryDecimalPlaces = &n
	}
	c.Ledger.BalancingDescription = getEnvOrDefault("EQONOMIZE_BALANCING_DESCRIPTION", c.Ledger.BalancingDescription)
	return nil
}

// Options renders the ledger settings as the options map accepted by
// ledger.ParseConfig. Unset settings are left out.
func (c *Config) Options() map[string][]string {
	options := map[string][]string{}
	l := c.Ledger
	if l.MonetaryDecimalPlaces != nil {
		options["monetary_decimal_places"] = []string{strconv.Itoa(*l.MonetaryDecimalPlaces)}
	}
	set := func(key, value string) {
		if value != "" {
			options[key] = []string{value}
		}
	}
	set("balancing_description", l.BalancingDescription)
	set("dividend_description", l.DividendDescription)
	set("security_buy_description", l.SecurityBuyDescription)
	set("security_sell_description", l.SecuritySellDescription)
	return options
}

// LedgerConfig validates the ledger settings and returns the book config.
func (c *Config) LedgerConfig() (*ledger.Config, error) {
	cfg, err := ledger.ParseConfig(c.Options())
	if err != nil {
		return nil, fmt.Errorf("invalid ledger settings: %w", err)
	}
	return cfg, nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
