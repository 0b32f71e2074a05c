package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// fileConfig mirrors Config for YAML decoding. Durations are strings in the
// file ("1s", "500ms") because yaml.v3 does not decode time.Duration, and
// numeric nanoseconds in a config file are unreadable.
type fileConfig struct {
	Config         `yaml:",inline"`
	PerHostDelay   string `yaml:"per_host_delay"`
	RequestTimeout string `yaml:"request_timeout"`
}

// LoadFile loads a YAML config file on top of the defaults. Only keys
// present in the file override the default values, so a minimal file with
// one or two tunables is valid. Returns ErrConfigNotFound when the file
// does not exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	fc := fileConfig{Config: *New()}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := fc.Config
	if fc.PerHostDelay != "" {
		d, err := time.ParseDuration(fc.PerHostDelay)
		if err != nil {
			return nil, fmt.Errorf("parse per_host_delay: %w", err)
		}
		cfg.PerHostDelay = d
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}

	return &cfg, nil
}

// Environment variable names recognized by ApplyEnv. They exist so runs can
// be tuned in deployment environments without editing config files.
const (
	envQuery            = "FITCRAWL_QUERY"
	envQueryThreshold   = "FITCRAWL_QUERY_THRESHOLD"
	envPruningThreshold = "FITCRAWL_PRUNING_THRESHOLD"
	envPruningMode      = "FITCRAWL_PRUNING_MODE"
	envMaxDepth         = "FITCRAWL_MAX_DEPTH"
	envMaxPages         = "FITCRAWL_MAX_PAGES"
	envConcurrency      = "FITCRAWL_CONCURRENCY"
	envPerHostDelay     = "FITCRAWL_PER_HOST_DELAY"
	envRequestTimeout   = "FITCRAWL_REQUEST_TIMEOUT"
	envUserAgent        = "FITCRAWL_USER_AGENT"
)

// ApplyEnv overlays FITCRAWL_* environment variables onto the config.
// When dotenvPath is non-empty, the file is loaded into the environment
// first (missing files are ignored, matching godotenv conventions for
// optional .env files). Unparsable values are reported rather than
// silently skipped, since a typo in a threshold should not change a run.
func (c *Config) ApplyEnv(dotenvPath string) error {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	if v := os.Getenv(envQuery); v != "" {
		c.Query = v
	}
	if v := os.Getenv(envUserAgent); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv(envPruningMode); v != "" {
		c.PruningMode = PruningMode(v)
	}

	if err := envFloat(envQueryThreshold, &c.QueryThreshold); err != nil {
		return err
	}
	if err := envFloat(envPruningThreshold, &c.PruningThreshold); err != nil {
		return err
	}
	if err := envInt(envMaxDepth, &c.MaxDepth); err != nil {
		return err
	}
	if err := envInt(envMaxPages, &c.MaxPages); err != nil {
		return err
	}
	if err := envInt(envConcurrency, &c.Concurrency); err != nil {
		return err
	}
	if err := envDuration(envPerHostDelay, &c.PerHostDelay); err != nil {
		return err
	}
	if err := envDuration(envRequestTimeout, &c.RequestTimeout); err != nil {
		return err
	}

	return nil
}

func envFloat(name string, dst *float64) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = f
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = n
	return nil
}

func envDuration(name string, dst *time.Duration) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = d
	return nil
}
