// Package models defines data structures for configuration and the baseball domain.
package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDatabaseName   = "stats"
	DefaultTestDBName     = "tmp"
	DefaultDataDir        = "data"
	DefaultTestDataDir    = "test_data"
	DefaultRequestTimeout = 30 * time.Second
	DefaultUserAgent      = "deepfield/1.0 (+https://github.com/dtnitsch/deepfield)"

	// TestingEnv selects the test fixture locations when set to any value.
	TestingEnv = "DEEPFIELD_TESTING"
)

// Config holds runtime configuration. Values come from an optional YAML file,
// then the environment, then CLI flags, each overriding the previous.
type Config struct {
	DatabaseName   string        `yaml:"database_name"`
	DataDir        string        `yaml:"data_dir"`
	CacheDir       string        `yaml:"cache_dir"`
	CrawlDelay     time.Duration `yaml:"crawl_delay"`
	UserAgent      string        `yaml:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Testing        bool          `yaml:"-"`
}

// LoadConfig reads path (if non-empty and present) and applies environment
// overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	_, cfg.Testing = os.LookupEnv(TestingEnv)
	if v := os.Getenv("DEEPFIELD_DATABASE_NAME"); v != "" {
		cfg.DatabaseName = v
	}
	if v := os.Getenv("DEEPFIELD_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("DEEPFIELD_CRAWL_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DEEPFIELD_CRAWL_DELAY: %w", err)
		}
		cfg.CrawlDelay = d
	}

	return cfg.WithDefaults(), nil
}

// WithDefaults returns a copy with zero-valued fields filled in. CrawlDelay is
// left alone; the fetcher owns its default.
func (c Config) WithDefaults() *Config {
	if c.DatabaseName == "" {
		c.DatabaseName = DefaultDatabaseName
		if c.Testing {
			c.DatabaseName = DefaultTestDBName
		}
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
		if c.Testing {
			c.DataDir = DefaultTestDataDir
		}
	}
	if c.CacheDir == "" {
		c.CacheDir = filepath.Join(c.DataDir, "cache")
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	return &c
}

// DBPath is the SQLite file for the configured database name.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, c.DatabaseName+".db")
}

// ValidateDatabaseName rejects names with a directory component or extension.
func ValidateDatabaseName(name string) error {
	if name == "" {
		return errors.New("database name must not be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("database name %q must not contain a path", name)
	}
	if filepath.Ext(name) != "" {
		return fmt.Errorf("database name %q must not have an extension", name)
	}
	return nil
}
