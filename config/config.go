// Package config loads server settings from defaults, an optional YAML file
// and the environment, in that order of precedence (later wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr       = ":8080"
	DefaultCORSOrigin = "*"
	DefaultDriver     = "file"
	DefaultDBPath     = "db.json"
	DefaultLogLevel   = "info"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

type HTTPConfig struct {
	Addr       string `yaml:"addr"`
	CORSOrigin string `yaml:"cors_origin"`
}

type StorageConfig struct {
	// Driver is one of: file | postgres | sqlite3 | mysql.
	Driver string `yaml:"driver"`

	// Path is the JSON file used by the file driver.
	Path string `yaml:"path"`

	// DSN is the connection string for SQL drivers.
	DSN string `yaml:"dsn"`

	// Watch reports external edits of the JSON file to websocket clients.
	Watch bool `yaml:"watch"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load builds the configuration. path may be empty; when set the YAML file
// must exist. A .env file in the working directory is loaded if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path == "" {
		path = os.Getenv("JOURNAL_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:       DefaultAddr,
			CORSOrigin: DefaultCORSOrigin,
		},
		Storage: StorageConfig{
			Driver: DefaultDriver,
			Path:   DefaultDBPath,
			Watch:  true,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

func applyEnv(cfg *Config) error {
	setString(&cfg.HTTP.Addr, "JOURNAL_ADDR")
	setString(&cfg.HTTP.CORSOrigin, "JOURNAL_CORS_ORIGIN")
	setString(&cfg.Storage.Driver, "JOURNAL_DRIVER")
	setString(&cfg.Storage.Path, "JOURNAL_DB_PATH")
	setString(&cfg.Storage.DSN, "JOURNAL_DSN")
	setString(&cfg.Log.Level, "LOG_LEVEL")

	if v := strings.TrimSpace(os.Getenv("JOURNAL_WATCH")); v != "" {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("JOURNAL_WATCH: %w", err)
		}
		cfg.Storage.Watch = watch
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate checks structural constraints on the configuration.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr must not be empty")
	}
	switch c.Storage.Driver {
	case "file":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the file driver")
		}
	case "postgres", "sqlite3", "mysql":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the %s driver", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("storage.driver %q unknown: want file|postgres|sqlite3|mysql", c.Storage.Driver)
	}
	return nil
}
