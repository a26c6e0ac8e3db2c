package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
	// Seed adds the starter exercises when the loaded catalog is empty.
	Seed bool `yaml:"seed"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type AuthConfig struct {
	// APIKey guards mutating routes. Empty disables auth.
	APIKey string `yaml:"api_key"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	// Path is the JSON file or SQLite database file.
	Path string `yaml:"path"`
	// Retain is how many catalog snapshots the SQL stores keep.
	Retain   int            `yaml:"retain"`
	Autosave bool           `yaml:"autosave"`
	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File, when set, receives a rotated copy of the log.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080},
		Storage: StorageConfig{
			Driver:   DriverJSON,
			Path:     "fittrack.json",
			Retain:   10,
			Autosave: true,
			Database: DatabaseConfig{Host: "localhost", Port: 5432, Name: "fittrack", User: "fittrack"},
		},
		Tailscale: TailscaleConfig{Hostname: "fittrack", StateDir: "tsnet-state"},
		Log:       LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
		Seed:      true,
	}
}

// Load reads config from a YAML file over Default(), then applies environment
// variable overrides. A missing file is an error unless path is empty.
// Env vars use the prefix FITTRACK_ and underscore-separated paths:
//
//	FITTRACK_SERVER_HOST, FITTRACK_SERVER_PORT, FITTRACK_AUTH_API_KEY,
//	FITTRACK_STORAGE_DRIVER, FITTRACK_STORAGE_PATH, FITTRACK_STORAGE_RETAIN,
//	FITTRACK_DB_HOST, FITTRACK_DB_PORT, FITTRACK_DB_NAME,
//	FITTRACK_DB_USER, FITTRACK_DB_PASSWORD, FITTRACK_DB_SSLMODE,
//	FITTRACK_TAILSCALE_ENABLED, FITTRACK_LOG_LEVEL, FITTRACK_LOG_FILE
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadOptional is Load, except a path that does not exist falls back to defaults.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		path = ""
	}
	return Load(path)
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("FITTRACK_SERVER_HOST", &cfg.Server.Host)
	setInt("FITTRACK_SERVER_PORT", &cfg.Server.Port)
	setString("FITTRACK_AUTH_API_KEY", &cfg.Auth.APIKey)
	setString("FITTRACK_STORAGE_DRIVER", &cfg.Storage.Driver)
	setString("FITTRACK_STORAGE_PATH", &cfg.Storage.Path)
	setInt("FITTRACK_STORAGE_RETAIN", &cfg.Storage.Retain)
	setString("FITTRACK_DB_HOST", &cfg.Storage.Database.Host)
	setInt("FITTRACK_DB_PORT", &cfg.Storage.Database.Port)
	setString("FITTRACK_DB_NAME", &cfg.Storage.Database.Name)
	setString("FITTRACK_DB_USER", &cfg.Storage.Database.User)
	setString("FITTRACK_DB_PASSWORD", &cfg.Storage.Database.Password)
	setString("FITTRACK_DB_SSLMODE", &cfg.Storage.Database.SSLMode)
	setString("FITTRACK_LOG_LEVEL", &cfg.Log.Level)
	setString("FITTRACK_LOG_FILE", &cfg.Log.File)

	if v := os.Getenv("FITTRACK_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	switch c.Storage.Driver {
	case DriverJSON, DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s driver", c.Storage.Driver)
		}
	case DriverPostgres:
		db := c.Storage.Database
		if db.Host == "" {
			return fmt.Errorf("storage.database.host is required")
		}
		if db.Port == 0 {
			return fmt.Errorf("storage.database.port is required")
		}
		if db.Name == "" {
			return fmt.Errorf("storage.database.name is required")
		}
		if db.User == "" {
			return fmt.Errorf("storage.database.user is required")
		}
	default:
		return fmt.Errorf("storage.driver %q is not one of json, sqlite, postgres", c.Storage.Driver)
	}
	if c.Storage.Retain < 1 {
		return fmt.Errorf("storage.retain must be at least 1")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}

	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
