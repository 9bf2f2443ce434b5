// Package config loads mastoshare settings from a JSONC file and the environment.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/afero"
	"github.com/tailscale/hujson"

	"anime.bike/mastoshare/pkg/prefs"
	"anime.bike/mastoshare/pkg/prefs/prefs_filesystem"
)

const (
	// EnvPrefix is prepended to every environment override.
	EnvPrefix = "MASTOSHARE_"
	// EnvConfig names the environment variable holding the config file path.
	EnvConfig = EnvPrefix + "CONFIG"
	// FileName is looked up in the default config directory.
	FileName = "config.jsonc"

	DefaultListenAddr         = "127.0.0.1:8717"
	DefaultRedirectExpiryDays = 30
	// MaxRedirectExpiryDays keeps RedirectExpiry well inside time.Duration.
	MaxRedirectExpiryDays     = 36500
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Storage struct {
	Backend string `json:"backend" env:"BACKEND"`
	Dir     string `json:"dir" env:"DIR"`
	DbFile  string `json:"db_file" env:"DB_FILE"`
	Key     string `json:"key" env:"KEY"`
}

type Config struct {
	LogLevel           string  `json:"log_level" env:"LOG_LEVEL"`
	LogFile            string  `json:"log_file" env:"LOG_FILE"`
	ListenAddr         string  `json:"listen_addr" env:"LISTEN_ADDR"`
	UserAgent          string  `json:"user_agent" env:"USER_AGENT"`
	RedirectExpiryDays int     `json:"redirect_expiry_days" env:"REDIRECT_EXPIRY_DAYS"`
	Metrics            bool    `json:"metrics" env:"METRICS"`
	Storage            Storage `json:"storage" envPrefix:"STORAGE_"`

	// Path of the file the config was read from, empty when none was used.
	Path string `json:"-"`
}

// Defaults returns the configuration used when neither a file nor the
// environment sets a value.
func Defaults() *Config {
	return &Config{
		LogLevel:           "Info",
		ListenAddr:         DefaultListenAddr,
		RedirectExpiryDays: DefaultRedirectExpiryDays,
		Storage: Storage{
			Backend: BackendFile,
			Key:     prefs.DefaultKey,
		},
	}
}

// Load reads the config file at path, or the one named by $MASTOSHARE_CONFIG,
// or config.jsonc in the default directory if it exists. Environment
// overrides are applied last.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

func LoadFs(fs afero.Fs, path string) (*Config, error) {
	cfg := Defaults()

	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		explicit = false
		path = DefaultPath()
	}

	if path != "" {
		b, err := afero.ReadFile(fs, path)
		switch {
		case err == nil:
			if err := parse(b, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
			cfg.Path = path
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv applies MASTOSHARE_* environment variables on top of target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// DefaultPath returns the config.jsonc path inside the default config
// directory, or "" if the directory cannot be determined.
func DefaultPath() string {
	dir, err := prefs_filesystem.DefaultDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, FileName)
}

func parse(b []byte, cfg *Config) error {
	b, err := standardizeJSON(b)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func standardizeJSON(b []byte) ([]byte, error) {
	ast, err := hujson.Parse(b)
	if err != nil {
		return b, err
	}
	ast.Standardize()
	return ast.Pack(), nil
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "Debug", "Info", "Warn", "Error":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	if c.RedirectExpiryDays < 0 {
		return fmt.Errorf("redirect_expiry_days must not be negative, got %d", c.RedirectExpiryDays)
	}
	if c.RedirectExpiryDays > MaxRedirectExpiryDays {
		return fmt.Errorf("redirect_expiry_days must be at most %d, got %d", MaxRedirectExpiryDays, c.RedirectExpiryDays)
	}
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return errors.New("storage.key must not be empty")
	}
	return nil
}

// RedirectExpiry is the auto-redirect lifetime; zero means it never expires.
func (c *Config) RedirectExpiry() time.Duration {
	return time.Duration(c.RedirectExpiryDays) * 24 * time.Hour
}

// StorageDir returns the directory used by the file backend.
func (c *Config) StorageDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	return prefs_filesystem.DefaultDir()
}

// DbFile returns the sqlite database path.
func (c *Config) DbFile() (string, error) {
	if c.Storage.DbFile != "" {
		return c.Storage.DbFile, nil
	}
	dir, err := c.StorageDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mastoshare.db"), nil
}
