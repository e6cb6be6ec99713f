// Package config reads and writes the user config at
// ~/.config/wayfind/config.json and resolves effective settings.
//
// Priority for every setting: environment > .env in the working directory >
// config.json > built-in default. Invalid values at any level fall through to
// the next one.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

const (
	configFile = "config.json"
	lockFile   = "config.json.lock"
)

// Environment variables.
const (
	EnvConfigDir = "WAYFIND_CONFIG_DIR"
	EnvAPIURL    = "WAYFIND_API_URL"
	EnvDataDir   = "WAYFIND_DATA_DIR"
	EnvDeckLimit = "WAYFIND_DECK_LIMIT"
)

// Defaults.
const (
	DefaultAPIURL     = "http://localhost:3001"
	DefaultAPITimeout = 15 * time.Second
	DefaultRateLimit  = 10.0
	DefaultDeckLimit  = 10
)

// DefaultRetryDelays are the waits between empty recommendation fetches.
var DefaultRetryDelays = []time.Duration{time.Second, 2 * time.Second}

// APIConfig holds backend settings.
type APIConfig struct {
	URL       string   `json:"url,omitempty"`
	Timeout   string   `json:"timeout,omitempty"`    // duration string, default "15s"
	RateLimit *float64 `json:"rate_limit,omitempty"` // requests per second, default 10
}

// DeckConfig holds swipe deck settings.
type DeckConfig struct {
	Limit       *int     `json:"limit,omitempty"` // default 10
	RetryDelays []string `json:"retry_delays"`    // nil = default ["1s","2s"], empty = no retries
}

// Config is the on-disk user config.
type Config struct {
	API     APIConfig         `json:"api"`
	Deck    DeckConfig        `json:"deck"`
	DataDir string            `json:"data_dir,omitempty"`
	Keys    map[string]string `json:"keys,omitempty"` // key binding overrides
}

// Dir returns the config directory, creating it if necessary.
// WAYFIND_CONFIG_DIR overrides ~/.config/wayfind.
func Dir() (string, error) {
	dir := os.Getenv(EnvConfigDir)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "wayfind")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// LoadDotEnv loads a .env file into the environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads the config from dir. A missing file yields an empty config.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}
	return &cfg, nil
}

// Save writes the config to dir using atomic write (temp file + rename).
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, filepath.Join(dir, configFile))
}

// Update loads, modifies and saves the config under an exclusive lock.
func Update(dir string, fn func(*Config) error) error {
	return withConfigLock(dir, func() error {
		cfg, err := Load(dir)
		if err != nil {
			return err
		}
		if err := fn(cfg); err != nil {
			return err
		}
		return Save(dir, cfg)
	})
}

// withConfigLock serializes access to config.json using flock.
func withConfigLock(dir string, fn func() error) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, lockFile), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return err
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}

// Settings are the effective values after applying every source.
type Settings struct {
	ConfigDir   string            `json:"config_dir"`
	DataDir     string            `json:"data_dir"`
	APIURL      string            `json:"api_url"`
	APITimeout  time.Duration     `json:"api_timeout"`
	RateLimit   float64           `json:"rate_limit"`
	DeckLimit   int               `json:"deck_limit"`
	RetryDelays []time.Duration   `json:"retry_delays"`
	Keys        map[string]string `json:"keys,omitempty"`
}

// Resolve computes effective settings from the environment and the config
// in dir. Call LoadDotEnv first to include .env values.
func Resolve(dir string) (Settings, error) {
	cfg, err := Load(dir)
	if err != nil {
		return Settings{}, err
	}
	return resolve(dir, cfg), nil
}

func resolve(dir string, cfg *Config) Settings {
	s := Settings{
		ConfigDir:   dir,
		DataDir:     dir,
		APIURL:      DefaultAPIURL,
		APITimeout:  DefaultAPITimeout,
		RateLimit:   DefaultRateLimit,
		DeckLimit:   DefaultDeckLimit,
		RetryDelays: DefaultRetryDelays,
		Keys:        cfg.Keys,
	}

	if cfg.DataDir != "" {
		s.DataDir = expandHome(cfg.DataDir)
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		s.DataDir = expandHome(v)
	}

	if cfg.API.URL != "" {
		s.APIURL = cfg.API.URL
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		s.APIURL = v
	}

	if d, err := time.ParseDuration(cfg.API.Timeout); err == nil && d > 0 {
		s.APITimeout = d
	}
	if cfg.API.RateLimit != nil && *cfg.API.RateLimit > 0 {
		s.RateLimit = *cfg.API.RateLimit
	}

	if cfg.Deck.Limit != nil && *cfg.Deck.Limit > 0 {
		s.DeckLimit = *cfg.Deck.Limit
	}
	if v := os.Getenv(EnvDeckLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.DeckLimit = n
		}
	}

	if delays, err := parseDelays(cfg.Deck.RetryDelays); err == nil && cfg.Deck.RetryDelays != nil {
		s.RetryDelays = delays
	}
	return s
}

func parseDelays(vals []string) ([]time.Duration, error) {
	out := make([]time.Duration, 0, len(vals))
	for _, v := range vals {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		if d < 0 {
			return nil, fmt.Errorf("negative delay %q", v)
		}
		out = append(out, d)
	}
	return out, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
